package ontology

// These tests cover the resolver registry and the persistent lookup cache.
import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nfdi4microbiota/mvs/config"
)

// temporary testing directory
var TESTING_DIR string

// a resolver that counts lookups and returns canned statuses
type countingResolver struct {
	statuses map[string]TermStatus
	calls    int
}

func (r *countingResolver) Resolve(ctx context.Context, code string) TermStatus {
	r.calls++
	if status, found := r.statuses[code]; found {
		return status
	}
	return TermUnknown
}

func testConfig() string {
	return fmt.Sprintf(`
service:
  data_dir: %s
catalog:
  path: unused.yaml
ontologies:
  ENVO:
    provider: test
  CHEBI:
    provider: unregistered_provider
`, TESTING_DIR)
}

// tests that registering the same provider twice triggers an error
func TestRegisterProviderRejectsDuplicates(t *testing.T) {
	err := RegisterProvider("duplicated", func(namespace string) (Resolver, error) {
		return &countingResolver{}, nil
	})
	assert.Nil(t, err)
	err = RegisterProvider("duplicated", func(namespace string) (Resolver, error) {
		return &countingResolver{}, nil
	})
	assert.NotNil(t, err, "Duplicate provider registration didn't trigger an error.")
	_, isDuplicate := err.(*AlreadyRegisteredError)
	assert.True(t, isDuplicate)
}

// tests that NewResolver instantiates a resolver once per namespace
func TestNewResolverReusesInstances(t *testing.T) {
	first, err := NewResolver("ENVO")
	assert.Nil(t, err)
	second, err := NewResolver("ENVO")
	assert.Nil(t, err)
	assert.Same(t, first, second, "NewResolver created a second instance for a namespace.")
}

// tests that NewResolver rejects unconfigured namespaces
func TestNewResolverRejectsUnknownNamespace(t *testing.T) {
	_, err := NewResolver("GO")
	assert.NotNil(t, err, "Unconfigured namespace didn't trigger an error.")
	_, isUnknown := err.(*UnknownNamespaceError)
	assert.True(t, isUnknown)
}

// tests that NewResolver rejects namespaces with unregistered providers
func TestNewResolverRejectsUnknownProvider(t *testing.T) {
	_, err := NewResolver("CHEBI")
	assert.NotNil(t, err, "Unregistered provider didn't trigger an error.")
	_, isUnknown := err.(*UnknownProviderError)
	assert.True(t, isUnknown)
}

// tests that the cached resolver consults its delegate only once per term
func TestCachedResolverCachesDefiniteOutcomes(t *testing.T) {
	delegate := &countingResolver{
		statuses: map[string]TermStatus{
			"ENVO:00002297": TermValid,
			"ENVO:01000813": TermDeprecated,
		},
	}
	cacheFile := filepath.Join(TESTING_DIR, "envo_cache.db")
	resolver, err := NewCachedResolver(delegate, "ENVO", cacheFile)
	assert.Nil(t, err)
	defer resolver.(interface{ Close() error }).Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		assert.Equal(t, TermValid, resolver.Resolve(ctx, "ENVO:00002297"))
	}
	assert.Equal(t, 1, delegate.calls, "Cached lookup consulted the delegate again.")

	assert.Equal(t, TermDeprecated, resolver.Resolve(ctx, "ENVO:01000813"))
	assert.Equal(t, TermDeprecated, resolver.Resolve(ctx, "ENVO:01000813"))
	assert.Equal(t, 2, delegate.calls)

	// unknown terms are definite outcomes and are cached too
	assert.Equal(t, TermUnknown, resolver.Resolve(ctx, "ENVO:99999999"))
	assert.Equal(t, TermUnknown, resolver.Resolve(ctx, "ENVO:99999999"))
	assert.Equal(t, 3, delegate.calls)
}

// tests that lookup failures are never written to the cache
func TestCachedResolverDoesNotCacheFailures(t *testing.T) {
	delegate := &countingResolver{
		statuses: map[string]TermStatus{"CHEBI:16236": TermLookupFailed},
	}
	cacheFile := filepath.Join(TESTING_DIR, "chebi_cache.db")
	resolver, err := NewCachedResolver(delegate, "CHEBI", cacheFile)
	assert.Nil(t, err)
	defer resolver.(interface{ Close() error }).Close()

	ctx := context.Background()
	assert.Equal(t, TermLookupFailed, resolver.Resolve(ctx, "CHEBI:16236"))
	assert.Equal(t, TermLookupFailed, resolver.Resolve(ctx, "CHEBI:16236"))
	assert.Equal(t, 2, delegate.calls, "A failed lookup was served from the cache.")

	// once the vocabulary recovers, the new outcome is cached
	delegate.statuses["CHEBI:16236"] = TermValid
	assert.Equal(t, TermValid, resolver.Resolve(ctx, "CHEBI:16236"))
	assert.Equal(t, TermValid, resolver.Resolve(ctx, "CHEBI:16236"))
	assert.Equal(t, 3, delegate.calls)
}

// performs testing setup
func setup() {
	var err error
	TESTING_DIR, err = os.MkdirTemp(os.TempDir(), "mvs-ontology-tests-")
	if err != nil {
		log.Panicf("Couldn't create testing directory: %s", err)
	}
	err = config.Init([]byte(testConfig()))
	if err != nil {
		log.Panicf("Couldn't initialize configuration: %s", err)
	}
	err = RegisterProvider("test", func(namespace string) (Resolver, error) {
		return &countingResolver{}, nil
	})
	if err != nil {
		log.Panicf("Couldn't register test provider: %s", err)
	}
}

// performs testing breakdown
func breakdown() {
	Finalize()
	os.RemoveAll(TESTING_DIR)
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	setup()
	status := m.Run()
	breakdown()
	os.Exit(status)
}
