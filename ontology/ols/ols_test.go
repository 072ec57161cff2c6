package ols

// These tests run the OLS resolver against a local HTTP stand-in for the
// Ontology Lookup Service.
import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
)

// canned OLS responses, keyed by obo_id
var olsTerms = map[string]string{
	"ENVO:00002297": `{"_embedded":{"terms":[
		{"obo_id":"ENVO:00002297","label":"environmental feature","is_obsolete":false}]}}`,
	"ENVO:01000813": `{"_embedded":{"terms":[
		{"obo_id":"ENVO:01000813","label":"astronomical body part","is_obsolete":true}]}}`,
}

// builds an httptest server that mimics the slice of the OLS API we use
func fakeOLS(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ontologies/envo/terms" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		code := r.URL.Query().Get("obo_id")
		if body, found := olsTerms[code]; found {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		} else {
			// OLS reports missing terms with an empty embedding, not a 404
			fmt.Fprint(w, `{"_embedded":{"terms":[]}}`)
		}
	}))
}

// initializes the configuration to point the ENVO namespace at the given URL
func initConfig(t *testing.T, url string) {
	conf := fmt.Sprintf(`
catalog:
  path: unused.yaml
ontologies:
  ENVO:
    provider: ols
    url: %s
`, url)
	err := config.Init([]byte(conf))
	assert.Nil(t, err)
}

// tests resolution of current, obsolete, and missing terms
func TestResolve(t *testing.T) {
	server := fakeOLS(t)
	defer server.Close()
	initConfig(t, server.URL)

	resolver, err := NewResolver("ENVO")
	assert.Nil(t, err)

	ctx := context.Background()
	assert.Equal(t, ontology.TermValid, resolver.Resolve(ctx, "ENVO:00002297"))
	assert.Equal(t, ontology.TermDeprecated, resolver.Resolve(ctx, "ENVO:01000813"))
	assert.Equal(t, ontology.TermUnknown, resolver.Resolve(ctx, "ENVO:99999999"))
}

// tests that a lookup whose deadline expires yields TermLookupFailed
func TestResolveTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"_embedded":{"terms":[]}}`)
	}))
	defer server.Close()
	initConfig(t, server.URL)

	resolver, err := NewResolver("ENVO")
	assert.Nil(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Equal(t, ontology.TermLookupFailed, resolver.Resolve(ctx, "ENVO:00002297"))
}

// tests that an unreachable service yields TermLookupFailed
func TestResolveUnreachableService(t *testing.T) {
	initConfig(t, "http://127.0.0.1:1") // nothing listens here
	resolver, err := NewResolver("ENVO")
	assert.Nil(t, err)
	assert.Equal(t, ontology.TermLookupFailed,
		resolver.Resolve(context.Background(), "ENVO:00002297"))
}

// tests that a server error yields TermLookupFailed, not TermUnknown
func TestResolveServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	initConfig(t, server.URL)

	resolver, err := NewResolver("ENVO")
	assert.Nil(t, err)
	assert.Equal(t, ontology.TermLookupFailed,
		resolver.Resolve(context.Background(), "ENVO:00002297"))
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
