package local

// These tests cover the local (file-backed) vocabulary resolver.
import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nfdi4microbiota/mvs/ontology"
)

// a small NCBI taxonomy excerpt
const VOCABULARY string = `
namespace: NCBITaxon
terms:
  - code: NCBITaxon:2
    label: Bacteria
  - code: NCBITaxon:562
    label: Escherichia coli
  - code: NCBITaxon:666
    label: Vibrio cholerae
  - code: NCBITaxon:1000000
    label: a retired placeholder
    deprecated: true
`

// tests resolution against an in-memory vocabulary
func TestResolve(t *testing.T) {
	resolver, err := NewResolverFromData("NCBITaxon", []byte(VOCABULARY))
	assert.Nil(t, err, "Valid vocabulary produced an error.")

	ctx := context.Background()
	assert.Equal(t, ontology.TermValid, resolver.Resolve(ctx, "NCBITaxon:562"))
	assert.Equal(t, ontology.TermDeprecated, resolver.Resolve(ctx, "NCBITaxon:1000000"))
	assert.Equal(t, ontology.TermUnknown, resolver.Resolve(ctx, "NCBITaxon:31337"))
}

// tests that a term entry without a code is rejected
func TestNewResolverRejectsCodelessTerm(t *testing.T) {
	vocabulary := "namespace: NCBITaxon\nterms:\n  - label: anonymous\n"
	_, err := NewResolverFromData("NCBITaxon", []byte(vocabulary))
	assert.NotNil(t, err, "Codeless term didn't trigger an error.")
	_, isInvalid := err.(*ontology.InvalidVocabularyError)
	assert.True(t, isInvalid)
}

// tests that malformed YAML is rejected
func TestNewResolverRejectsMalformedYaml(t *testing.T) {
	_, err := NewResolverFromData("NCBITaxon", []byte("terms: {what"))
	assert.NotNil(t, err, "Malformed vocabulary didn't trigger an error.")
}
