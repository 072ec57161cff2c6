package config

// These tests verify that we can properly configure the metadata validation
// service with YAML input.
import (
	"fmt"
	"os"

	"github.com/stretchr/testify/assert"
	"testing"
)

// a valid service config entry
const VALID_SERVICE string = `
service:
  port: 8080
  max_connections: 100
  poll_interval: 500
  data_dir: /tmp
`

// a valid catalog config entry
const VALID_CATALOG string = `
catalog:
  path: catalog/terrestrial.yaml
  checklist: ERC000047
`

// a valid ontologies config entry
const VALID_ONTOLOGIES string = `
ontologies:
  ENVO:
    provider: ols
    cache: envo_cache.db
  CHEBI:
    provider: ols
  NCBITaxon:
    provider: local
    vocabulary: vocab/ncbitaxon.yaml
`

// a valid archive config entry
const VALID_ARCHIVE string = `
archive:
  portal: test
  username: ${ENA_USER}
  password: ${ENA_PASSWORD}
  batch_size: 500
`

// tests whether config.Init reports an error for blank input
func TestInitRejectsBlankInput(t *testing.T) {
	b := []byte("")
	err := Init(b)
	assert.NotNil(t, err, "Blank config didn't trigger an error.")
}

// tests whether config.Init reports an error for an invalid port
func TestInitRejectsBadPort(t *testing.T) {
	yaml := "service:\n  port: -1\n\n" + VALID_CATALOG + VALID_ONTOLOGIES + VALID_ARCHIVE
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad port didn't trigger an error.")
	yaml = "service:\n  port: 1000000\n\n" + VALID_CATALOG + VALID_ONTOLOGIES + VALID_ARCHIVE
	err = Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad port didn't trigger an error.")
}

// tests whether config.Init reports an error for an invalid max number of
// connections
func TestInitRejectsBadMaxConnections(t *testing.T) {
	yaml := "service:\n  max_connections: 0\n\n" + VALID_CATALOG + VALID_ONTOLOGIES + VALID_ARCHIVE
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad max_connections didn't trigger an error.")
}

// tests whether config.Init rejects a configuration with no catalog artifact
func TestInitRejectsNoCatalogDefined(t *testing.T) {
	yaml := VALID_SERVICE + VALID_ONTOLOGIES + VALID_ARCHIVE
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with no catalog didn't trigger an error.")
}

// tests whether config.Init rejects an ontology with no provider
func TestInitRejectsOntologyWithoutProvider(t *testing.T) {
	yaml := VALID_SERVICE + VALID_CATALOG + VALID_ARCHIVE +
		"ontologies:\n  ENVO:\n    cache: envo_cache.db\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with providerless ontology didn't trigger an error.")
}

// tests whether config.Init rejects a local ontology with no vocabulary file
func TestInitRejectsLocalOntologyWithoutVocabulary(t *testing.T) {
	yaml := VALID_SERVICE + VALID_CATALOG + VALID_ARCHIVE +
		"ontologies:\n  NCBITaxon:\n    provider: local\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Local ontology without vocabulary didn't trigger an error.")
}

// tests whether config.Init rejects an invalid archive portal
func TestInitRejectsBadArchivePortal(t *testing.T) {
	yaml := VALID_SERVICE + VALID_CATALOG + VALID_ONTOLOGIES +
		"archive:\n  portal: staging\n  batch_size: 100\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad archive portal didn't trigger an error.")
}

// tests whether config.Init rejects non-positive validation settings
func TestInitRejectsBadValidationParameters(t *testing.T) {
	yaml := VALID_SERVICE + VALID_CATALOG + VALID_ONTOLOGIES + VALID_ARCHIVE +
		"validation:\n  max_lookups: 0\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad max_lookups didn't trigger an error.")
	yaml = VALID_SERVICE + VALID_CATALOG + VALID_ONTOLOGIES + VALID_ARCHIVE +
		"validation:\n  lookup_timeout: -5\n"
	err = Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad lookup_timeout didn't trigger an error.")
}

// Tests whether config.Init returns no error for a configuration that is
// (ostensibly) valid. NOTE: This particular configuration is consistent and
// contains acceptible values for fields. It won't actually run a service!
func TestInitAcceptsValidInput(t *testing.T) {
	yaml := VALID_SERVICE + VALID_CATALOG + VALID_ONTOLOGIES + VALID_ARCHIVE
	err := Init([]byte(yaml))
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))
}

// Tests whether config.Init properly initializes its globals for valid input.
func TestInitProperlySetsGlobals(t *testing.T) {
	yaml := VALID_SERVICE + VALID_CATALOG + VALID_ONTOLOGIES + VALID_ARCHIVE
	err := Init([]byte(yaml))
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))

	// check data
	assert.Equal(t, 8080, Service.Port)
	assert.Equal(t, 100, Service.MaxConnections)
	assert.Equal(t, "catalog/terrestrial.yaml", Catalog.Path)
	assert.Equal(t, "ERC000047", Catalog.Checklist)
	assert.Equal(t, 3, len(Ontologies))
	assert.Equal(t, "ols", Ontologies["ENVO"].Provider)
	assert.Equal(t, "test", Archive.Portal)
	assert.Equal(t, 500, Archive.BatchSize)
	assert.Equal(t, 8, Validation.MaxLookups)
	assert.Equal(t, 5000, Validation.LookupTimeout)
}

// Tests whether config.Init expands environment variables in its input.
func TestInitExpandsEnvironmentVariables(t *testing.T) {
	os.Setenv("ENA_USER", "Webin-00000")
	os.Setenv("ENA_PASSWORD", "hunter2")
	yaml := VALID_SERVICE + VALID_CATALOG + VALID_ONTOLOGIES + VALID_ARCHIVE
	err := Init([]byte(yaml))
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))
	assert.Equal(t, "Webin-00000", Archive.Username)
	assert.Equal(t, "hunter2", Archive.Password)
}

// this function gets called at the begіnning of a test session
func setup() {
}

// this function gets called after all tests have been run
func breakdown() {
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	var status int
	setup()
	status = m.Run()
	breakdown()
	os.Exit(status)
}
