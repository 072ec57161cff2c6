package config

import (
	"fmt"
)

// An ontology entry describes the backing vocabulary for one controlled
// vocabulary namespace (e.g. ENVO, CHEBI, NCBITaxon).
type ontologyConfig struct {
	// the name of the provider ("ols" or "local")
	Provider string `yaml:"provider"`
	// the base URL for a remote lookup service (optional, provider-specific)
	URL string `yaml:"url,omitempty"`
	// path to a local vocabulary file (required by the "local" provider)
	Vocabulary string `yaml:"vocabulary,omitempty"`
	// name of a bbolt file in the service data directory in which term lookups
	// are cached (optional; no caching if empty)
	Cache string `yaml:"cache,omitempty"`
}

// This helper validates the parameters for a single ontology namespace,
// returning an error indicating success or failure. Unrecognized providers are
// not rejected here: the resolver registry reports them when a resolver is
// requested, which lets tests register fixture providers.
func validateOntologyParameters(namespace string, params ontologyConfig) error {
	if params.Provider == "" {
		return fmt.Errorf("Ontology %s: no provider was specified!", namespace)
	}
	if params.Provider == "local" && params.Vocabulary == "" {
		return fmt.Errorf("Ontology %s: no vocabulary file was provided!", namespace)
	}
	return nil
}

