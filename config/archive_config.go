package config

import (
	"fmt"
)

// Parameters for the external nucleotide archive to which validated metadata
// is submitted. Credentials are usually passed in via environment variables
// (${ENA_USER} and so on), which config.Init expands.
type archiveConfig struct {
	// the submission portal ("test" or "prod")
	Portal string `yaml:"portal"`
	// an explicit submission URL, overriding the portal selection (optional)
	URL string `yaml:"url,omitempty"`
	// archive account credentials (basic auth)
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// number of samples submitted per request
	BatchSize int `yaml:"batch_size"`
}

// This helper validates the archive parameters, returning an error indicating
// success or failure.
func validateArchiveParameters(params archiveConfig) error {
	if params.Portal != "test" && params.Portal != "prod" {
		return fmt.Errorf("Invalid archive portal: %s (must be \"test\" or \"prod\")",
			params.Portal)
	}
	if params.BatchSize <= 0 {
		return fmt.Errorf("Invalid archive batch_size: %d (must be positive)",
			params.BatchSize)
	}
	return nil
}
