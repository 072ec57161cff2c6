package config

// The term catalog is the declarative artifact describing every metadata field
// the service knows how to validate.
type catalogConfig struct {
	// path to the YAML catalog artifact
	Path string `yaml:"path"`
	// identifier of the archive checklist the catalog conforms to
	// (e.g. "ERC000047" for ENA MAG submissions)
	Checklist string `yaml:"checklist"`
}
