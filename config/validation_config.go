package config

// Knobs for the validation engine.
type validationConfig struct {
	// maximum number of concurrent ontology lookups per record
	MaxLookups int `yaml:"max_lookups"`
	// milliseconds allowed for a single ontology lookup before it is abandoned
	LookupTimeout int `yaml:"lookup_timeout"`
}
