package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// a type with service configuration parameters
type serviceConfig struct {
	// port on which the service listens
	Port int `yaml:"port"`
	// maximum number of allowed incoming connections
	MaxConnections int `yaml:"max_connections"`
	// milliseconds between submission task status updates
	PollInterval int `yaml:"poll_interval"`
	// seconds after completion at which a submission task record is purged
	DeleteAfter int `yaml:"delete_after"`
	// directory in which the service stores its ontology lookup cache
	DataDirectory string `yaml:"data_dir"`
}

// global config variables
var Service serviceConfig
var Catalog catalogConfig
var Ontologies map[string]ontologyConfig
var Archive archiveConfig
var Validation validationConfig

// This struct performs the unmarshalling from the YAML config file and then
// copies its fields to the globals above.
type configFile struct {
	Service    serviceConfig             `yaml:"service"`
	Catalog    catalogConfig             `yaml:"catalog"`
	Ontologies map[string]ontologyConfig `yaml:"ontologies"`
	Archive    archiveConfig             `yaml:"archive"`
	Validation validationConfig          `yaml:"validation"`
}

// This helper reads configuration data, returning an error indicating success
// or failure. All environment variables of the form ${ENV_VAR} are expanded.
func readConfig(bytes []byte) error {
	// before we do anything else, expand any provided environment variables
	bytes = []byte(os.ExpandEnv(string(bytes)))

	var conf configFile
	conf.Service.Port = 8080
	conf.Service.MaxConnections = 100
	conf.Service.PollInterval = 1000
	conf.Service.DeleteAfter = 7 * 24 * 3600
	conf.Archive.Portal = "test"
	conf.Archive.BatchSize = 1000
	conf.Validation.MaxLookups = 8
	conf.Validation.LookupTimeout = 5000
	err := yaml.Unmarshal(bytes, &conf)
	if err != nil {
		slog.Error(fmt.Sprintf("Couldn't parse configuration data: %s", err))
		return err
	}

	// copy the config data into place
	Service = conf.Service
	Catalog = conf.Catalog
	Ontologies = conf.Ontologies
	Archive = conf.Archive
	Validation = conf.Validation

	return err
}

// This helper validates the given service parameters, returning an
// error indicating success or failure.
func validateServiceParameters(params serviceConfig) error {
	if params.Port < 0 || params.Port > 65535 {
		return fmt.Errorf("Invalid port: %d (must be 0-65535)", params.Port)
	}
	if params.MaxConnections <= 0 {
		return fmt.Errorf("Invalid max_connections: %d (must be positive)",
			params.MaxConnections)
	}
	if params.PollInterval <= 0 {
		return fmt.Errorf("Invalid poll_interval: %d (must be positive)",
			params.PollInterval)
	}
	if params.DeleteAfter <= 0 {
		return fmt.Errorf("Invalid delete_after: %d (must be positive)",
			params.DeleteAfter)
	}
	return nil
}

// This helper validates the configuration, returning an error that indicates
// success or failure.
func validateConfig() error {
	err := validateServiceParameters(Service)
	if err != nil {
		return err
	}

	// were we given a term catalog?
	if Catalog.Path == "" {
		return fmt.Errorf("No term catalog artifact was provided!")
	}

	// check each configured ontology namespace
	for namespace, ontology := range Ontologies {
		if err := validateOntologyParameters(namespace, ontology); err != nil {
			return err
		}
	}

	if err := validateArchiveParameters(Archive); err != nil {
		return err
	}

	if Validation.MaxLookups <= 0 {
		return fmt.Errorf("Invalid max_lookups: %d (must be positive)",
			Validation.MaxLookups)
	}
	if Validation.LookupTimeout <= 0 {
		return fmt.Errorf("Invalid lookup_timeout: %d (must be positive)",
			Validation.LookupTimeout)
	}
	return nil
}

// Initializes the metadata validation service configuration using the given
// YAML byte data.
func Init(yamlData []byte) error {

	// read the configuration from our YAML data
	err := readConfig(yamlData)
	if err != nil {
		return err
	}

	// validate the configuration
	err = validateConfig()
	return err
}
