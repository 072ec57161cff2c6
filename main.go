package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
	"github.com/nfdi4microbiota/mvs/ontology/local"
	"github.com/nfdi4microbiota/mvs/ontology/ols"
)

//go:generate mkdir -p services/docs
//go:generate redoc-cli bundle docs/openapi.yaml
//go:generate cp docs/openapi.yaml services/docs/openapi.yaml
//go:generate mv redoc-static.html services/docs/index.html

// The above logic generates the static API documentation served by the docs
// package under the "docs" endpoint prefix. To enable these endpoints, you
// must use the "docs" build: go build -tags docs

// path to the YAML configuration file (every subcommand needs one)
var configFile string

var rootCmd = &cobra.Command{
	Use:   "mvs",
	Short: "MIXS metadata validation and archive submission",
	Long: `mvs validates MIXS biological sample metadata against a term catalog and
packages conforming records for submission to the ENA archive.

Records can be checked one at a time through the REST service (mvs serve) or
in bulk from a TSV table (mvs validate, mvs submit). See README.md for details
on config files.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "mvs.yaml",
		"Path to the YAML configuration file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(submitCmd)
}

// reads the configuration file every subcommand depends on
func initConfig(cmd *cobra.Command, args []string) error {
	log.Printf("Reading configuration from '%s'...\n", configFile)
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("Couldn't read %s: %s", configFile, err.Error())
	}
	return config.Init(data)
}

// registers the ontology providers the configuration can refer to
func registerOntologyProviders() error {
	for name, factory := range map[string]ontology.ResolverFactory{
		"ols":   ols.NewResolver,
		"local": local.NewResolver,
	} {
		err := ontology.RegisterProvider(name, factory)
		if err != nil {
			var alreadyRegisteredErr *ontology.AlreadyRegisteredError
			if !errors.As(err, &alreadyRegisteredErr) {
				return err
			}
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
