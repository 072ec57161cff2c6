package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
	"github.com/nfdi4microbiota/mvs/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <records.tsv>",
	Short: "Validate a TSV metadata table",
	Long: `Validate every record in a TSV metadata table against the configured term
catalog, reporting violations per row.`,
	Example: `  mvs validate samples.tsv
  mvs validate samples.tsv --config production.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {

	if err := registerOntologyProviders(); err != nil {
		return err
	}
	defer ontology.Finalize()

	cat, err := catalog.Load(config.Catalog.Path)
	if err != nil {
		return err
	}
	engine, err := validation.NewEngine(cat)
	if err != nil {
		return err
	}
	records, err := readRecords(args[0], cat)
	if err != nil {
		return err
	}

	flawed := 0
	for i, record := range records {
		report, err := engine.Validate(cmd.Context(), record)
		if err != nil {
			return err
		}
		for _, violation := range report.Violations {
			fmt.Printf("row %d: %s\n", i+1, violation.String())
		}
		if !report.Submittable {
			flawed++
		}
	}

	if flawed > 0 {
		return fmt.Errorf("%d of %d records have blocking violations", flawed, len(records))
	}
	fmt.Printf("All %d records are submittable.\n", len(records))
	return nil
}
