package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
	"github.com/nfdi4microbiota/mvs/submission"
	"github.com/nfdi4microbiota/mvs/validation"
)

var (
	submitProjectName        string
	submitProjectTitle       string
	submitProjectDescription string
	submitProjectAccession   string
	submitDataDir            string
)

var submitCmd = &cobra.Command{
	Use:   "submit <records.tsv>",
	Short: "Validate a TSV metadata table and submit it to the archive",
	Long: `Validate every record in a TSV metadata table and, if all records are
submittable, package them with their sequence files and submit them to the
configured archive portal in batches.`,
	Example: `  mvs submit samples.tsv --project soil-survey --title "Terrestrial soil survey"
  mvs submit samples.tsv --project soil-survey --accession PRJEB00042`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitProjectName, "project", "",
		"Short name of the study (used as its alias)")
	submitCmd.Flags().StringVar(&submitProjectTitle, "title", "",
		"Title of the study (registration only)")
	submitCmd.Flags().StringVar(&submitProjectDescription, "description", "",
		"Description of the study (registration only)")
	submitCmd.Flags().StringVar(&submitProjectAccession, "accession", "",
		"Accession of an already-registered study")
	submitCmd.Flags().StringVar(&submitDataDir, "data-dir", "",
		"Directory holding <sample>.fasta.gz sequence files (defaults to the configured data directory)")
	submitCmd.MarkFlagRequired("project")
}

func runSubmit(cmd *cobra.Command, args []string) error {

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

	// validate everything first, reporting violations per row
	reports := make([]validation.Report, len(records))
	for i, record := range records {
		reports[i], err = engine.Validate(cmd.Context(), record)
		if err != nil {
			return err
		}
		for _, violation := range reports[i].Violations {
			fmt.Printf("row %d: %s\n", i+1, violation.String())
		}
	}

	// package the records along with their sequence files
	dataDir := submitDataDir
	if dataDir == "" {
		dataDir = config.Service.DataDirectory
	}
	packager := submission.NewPackager(cat, dataDir)
	packaged, err := packager.Package(submission.ProjectInfo{
		Accession:   submitProjectAccession,
		Name:        submitProjectName,
		Title:       submitProjectTitle,
		Description: submitProjectDescription,
	}, records, reports)
	if err != nil {
		return err
	}

	// hand the batches to the archive, folding in accessions as they arrive
	client := submission.NewClient()
	projectAccession := submitProjectAccession
	accessions := make(map[string]string)
	for i, batch := range packaged.Batches {
		log.Printf("Submitting batch %d of %d (%d samples)...\n",
			i+1, len(packaged.Batches), len(batch.Aliases))
		receipt, err := client.Submit(cmd.Context(), batch.Document)
		if err != nil {
			return err
		}
		for _, project := range receipt.Projects {
			if project.Accession != "" {
				projectAccession = project.Accession
			}
		}
		for _, sample := range receipt.Samples {
			if sample.Accession != "" {
				accessions[sample.Alias] = sample.Accession
			}
		}
	}

	if projectAccession != "" {
		fmt.Printf("Project accession: %s\n", projectAccession)
	}
	for _, alias := range packaged.Aliases() {
		fmt.Printf("%s\t%s\n", alias, accessions[alias])
	}
	return nil
}
