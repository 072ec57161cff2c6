package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/validation"
)

// Reads a TSV metadata table: the first row holds field names and each
// following row holds one record's raw values. Empty cells are treated as
// absent fields, and fields the catalog doesn't know land in the sample
// section (the validation engine flags them anyway).
func readRecords(path string, cat *catalog.Catalog) ([]validation.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("No records found in %s", path)
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	records := make([]validation.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := validation.NewRecord()
		for i, value := range row {
			if strings.TrimSpace(value) == "" {
				continue
			}
			section := catalog.SectionSample
			if spec, err := cat.Lookup(header[i]); err == nil {
				section = spec.Section
			}
			record.Fields[header[i]] = validation.FieldValue{
				Section: section,
				Value:   value,
			}
		}
		records = append(records, record)
	}
	return records, nil
}
