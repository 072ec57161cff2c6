// Copyright (c) 2025 The NFDI4Microbiota Consortium and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// The submission packager transforms validated metadata records into the
// archive's Webin XML exchange format and gathers the associated sequence
// files into a manifest. Packaging performs no network I/O; transmission is
// the Client's business (see webin.go).
package submission

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frictionlessdata/datapackage-go/datapackage"
	"github.com/google/uuid"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/validation"
)

// the record fields that identify a sample rather than describe it (they feed
// the SAMPLE element itself, not its attribute list)
const (
	sampleNameField  = "samp_name"
	sampleTaxonField = "samp_taxon_id"
)

// splits an already-validated number+unit value into its two parts for the
// archive's VALUE/UNITS representation
var valueUnitRegex = regexp.MustCompile(
	`^([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)\s*(.*)$`)

// an ontology term reference, whose code portion serves as a taxon ID
var taxonTermRegex = regexp.MustCompile(
	`\[?([A-Za-z][A-Za-z0-9_]*):([A-Za-z0-9]+)\]?$`)

// ProjectInfo identifies the study a batch of samples belongs to. A project
// with an accession already exists at the archive; one without is registered
// as part of the submission's first batch.
type ProjectInfo struct {
	Accession   string `json:"accession,omitempty"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// one submission request's worth of samples, already serialized
type Batch struct {
	// the Webin XML document for this batch
	Document []byte `json:"-"`
	// the aliases of the samples the document carries, in order
	Aliases []string `json:"aliases"`
}

// Submission is a packaged submission: the batched Webin XML documents for a
// set of validated records, plus a Frictionless manifest of the sequence
// files that accompany them.
type Submission struct {
	Id      uuid.UUID   `json:"id"`
	Project ProjectInfo `json:"project"`
	// the pinned archive checklist every sample declares
	Checklist string  `json:"checklist"`
	Batches   []Batch `json:"batches"`
	// sample alias -> path of its sequence file
	Files map[string]string `json:"files"`
	// the file manifest accompanying the submission
	Manifest *datapackage.Package `json:"-"`
}

// Packager builds submissions from validated records. It holds only
// process-wide read-only state (the term catalog and the directory holding
// sequence files), so one packager serves concurrent packagings.
type Packager struct {
	catalog   *catalog.Catalog
	dataDir   string
	batchSize int
}

// Creates a packager that resolves field semantics against the given catalog
// and looks for sequence files in the given directory.
func NewPackager(cat *catalog.Catalog, dataDirectory string) *Packager {
	return &Packager{
		catalog:   cat,
		dataDir:   dataDirectory,
		batchSize: config.Archive.BatchSize,
	}
}

// Packages the given records, whose validation reports must line up with them
// index by index. If any report is not submittable the whole set is refused
// with a RejectedError: correcting and re-validating is the only way forward,
// never re-packaging.
func (p *Packager) Package(project ProjectInfo, records []validation.Record,
	reports []validation.Report) (*Submission, error) {

	if len(records) != len(reports) {
		return nil, fmt.Errorf("%d records arrived with %d validation reports",
			len(records), len(reports))
	}
	rejected := 0
	for _, report := range reports {
		if !report.Submittable {
			rejected++
		}
	}
	if rejected > 0 {
		return nil, &RejectedError{Records: rejected}
	}

	samples := make([]webinSample, 0, len(records))
	for _, record := range records {
		sample, err := p.buildSample(record)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	submission := &Submission{
		Id:        uuid.New(),
		Project:   project,
		Checklist: p.catalog.Checklist(),
	}
	for offset := 0; offset < len(samples); offset += p.batchSize {
		end := min(offset+p.batchSize, len(samples))
		batch := samples[offset:end]

		document := webinDocument{
			SubmissionSet: webinSubmissionSet{
				Submissions: []webinSubmission{
					{Actions: []webinAction{{Add: &struct{}{}}}},
				},
			},
			SampleSet: webinSampleSet{Samples: batch},
		}
		// an unaccessioned project rides along with the first batch only
		if offset == 0 && project.Accession == "" {
			document.ProjectSet = &webinProjectSet{
				Projects: []webinProject{{
					Alias:       project.Name,
					Title:       project.Title,
					Description: project.Description,
				}},
			}
		}

		serialized, err := document.bytes()
		if err != nil {
			return nil, err
		}
		aliases := make([]string, len(batch))
		for i, sample := range batch {
			aliases[i] = sample.Alias
		}
		submission.Batches = append(submission.Batches, Batch{
			Document: serialized,
			Aliases:  aliases,
		})
	}

	files, err := discoverSequenceFiles(p.dataDir, submission.Aliases())
	if err != nil {
		return nil, err
	}
	submission.Files = files
	submission.Manifest, err = newManifest(submission.Id, p.dataDir, files)
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// Returns the aliases of every sample in the submission, across batches.
func (s *Submission) Aliases() []string {
	aliases := make([]string, 0)
	for _, batch := range s.Batches {
		aliases = append(aliases, batch.Aliases...)
	}
	return aliases
}

// builds the SAMPLE element for one record
func (p *Packager) buildSample(record validation.Record) (webinSample, error) {
	alias := strings.TrimSpace(record.Fields[sampleNameField].Value)
	if alias == "" {
		return webinSample{}, &InvalidRecordError{
			Field:   sampleNameField,
			Message: "every record must name its sample",
		}
	}

	sample := webinSample{
		Alias: alias,
		Title: fmt.Sprintf("Sample %s", alias),
		Name: webinSampleName{
			TaxonId: taxonID(record.Fields[sampleTaxonField].Value),
		},
	}
	for _, name := range record.FieldNames() {
		if name == sampleNameField || name == sampleTaxonField {
			continue
		}
		value := strings.TrimSpace(record.Fields[name].Value)
		if value == "" {
			continue
		}
		sample.Attributes = append(sample.Attributes, p.buildAttribute(name, value))
	}
	sample.Attributes = append(sample.Attributes, webinSampleAttribute{
		Tag:   "ENA-CHECKLIST",
		Value: p.catalog.Checklist(),
	})
	return sample, nil
}

// builds one SAMPLE_ATTRIBUTE, splitting units out of values whose FieldSpec
// carries them
func (p *Packager) buildAttribute(name, value string) webinSampleAttribute {
	attribute := webinSampleAttribute{Tag: name, Value: value}
	spec, err := p.catalog.Lookup(name)
	if err != nil {
		// fields unknown to the catalog ride along verbatim
		return attribute
	}
	switch spec.Shape {
	case catalog.ShapeUnitNumber:
		if match := valueUnitRegex.FindStringSubmatch(value); match != nil {
			if unit := strings.TrimSpace(match[2]); unit != "" {
				attribute.Value = match[1]
				attribute.Units = unit
			}
		}
	case catalog.ShapeDecimal:
		// decimal fields such as coordinates declare their wire unit in the
		// catalog ("DD" for decimal degrees)
		if len(spec.Units) > 0 {
			attribute.Units = spec.Units[0]
		}
	}
	return attribute
}

// extracts a taxon ID from a raw taxon field value, which may be a bare ID or
// an ontology term reference like "NCBITaxon:408170"
func taxonID(value string) string {
	value = strings.TrimSpace(value)
	if match := taxonTermRegex.FindStringSubmatch(value); match != nil {
		return match[2]
	}
	return value
}
