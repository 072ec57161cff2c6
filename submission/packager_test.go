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

package submission

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/mvstest"
	"github.com/nfdi4microbiota/mvs/validation"
)

// temporary testing directory (also holds the test sequence files)
var TESTING_DIR string

// batches are kept tiny so batching logic gets exercised
func packagerTestConfig() string {
	return fmt.Sprintf(`
service:
  data_dir: %s
catalog:
  path: unused.yaml
archive:
  portal: test
  username: webin-test
  password: not-a-secret
  batch_size: 2
`, TESTING_DIR)
}

func testProject() ProjectInfo {
	return ProjectInfo{
		Name:        "terrestrial-soil-survey",
		Title:       "Longitudinal terrestrial soil survey",
		Description: "Soil metagenomes sampled across two seasons.",
	}
}

// a valid record for the sample with the given alias
func sampleRecord(alias string) validation.Record {
	return validation.NewRecord().
		WithField("samp_name", catalog.SectionSample, alias).
		WithField("samp_taxon_id", catalog.SectionSample, "NCBITaxon:408170").
		WithField("project_name", catalog.SectionProject, "terrestrial-soil-survey").
		WithField("collection_date", catalog.SectionSite, "2021-06-11").
		WithField("lat", catalog.SectionSite, "-41.373744").
		WithField("lon", catalog.SectionSite, "174.450000").
		WithField("elev", catalog.SectionSite, "100 m").
		WithField("env_medium", catalog.SectionEnvironmental, "soil [ENVO:00001998]")
}

// clean validation reports for n records
func cleanReports(n int) []validation.Report {
	reports := make([]validation.Report, n)
	for i := range reports {
		reports[i] = validation.NewReport(nil)
	}
	return reports
}

func testPackager(t *testing.T) *Packager {
	cat, err := mvstest.Catalog()
	assert.Nil(t, err)
	return NewPackager(cat, TESTING_DIR)
}

// writes a (nonsense) sequence file for the sample with the given alias
func writeSequenceFile(alias string) {
	path := filepath.Join(TESTING_DIR, alias+sequenceFileSuffix)
	err := os.WriteFile(path, []byte("not really gzipped FASTA\n"), 0644)
	if err != nil {
		log.Panicf("Couldn't write test sequence file %s: %s", path, err)
	}
}

// tests that records with blocking violations are refused outright
func TestPackageRejectsNonSubmittableRecords(t *testing.T) {
	packager := testPackager(t)
	reports := cleanReports(2)
	reports[1] = validation.NewReport([]validation.Violation{{
		Section:  catalog.SectionSite,
		Field:    "lat",
		Severity: validation.SeverityError,
		Kind:     validation.KindRangeViolation,
		Message:  "value must lie in [-90, 90]",
		Value:    "91.0",
	}})
	records := []validation.Record{sampleRecord("TSS-0001"), sampleRecord("TSS-0002")}
	_, err := packager.Package(testProject(), records, reports)
	assert.NotNil(t, err, "A non-submittable record didn't refuse packaging.")
	rejected, isRejected := err.(*RejectedError)
	assert.True(t, isRejected)
	assert.Equal(t, 1, rejected.Records)
}

// tests that mismatched record/report sets are refused
func TestPackageRejectsMismatchedReports(t *testing.T) {
	packager := testPackager(t)
	records := []validation.Record{sampleRecord("TSS-0001")}
	_, err := packager.Package(testProject(), records, cleanReports(2))
	assert.NotNil(t, err)
}

// tests that a record without a sample name cannot be packaged
func TestPackageRequiresSampleName(t *testing.T) {
	packager := testPackager(t)
	record := sampleRecord("TSS-0001")
	delete(record.Fields, "samp_name")
	_, err := packager.Package(testProject(), []validation.Record{record}, cleanReports(1))
	assert.NotNil(t, err, "A nameless record didn't refuse packaging.")
	_, isInvalid := err.(*InvalidRecordError)
	assert.True(t, isInvalid)
}

// tests that a sample without a sequence file fails the packaging
func TestPackageRequiresSequenceFiles(t *testing.T) {
	packager := testPackager(t)
	records := []validation.Record{sampleRecord("TSS-no-such-file")}
	_, err := packager.Package(testProject(), records, cleanReports(1))
	assert.NotNil(t, err, "A sample without a sequence file didn't refuse packaging.")
	missing, isMissing := err.(*MissingFileError)
	assert.True(t, isMissing)
	assert.Equal(t, "TSS-no-such-file", missing.Sample)
}

// tests that samples are split into batches of the configured size, with the
// unaccessioned project riding along in the first batch only
func TestPackageBuildsBatches(t *testing.T) {
	packager := testPackager(t)
	records := []validation.Record{
		sampleRecord("TSS-0001"), sampleRecord("TSS-0002"), sampleRecord("TSS-0003"),
	}
	submission, err := packager.Package(testProject(), records, cleanReports(3))
	assert.Nil(t, err)
	assert.Len(t, submission.Batches, 2)
	assert.Equal(t, []string{"TSS-0001", "TSS-0002"}, submission.Batches[0].Aliases)
	assert.Equal(t, []string{"TSS-0003"}, submission.Batches[1].Aliases)

	var first, second webinDocument
	assert.Nil(t, xml.Unmarshal(submission.Batches[0].Document, &first))
	assert.Nil(t, xml.Unmarshal(submission.Batches[1].Document, &second))
	assert.NotNil(t, first.ProjectSet, "The first batch doesn't register the project.")
	assert.Equal(t, "terrestrial-soil-survey", first.ProjectSet.Projects[0].Alias)
	assert.Nil(t, second.ProjectSet, "A later batch re-registers the project.")
	assert.Len(t, first.SampleSet.Samples, 2)
	assert.Len(t, second.SampleSet.Samples, 1)
}

// tests that a project that already has an accession is not re-registered
func TestPackageOmitsAccessionedProject(t *testing.T) {
	packager := testPackager(t)
	project := testProject()
	project.Accession = "PRJEB00001"
	records := []validation.Record{sampleRecord("TSS-0001")}
	submission, err := packager.Package(project, records, cleanReports(1))
	assert.Nil(t, err)

	var document webinDocument
	assert.Nil(t, xml.Unmarshal(submission.Batches[0].Document, &document))
	assert.Nil(t, document.ProjectSet, "An accessioned project was re-registered.")
}

// tests the shape of a packaged sample: taxon ID extraction, unit splitting,
// wire units on coordinates, and the pinned checklist attribute
func TestPackageBuildsSampleAttributes(t *testing.T) {
	packager := testPackager(t)
	records := []validation.Record{sampleRecord("TSS-0001")}
	submission, err := packager.Package(testProject(), records, cleanReports(1))
	assert.Nil(t, err)
	assert.Equal(t, "ERC000047", submission.Checklist)

	var document webinDocument
	assert.Nil(t, xml.Unmarshal(submission.Batches[0].Document, &document))
	sample := document.SampleSet.Samples[0]
	assert.Equal(t, "TSS-0001", sample.Alias)
	assert.Equal(t, "408170", sample.Name.TaxonId)

	attributes := make(map[string]webinSampleAttribute)
	for _, attribute := range sample.Attributes {
		attributes[attribute.Tag] = attribute
	}
	assert.Equal(t, "100", attributes["elev"].Value)
	assert.Equal(t, "m", attributes["elev"].Units)
	assert.Equal(t, "-41.373744", attributes["lat"].Value)
	assert.Equal(t, "DD", attributes["lat"].Units)
	assert.Equal(t, "soil [ENVO:00001998]", attributes["env_medium"].Value)
	assert.Equal(t, "ERC000047", attributes["ENA-CHECKLIST"].Value)
	_, hasName := attributes["samp_name"]
	assert.False(t, hasName, "The sample alias was duplicated as an attribute.")
}

// tests that the file manifest names a resource for every sample
func TestPackageBuildsManifest(t *testing.T) {
	packager := testPackager(t)
	records := []validation.Record{sampleRecord("TSS-0001"), sampleRecord("TSS-0002")}
	submission, err := packager.Package(testProject(), records, cleanReports(2))
	assert.Nil(t, err)
	assert.NotNil(t, submission.Manifest)
	assert.Len(t, submission.Manifest.ResourceNames(), 2)
	assert.Equal(t, filepath.Join(TESTING_DIR, "TSS-0001.fasta.gz"),
		submission.Files["TSS-0001"])
}

// this function gets called at the begin of the test suite
func setup() {
	mvstest.EnableDebugLogging()

	var err error
	TESTING_DIR, err = os.MkdirTemp(os.TempDir(), "mvs-submission-tests-")
	if err != nil {
		log.Panicf("Couldn't create testing directory: %s", err)
	}

	err = config.Init([]byte(packagerTestConfig()))
	if err != nil {
		log.Panicf("Couldn't initialize configuration: %s", err)
	}

	for _, alias := range []string{"TSS-0001", "TSS-0002", "TSS-0003"} {
		writeSequenceFile(alias)
	}
}

// this function gets called after the test suite completes
func breakdown() {
	if TESTING_DIR != "" {
		os.RemoveAll(TESTING_DIR)
	}
}

func TestMain(m *testing.M) {
	setup()
	status := m.Run()
	breakdown()
	os.Exit(status)
}
