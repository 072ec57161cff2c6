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

package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nfdi4microbiota/mvs/submission"
	"github.com/nfdi4microbiota/mvs/validation"
)

// the lifecycle state of a submission task
type SubmissionStatusCode int

const (
	StatusUnknown    SubmissionStatusCode = iota
	StatusValidating                      // records are being validated
	StatusRejected                        // one or more records have blocking violations
	StatusSubmitting                      // batches are being handed to the archive
	StatusSucceeded                       // every batch was accessioned
	StatusFailed                          // packaging or submission failed
	StatusCanceled                        // the submitter withdrew the task
)

func (code SubmissionStatusCode) String() string {
	switch code {
	case StatusValidating:
		return "validating"
	case StatusRejected:
		return "rejected"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	}
	return "unknown"
}

// SubmissionStatus describes where a submission task stands. It is the
// payload returned to Status() callers, so it carries everything a submitter
// needs: the validation reports for their records and, once the archive has
// answered, the accessions it assigned.
type SubmissionStatus struct {
	Code    SubmissionStatusCode `json:"code"`
	Message string               `json:"message,omitempty"`
	// per-record validation reports, index-aligned with the submitted records
	Reports []validation.Report `json:"reports,omitempty"`
	// batch progress while submitting
	BatchesSubmitted int `json:"batches_submitted"`
	TotalBatches     int `json:"total_batches"`
	// the study accession, once known
	ProjectAccession string `json:"project_accession,omitempty"`
	// sample alias -> archive accession
	Accessions map[string]string `json:"accessions,omitempty"`
}

// This type tracks the lifecycle of one submission: validating its records,
// packaging them into batches, and handing the batches to the archive. Each
// poll of the task manager advances a task by at most one stage (or one
// batch), so no single poll blocks on more than one archive round trip.
type submissionTask struct {
	Id             uuid.UUID                // task identifier
	Project        submission.ProjectInfo   // the study the records belong to
	Records        []validation.Record      // the records to validate and submit
	DataDirectory  string                   // directory holding sequence files
	Canceled       bool                     // set if a cancellation request was made
	CompletionTime time.Time                // time at which the task completed
	Status         SubmissionStatus         // current status
	Packaged       *submission.Submission   // the packaged batches, once built
	NextBatch      int                      // index of the next batch to submit
}

// returns true if the task has reached a terminal state
func (task *submissionTask) Completed() bool {
	switch task.Status.Code {
	case StatusRejected, StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// returns the time since the task completed (zero if it hasn't)
func (task *submissionTask) Age() time.Duration {
	if !task.Completed() {
		return time.Duration(0)
	}
	return time.Since(task.CompletionTime)
}

// marks the task as canceled; an in-flight batch is not recalled (the archive
// offers no way to), but no further batches are sent
func (task *submissionTask) cancel() {
	task.Canceled = true
	if !task.Completed() {
		task.Status.Code = StatusCanceled
		task.Status.Message = "submission canceled by request"
		task.CompletionTime = time.Now()
	}
}

// moves the task along by one stage, using the manager's validation engine,
// packager, and archive client
func (task *submissionTask) update(ctx context.Context, engine *validation.Engine,
	packager *submission.Packager, client *submission.Client) error {

	switch task.Status.Code {
	case StatusUnknown:
		task.Status.Code = StatusValidating
		return nil
	case StatusValidating:
		return task.validate(ctx, engine, packager)
	case StatusSubmitting:
		return task.submitNextBatch(ctx, client)
	}
	return nil
}

// validates every record and, if all are submittable, packages them
func (task *submissionTask) validate(ctx context.Context, engine *validation.Engine,
	packager *submission.Packager) error {

	reports := make([]validation.Report, len(task.Records))
	for i, record := range task.Records {
		report, err := engine.Validate(ctx, record)
		if err != nil {
			return err
		}
		reports[i] = report
	}
	task.Status.Reports = reports

	packaged, err := packager.Package(task.Project, task.Records, reports)
	if err != nil {
		if rejected, isRejected := err.(*submission.RejectedError); isRejected {
			task.Status.Code = StatusRejected
			task.Status.Message = rejected.Error()
			task.CompletionTime = time.Now()
			return nil
		}
		return err
	}
	task.Packaged = packaged
	task.Status.Code = StatusSubmitting
	task.Status.TotalBatches = len(packaged.Batches)
	task.Status.Accessions = make(map[string]string)
	return nil
}

// submits the next batch and folds its receipt into the task's status
func (task *submissionTask) submitNextBatch(ctx context.Context,
	client *submission.Client) error {

	batch := task.Packaged.Batches[task.NextBatch]
	receipt, err := client.Submit(ctx, batch.Document)
	if err != nil {
		return fmt.Errorf("batch %d of %d: %s", task.NextBatch+1,
			task.Status.TotalBatches, err.Error())
	}
	for _, project := range receipt.Projects {
		if task.Status.ProjectAccession == "" {
			task.Status.ProjectAccession = project.Accession
		}
	}
	if task.Status.ProjectAccession == "" {
		task.Status.ProjectAccession = task.Project.Accession
	}
	for _, sample := range receipt.Samples {
		task.Status.Accessions[sample.Alias] = sample.Accession
	}

	task.NextBatch++
	task.Status.BatchesSubmitted = task.NextBatch
	if task.NextBatch == len(task.Packaged.Batches) {
		task.Status.Code = StatusSucceeded
		task.Status.Message = fmt.Sprintf("%d sample(s) accessioned",
			len(task.Status.Accessions))
		task.CompletionTime = time.Now()
	}
	return nil
}
