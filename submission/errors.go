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
	"fmt"
	"strings"
)

// indicates that a record with blocking validation errors was handed to the
// packager (the record must be corrected and re-validated, not re-packaged)
type RejectedError struct {
	// number of records in the batch that are not submittable
	Records int
}

func (e RejectedError) Error() string {
	return fmt.Sprintf("%d record(s) have blocking violations and cannot be packaged",
		e.Records)
}

// indicates that a record lacks a field the packager cannot do without
type InvalidRecordError struct {
	Field   string
	Message string
}

func (e InvalidRecordError) Error() string {
	return fmt.Sprintf("Record field %s: %s", e.Field, e.Message)
}

// indicates that no sequence file was found for a sample
type MissingFileError struct {
	Sample string
	Path   string
}

func (e MissingFileError) Error() string {
	return fmt.Sprintf("No sequence file was found for sample %s (expected %s)",
		e.Sample, e.Path)
}

// indicates that the archive rejected a submission request outright
type SubmissionFailedError struct {
	StatusCode int
	Body       string
}

func (e SubmissionFailedError) Error() string {
	return fmt.Sprintf("The archive rejected the submission request (HTTP %d): %s",
		e.StatusCode, e.Body)
}

// indicates that the archive processed a submission but reported errors in
// its receipt
type ReceiptError struct {
	Messages []string
}

func (e ReceiptError) Error() string {
	return fmt.Sprintf("The archive receipt reported errors: %s",
		strings.Join(e.Messages, "; "))
}
