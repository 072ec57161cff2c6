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

package validation

import (
	"cmp"
	"slices"
	"strings"
)

// Report gathers every violation found in one pass over a record. The
// violation list is stably ordered (section, then field, then kind), so
// validating the same record against the same catalog and vocabularies twice
// yields identical reports.
type Report struct {
	// all violations, exhaustively collected (never just the first error)
	Violations []Violation `json:"violations"`
	// true iff the violation list contains no error-severity entries
	Submittable bool `json:"submittable"`
}

// Assembles a report from a set of violations, sorting them and deriving the
// submittable flag.
func NewReport(violations []Violation) Report {
	sortViolations(violations)
	submittable := true
	for _, violation := range violations {
		if violation.Severity == SeverityError {
			submittable = false
			break
		}
	}
	return Report{
		Violations:  violations,
		Submittable: submittable,
	}
}

// Returns the violations with the given severity, in report order.
func (r Report) BySeverity(severity Severity) []Violation {
	violations := make([]Violation, 0)
	for _, violation := range r.Violations {
		if violation.Severity == severity {
			violations = append(violations, violation)
		}
	}
	return violations
}

// Renders the report with one violation per line, for human consumption.
func (r Report) String() string {
	var builder strings.Builder
	for _, violation := range r.Violations {
		builder.WriteString(violation.String())
		builder.WriteByte('\n')
	}
	return builder.String()
}

// sorts violations into their stable report order, independent of the order
// in which concurrent per-field checks completed
func sortViolations(violations []Violation) {
	slices.SortFunc(violations, func(v1, v2 Violation) int {
		if n := cmp.Compare(v1.Section, v2.Section); n != 0 {
			return n
		}
		if n := cmp.Compare(v1.Field, v2.Field); n != 0 {
			return n
		}
		return cmp.Compare(v1.Kind, v2.Kind)
	})
}
