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
	"fmt"

	"github.com/nfdi4microbiota/mvs/catalog"
)

// the severity of a violation: errors block submission, warnings are advisory
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// the kind of a violation, naming the rule that was broken
type Kind string

const (
	// error kinds
	KindInvalidDateFormat Kind = "InvalidDateFormat"
	KindAmbiguousInterval Kind = "AmbiguousInterval"
	KindInvalidNumber     Kind = "InvalidNumber"
	KindRangeViolation    Kind = "RangeViolation"
	KindMissingUnit       Kind = "MissingUnit"
	KindUnitMismatch      Kind = "UnitMismatch"
	KindMissingRequired   Kind = "MissingRequired"
	KindUnknownTerm       Kind = "UnknownTerm"

	// warning kinds
	KindExcessPrecision     Kind = "ExcessPrecision"
	KindDeprecatedTerm      Kind = "DeprecatedTerm"
	KindResolverUnavailable Kind = "ResolverUnavailable"
	KindUnknownField        Kind = "UnknownField"
)

// Violation records a single non-conformance of a field value against its
// FieldSpec. Violations are immutable and are created only by the field
// validators (and by the engine's required-field pass).
type Violation struct {
	// the record section the field belongs to
	Section catalog.Section `json:"section"`
	// the name of the offending field
	Field string `json:"field"`
	// the violation's severity
	Severity Severity `json:"severity"`
	// the kind of rule that was broken
	Kind Kind `json:"kind"`
	// a human-readable message
	Message string `json:"message"`
	// the offending raw value as submitted
	Value string `json:"value"`
}

// Renders the violation in its single-line human-readable form.
func (v Violation) String() string {
	return fmt.Sprintf("%s.%s: [%s] %s — %s (value: %s)",
		v.Section, v.Field, v.Severity, v.Kind, v.Message, v.Value)
}
