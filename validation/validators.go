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

// The field validators: one pure checking function per value shape class.
// Each consumes a raw (already-trimmed, non-empty) field value and the
// catalog entry for the field, and returns a list of violations (an empty
// list means the value is valid). Missing/empty mandatory values are the
// engine's business, not the validators'.
package validation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/ontology"
)

// ISO 8601 layouts accepted for date fields: a calendar date or a date-time
// with a UTC offset
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// splits a number+unit value into its numeric portion and its unit token
var unitNumberRegex = regexp.MustCompile(
	`^([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)\s*(.*)$`)

// an ontology term reference in "label [NS:code]" form, as produced by the
// submission form
var bracketedTermRegex = regexp.MustCompile(
	`\[([A-Za-z][A-Za-z0-9_]*:[A-Za-z0-9]+)\]$`)

// a bare ontology term code such as "ENVO:00002297"
var bareTermRegex = regexp.MustCompile(
	`^[A-Za-z][A-Za-z0-9_]*:[A-Za-z0-9]+$`)

// Checks a date field value: an ISO 8601 calendar date, a date-time with an
// offset, or an interval of two such values separated by "/". An interval
// whose end precedes its start is ambiguous; equal endpoints are allowed
// (the end bound is inclusive).
func CheckDate(value string, spec catalog.FieldSpec) []Violation {
	if strings.Count(value, "/") == 1 {
		slash := strings.Index(value, "/")
		start, err1 := parseISODate(strings.TrimSpace(value[:slash]))
		end, err2 := parseISODate(strings.TrimSpace(value[slash+1:]))
		if err1 != nil || err2 != nil {
			return []Violation{newViolation(spec, SeverityError, KindInvalidDateFormat,
				"interval bounds must be ISO 8601 dates or date-times", value)}
		}
		if end.Before(start) {
			return []Violation{newViolation(spec, SeverityError, KindAmbiguousInterval,
				"interval end precedes its start", value)}
		}
		return nil
	}
	if _, err := parseISODate(value); err != nil {
		return []Violation{newViolation(spec, SeverityError, KindInvalidDateFormat,
			"value must be an ISO 8601 date, date-time, or interval", value)}
	}
	return nil
}

// Checks a decimal field value (latitudes, longitudes, pH, ...): it must be a
// base-10 decimal number within the FieldSpec's bounds. A value with more
// significant fractional digits than the FieldSpec's precision bound risks
// silent precision loss downstream and draws a warning, not an error.
func CheckDecimal(value string, spec catalog.FieldSpec) []Violation {
	number, fractionalDigits, err := parseDecimal(value)
	if err != nil {
		return []Violation{newViolation(spec, SeverityError, KindInvalidNumber,
			"value must be a base-10 decimal number", value)}
	}

	violations := make([]Violation, 0)
	if (spec.Minimum != nil && number < *spec.Minimum) ||
		(spec.Maximum != nil && number > *spec.Maximum) {
		violations = append(violations, newViolation(spec, SeverityError,
			KindRangeViolation, rangeMessage(spec), value))
	}
	if spec.Precision > 0 && fractionalDigits > spec.Precision {
		violations = append(violations, newViolation(spec, SeverityWarning,
			KindExcessPrecision,
			fmt.Sprintf("value has %d fractional digits (at most %d are preserved)",
				fractionalDigits, spec.Precision), value))
	}
	return violations
}

// Checks a number+unit field value (elevations, depths, masses, ...): the
// value must carry a recognized unit token after its numeric portion, and the
// numeric portion must satisfy the decimal rules.
func CheckUnitNumber(value string, spec catalog.FieldSpec) []Violation {
	match := unitNumberRegex.FindStringSubmatch(value)
	if match == nil {
		return []Violation{newViolation(spec, SeverityError, KindInvalidNumber,
			"value must be a number followed by a unit", value)}
	}
	number, unit := match[1], strings.TrimSpace(match[2])

	violations := make([]Violation, 0)
	if unit == "" {
		violations = append(violations, newViolation(spec, SeverityError,
			KindMissingUnit,
			fmt.Sprintf("value carries no unit (accepted: %s)",
				strings.Join(spec.Units, ", ")), value))
	} else if !acceptsUnit(spec, unit) {
		violations = append(violations, newViolation(spec, SeverityError,
			KindUnitMismatch,
			fmt.Sprintf("unrecognized unit %q (accepted: %s)", unit,
				strings.Join(spec.Units, ", ")), value))
	}
	for _, violation := range CheckDecimal(number, spec) {
		violation.Value = value // report the full raw value, not the number
		violations = append(violations, violation)
	}
	return violations
}

// Checks a free-text field value. Presence of mandatory fields is enforced by
// the engine, and free text carries no further shape constraint, so any
// non-empty value is valid.
func CheckFreeText(value string, spec catalog.FieldSpec) []Violation {
	return nil
}

// Checks a controlled vocabulary field value. A value carrying an ontology
// term reference ("label [ENVO:00002297]" or a bare "ENVO:00002297") is
// resolved against the FieldSpec's namespace through the given resolve
// capability; other values are accepted verbatim if the FieldSpec permits
// literal free text.
func CheckVocabularyTerm(ctx context.Context, value string, spec catalog.FieldSpec,
	resolve func(ctx context.Context, code string) ontology.TermStatus) []Violation {

	var code string
	if match := bracketedTermRegex.FindStringSubmatch(value); match != nil {
		code = match[1]
	} else if bareTermRegex.MatchString(value) {
		code = value
	} else {
		if spec.AllowFreeText {
			return nil
		}
		return []Violation{newViolation(spec, SeverityError, KindUnknownTerm,
			fmt.Sprintf("value is not a term reference in namespace %s", spec.Namespace),
			value)}
	}

	if namespace, _, _ := strings.Cut(code, ":"); namespace != spec.Namespace {
		return []Violation{newViolation(spec, SeverityError, KindUnknownTerm,
			fmt.Sprintf("term %s is not in namespace %s", code, spec.Namespace), value)}
	}

	switch resolve(ctx, code) {
	case ontology.TermValid:
		return nil
	case ontology.TermDeprecated:
		return []Violation{newViolation(spec, SeverityWarning, KindDeprecatedTerm,
			fmt.Sprintf("term %s is deprecated in namespace %s", code, spec.Namespace),
			value)}
	case ontology.TermLookupFailed:
		return []Violation{newViolation(spec, SeverityWarning, KindResolverUnavailable,
			fmt.Sprintf("the %s vocabulary could not be reached", spec.Namespace),
			value)}
	}
	return []Violation{newViolation(spec, SeverityError, KindUnknownTerm,
		fmt.Sprintf("term %s does not exist in namespace %s", code, spec.Namespace),
		value)}
}

//-----------
// Internals
//-----------

func newViolation(spec catalog.FieldSpec, severity Severity, kind Kind,
	message, value string) Violation {
	return Violation{
		Section:  spec.Section,
		Field:    spec.Name,
		Severity: severity,
		Kind:     kind,
		Message:  message,
		Value:    value,
	}
}

// parses an ISO 8601 date or date-time-with-offset
func parseISODate(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parses a base-10 decimal number, also reporting the number of fractional
// digits written in the literal
func parseDecimal(value string) (float64, int, error) {
	// ParseFloat accepts hex floats, infinities, and NaN; we don't
	lowered := strings.ToLower(value)
	if strings.ContainsAny(lowered, "xp") ||
		strings.Contains(lowered, "inf") || strings.Contains(lowered, "nan") {
		return 0, 0, fmt.Errorf("not a base-10 decimal: %s", value)
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, 0, err
	}

	// count the fractional digits as written (exponents are left alone)
	fractionalDigits := 0
	if point := strings.IndexByte(value, '.'); point != -1 {
		for _, c := range value[point+1:] {
			if c < '0' || c > '9' {
				break
			}
			fractionalDigits++
		}
	}
	return number, fractionalDigits, nil
}

// matches a unit token against a FieldSpec's accepted set, case-insensitively
func acceptsUnit(spec catalog.FieldSpec, unit string) bool {
	for _, accepted := range spec.Units {
		if strings.EqualFold(accepted, unit) {
			return true
		}
	}
	return false
}

// describes a FieldSpec's numeric bounds for range violation messages
func rangeMessage(spec catalog.FieldSpec) string {
	switch {
	case spec.Minimum != nil && spec.Maximum != nil:
		return fmt.Sprintf("value must lie in [%g, %g]", *spec.Minimum, *spec.Maximum)
	case spec.Minimum != nil:
		return fmt.Sprintf("value must be at least %g", *spec.Minimum)
	default:
		return fmt.Sprintf("value must be at most %g", *spec.Maximum)
	}
}
