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
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
)

// Engine validates metadata records against a term catalog, resolving
// controlled vocabulary terms through per-namespace ontology resolvers. An
// engine holds no per-record state: Validate calls are independent, and one
// engine serves any number of concurrent validations.
type Engine struct {
	catalog       *catalog.Catalog
	resolvers     map[string]ontology.Resolver
	maxLookups    int
	lookupTimeout time.Duration
}

// Creates a validation engine for the given catalog, instantiating a resolver
// for every ontology namespace the catalog refers to (so that a misconfigured
// namespace surfaces at startup, not mid-validation).
func NewEngine(cat *catalog.Catalog) (*Engine, error) {
	engine := &Engine{
		catalog:       cat,
		resolvers:     make(map[string]ontology.Resolver),
		maxLookups:    config.Validation.MaxLookups,
		lookupTimeout: time.Duration(config.Validation.LookupTimeout) * time.Millisecond,
	}
	for _, spec := range cat.Fields() {
		if spec.Shape != catalog.ShapeVocabulary {
			continue
		}
		if _, found := engine.resolvers[spec.Namespace]; !found {
			resolver, err := ontology.NewResolver(spec.Namespace)
			if err != nil {
				return nil, err
			}
			engine.resolvers[spec.Namespace] = resolver
		}
	}
	return engine, nil
}

// Returns the catalog the engine validates against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Validates the given record, accumulating every violation (the engine never
// stops at the first error) and returning a report whose violation list is in
// stable section-then-field order. Fields are checked concurrently, bounded
// by the configured lookup limit; the report is assembled only after every
// check has finished. If ctx is canceled mid-validation, outstanding lookups
// are abandoned and no partial report is returned.
func (e *Engine) Validate(ctx context.Context, record Record) (Report, error) {
	names := record.FieldNames()
	results := make([][]Violation, len(names))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.maxLookups)
	for i, name := range names {
		i, name := i, name
		group.Go(func() error {
			field := record.Fields[name]
			spec, err := e.catalog.Lookup(name)
			if err != nil {
				// fields the catalog hasn't learned about yet are reported,
				// not hard-failed
				results[i] = []Violation{{
					Section:  field.Section,
					Field:    name,
					Severity: SeverityWarning,
					Kind:     KindUnknownField,
					Message:  "field has no entry in the term catalog",
					Value:    field.Value,
				}}
				return nil
			}
			results[i] = e.checkField(groupCtx, field.Value, spec)
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return Report{}, err
	}

	violations := make([]Violation, 0)
	for _, result := range results {
		violations = append(violations, result...)
	}

	// now flag mandatory fields that are absent (or present but empty)
	for _, spec := range e.catalog.MandatoryFields() {
		field, present := record.Fields[spec.Name]
		if !present || strings.TrimSpace(field.Value) == "" {
			violations = append(violations, newViolation(spec, SeverityError,
				KindMissingRequired, "mandatory field is missing", field.Value))
		}
	}

	return NewReport(violations), nil
}

// dispatches a single field value to the validator for its shape class
func (e *Engine) checkField(ctx context.Context, raw string,
	spec catalog.FieldSpec) []Violation {

	// an empty value is treated as absent; the mandatory pass deals with it
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	switch spec.Shape {
	case catalog.ShapeDate:
		return CheckDate(value, spec)
	case catalog.ShapeDecimal:
		return CheckDecimal(value, spec)
	case catalog.ShapeUnitNumber:
		return CheckUnitNumber(value, spec)
	case catalog.ShapeVocabulary:
		return CheckVocabularyTerm(ctx, value, spec, e.resolveWithTimeout)
	}
	return CheckFreeText(value, spec)
}

// resolves a term in its namespace with the configured per-lookup timeout
func (e *Engine) resolveWithTimeout(ctx context.Context, code string) ontology.TermStatus {
	namespace, _, _ := strings.Cut(code, ":")
	resolver, found := e.resolvers[namespace]
	if !found {
		return ontology.TermLookupFailed
	}
	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()
	return resolver.Resolve(lookupCtx, code)
}
