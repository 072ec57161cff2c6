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

	"github.com/nfdi4microbiota/mvs/catalog"
)

// a single raw field value as submitted, tagged with its record section
type FieldValue struct {
	Section catalog.Section `json:"section"`
	Value   string          `json:"value"`
}

// Record is a metadata record as submitted: a mapping from field name to raw
// value. A record handed to the validation engine must not be mutated
// afterward; corrections produce a new record (see WithField).
type Record struct {
	Fields map[string]FieldValue `json:"fields"`
}

func NewRecord() Record {
	return Record{Fields: make(map[string]FieldValue)}
}

// Returns a copy of the record with the given field set. The receiver is left
// unchanged.
func (r Record) WithField(name string, section catalog.Section, value string) Record {
	fields := make(map[string]FieldValue, len(r.Fields)+1)
	for fieldName, fieldValue := range r.Fields {
		fields[fieldName] = fieldValue
	}
	fields[name] = FieldValue{Section: section, Value: value}
	return Record{Fields: fields}
}

// Returns the record's field names in section-then-field order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	slices.SortFunc(names, func(n1, n2 string) int {
		if n := cmp.Compare(r.Fields[n1].Section, r.Fields[n2].Section); n != 0 {
			return n
		}
		return cmp.Compare(n1, n2)
	})
	return names
}
