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

// This package implements the term catalog: the declarative, human-editable
// description of every metadata field the validation engine knows about. The
// catalog is loaded once at startup and is read-only afterward.
package catalog

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// the section of a metadata record that a field belongs to
type Section int

const (
	SectionProject Section = iota
	SectionSite
	SectionSample
	SectionHost
	SectionEnvironmental
)

func (s Section) String() string {
	switch s {
	case SectionProject:
		return "project"
	case SectionSite:
		return "site"
	case SectionSample:
		return "sample"
	case SectionHost:
		return "host"
	case SectionEnvironmental:
		return "environmental"
	}
	return "unknown"
}

// sections appear by name in JSON payloads
func (s Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	section, err := ParseSection(name)
	if err != nil {
		return err
	}
	*s = section
	return nil
}

// parses a section name as it appears in the catalog artifact
func ParseSection(name string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "project":
		return SectionProject, nil
	case "site":
		return SectionSite, nil
	case "sample":
		return SectionSample, nil
	case "host":
		return SectionHost, nil
	case "environmental":
		return SectionEnvironmental, nil
	}
	return SectionProject, fmt.Errorf("Unknown section: %s", name)
}

// the value shape class of a metadata field, determining which validator
// checks its raw values
type ShapeClass int

const (
	ShapeFreeText ShapeClass = iota
	ShapeDate
	ShapeDecimal
	ShapeUnitNumber
	ShapeVocabulary
)

func (s ShapeClass) String() string {
	switch s {
	case ShapeFreeText:
		return "text"
	case ShapeDate:
		return "date"
	case ShapeDecimal:
		return "decimal"
	case ShapeUnitNumber:
		return "number+unit"
	case ShapeVocabulary:
		return "vocabulary"
	}
	return "unknown"
}

// parses a shape class name as it appears in the catalog artifact
func ParseShapeClass(name string) (ShapeClass, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text":
		return ShapeFreeText, nil
	case "date":
		return ShapeDate, nil
	case "decimal":
		return ShapeDecimal, nil
	case "number+unit":
		return ShapeUnitNumber, nil
	case "vocabulary":
		return ShapeVocabulary, nil
	}
	return ShapeFreeText, fmt.Errorf("Unknown shape class: %s", name)
}

// FieldSpec describes the expected shape of a single metadata field.
type FieldSpec struct {
	// the field's name, unique within the catalog
	Name string
	// the record section the field belongs to
	Section Section
	// the field's value shape class
	Shape ShapeClass
	// accepted unit tokens (number+unit fields only)
	Units []string
	// maximum number of significant fractional digits (0 indicates no bound)
	Precision int
	// numeric bounds (optional)
	Minimum, Maximum *float64
	// the ontology namespace providing valid terms (vocabulary fields only)
	Namespace string
	// indicates whether a vocabulary field also accepts literal free text
	AllowFreeText bool
	// indicates whether the field must be present in every record
	Mandatory bool
	// a human-readable definition of the field
	Definition string
	// a URI referencing the field's standard definition
	Reference string
}

// Catalog is an immutable table of FieldSpecs, indexed by field name.
type Catalog struct {
	checklist string
	fields    map[string]FieldSpec
}

// ontology namespace abbreviations look like "ENVO" or "NCBITaxon"
var namespaceRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// the YAML representation of a FieldSpec in the catalog artifact
type fieldEntry struct {
	Name          string   `yaml:"name"`
	Section       string   `yaml:"section"`
	Shape         string   `yaml:"shape"`
	Units         []string `yaml:"units,omitempty"`
	Precision     int      `yaml:"precision,omitempty"`
	Minimum       *float64 `yaml:"minimum,omitempty"`
	Maximum       *float64 `yaml:"maximum,omitempty"`
	Namespace     string   `yaml:"namespace,omitempty"`
	AllowFreeText bool     `yaml:"allow_free_text,omitempty"`
	Mandatory     bool     `yaml:"mandatory,omitempty"`
	Definition    string   `yaml:"definition,omitempty"`
	Reference     string   `yaml:"reference,omitempty"`
}

type catalogFile struct {
	Checklist string       `yaml:"checklist"`
	Fields    []fieldEntry `yaml:"fields"`
}

// Creates a catalog from the given YAML artifact data, failing fast if any
// field entry is malformed.
func New(data []byte) (*Catalog, error) {
	var artifact catalogFile
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, &InvalidSpecError{Message: err.Error()}
	}
	if len(artifact.Fields) == 0 {
		return nil, &InvalidSpecError{Message: "the catalog defines no fields"}
	}

	catalog := &Catalog{
		checklist: artifact.Checklist,
		fields:    make(map[string]FieldSpec, len(artifact.Fields)),
	}
	for _, entry := range artifact.Fields {
		spec, err := specFromEntry(entry)
		if err != nil {
			return nil, err
		}
		if _, found := catalog.fields[spec.Name]; found {
			return nil, &InvalidSpecError{
				Field:   spec.Name,
				Message: "duplicate field name",
			}
		}
		catalog.fields[spec.Name] = spec
	}
	return catalog, nil
}

// Loads a catalog from the YAML artifact at the given path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidSpecError{Message: err.Error()}
	}
	return New(data)
}

// checks a single artifact entry and converts it to a FieldSpec
func specFromEntry(entry fieldEntry) (FieldSpec, error) {
	var spec FieldSpec
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return spec, &InvalidSpecError{Message: "a field entry has no name"}
	}
	section, err := ParseSection(entry.Section)
	if err != nil {
		return spec, &InvalidSpecError{Field: name, Message: err.Error()}
	}
	shape, err := ParseShapeClass(entry.Shape)
	if err != nil {
		return spec, &InvalidSpecError{Field: name, Message: err.Error()}
	}
	if shape == ShapeUnitNumber && len(entry.Units) == 0 {
		return spec, &InvalidSpecError{
			Field:   name,
			Message: "number+unit fields must list accepted units",
		}
	}
	if shape == ShapeVocabulary {
		if entry.Namespace == "" {
			return spec, &InvalidSpecError{
				Field:   name,
				Message: "vocabulary fields must name an ontology namespace",
			}
		}
		if !namespaceRegex.MatchString(entry.Namespace) {
			return spec, &InvalidSpecError{
				Field:   name,
				Message: fmt.Sprintf("malformed ontology namespace: %s", entry.Namespace),
			}
		}
	}
	if entry.Precision < 0 {
		return spec, &InvalidSpecError{
			Field:   name,
			Message: fmt.Sprintf("negative precision: %d", entry.Precision),
		}
	}
	if entry.Minimum != nil && entry.Maximum != nil && *entry.Minimum > *entry.Maximum {
		return spec, &InvalidSpecError{
			Field:   name,
			Message: fmt.Sprintf("minimum %g exceeds maximum %g", *entry.Minimum, *entry.Maximum),
		}
	}
	return FieldSpec{
		Name:          name,
		Section:       section,
		Shape:         shape,
		Units:         entry.Units,
		Precision:     entry.Precision,
		Minimum:       entry.Minimum,
		Maximum:       entry.Maximum,
		Namespace:     entry.Namespace,
		AllowFreeText: entry.AllowFreeText,
		Mandatory:     entry.Mandatory,
		Definition:    entry.Definition,
		Reference:     entry.Reference,
	}, nil
}

// Returns the FieldSpec with the given name, or a NotFoundError.
func (c *Catalog) Lookup(fieldName string) (FieldSpec, error) {
	spec, found := c.fields[fieldName]
	if !found {
		return FieldSpec{}, &NotFoundError{Field: fieldName}
	}
	return spec, nil
}

// Returns all FieldSpecs in section-then-field order.
func (c *Catalog) Fields() []FieldSpec {
	fields := make([]FieldSpec, 0, len(c.fields))
	for _, spec := range c.fields {
		fields = append(fields, spec)
	}
	slices.SortFunc(fields, func(f1, f2 FieldSpec) int {
		if n := cmp.Compare(f1.Section, f2.Section); n != 0 {
			return n
		}
		return cmp.Compare(f1.Name, f2.Name)
	})
	return fields
}

// Returns all mandatory FieldSpecs in section-then-field order.
func (c *Catalog) MandatoryFields() []FieldSpec {
	fields := make([]FieldSpec, 0)
	for _, spec := range c.Fields() {
		if spec.Mandatory {
			fields = append(fields, spec)
		}
	}
	return fields
}

// Returns the identifier of the archive checklist this catalog conforms to.
func (c *Catalog) Checklist() string {
	return c.checklist
}

// Returns the number of fields in the catalog.
func (c *Catalog) Len() int {
	return len(c.fields)
}
