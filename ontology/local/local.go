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

// This package implements an ontology resolver backed by a vocabulary file on
// the local filesystem, for offline operation and for testing.
package local

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
)

// a resolver with an in-memory table of terms loaded at creation time
type Resolver struct {
	Namespace string
	terms     map[string]ontology.Term
}

// the YAML representation of a vocabulary file
type vocabularyFile struct {
	Namespace string          `yaml:"namespace"`
	Terms     []ontology.Term `yaml:"terms"`
}

// Creates a local resolver for the given configured namespace, loading its
// vocabulary file eagerly so that malformed vocabularies fail at startup.
func NewResolver(namespace string) (ontology.Resolver, error) {
	conf, found := config.Ontologies[namespace]
	if !found {
		return nil, &ontology.UnknownNamespaceError{Namespace: namespace}
	}
	data, err := os.ReadFile(conf.Vocabulary)
	if err != nil {
		return nil, &ontology.InvalidVocabularyError{
			Namespace: namespace,
			Message:   err.Error(),
		}
	}
	return NewResolverFromData(namespace, data)
}

// Creates a local resolver from raw vocabulary YAML data.
func NewResolverFromData(namespace string, data []byte) (ontology.Resolver, error) {
	var vocabulary vocabularyFile
	if err := yaml.Unmarshal(data, &vocabulary); err != nil {
		return nil, &ontology.InvalidVocabularyError{
			Namespace: namespace,
			Message:   err.Error(),
		}
	}
	resolver := &Resolver{
		Namespace: namespace,
		terms:     make(map[string]ontology.Term, len(vocabulary.Terms)),
	}
	for _, term := range vocabulary.Terms {
		if term.Code == "" {
			return nil, &ontology.InvalidVocabularyError{
				Namespace: namespace,
				Message:   "a term entry has no code",
			}
		}
		term.Namespace = namespace
		resolver.terms[term.Code] = term
	}
	return resolver, nil
}

// A local lookup never fails, so the only possible outcomes are valid,
// deprecated, and unknown.
func (r *Resolver) Resolve(ctx context.Context, code string) ontology.TermStatus {
	term, found := r.terms[code]
	if !found {
		return ontology.TermUnknown
	}
	if term.Deprecated {
		return ontology.TermDeprecated
	}
	return ontology.TermValid
}
