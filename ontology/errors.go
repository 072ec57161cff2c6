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

package ontology

import (
	"fmt"
)

// indicates that a resolver provider has already been registered under a name
type AlreadyRegisteredError struct {
	Provider string
}

func (e AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("A resolver provider named %s has already been registered", e.Provider)
}

// indicates that no ontology namespace with the given name is configured
type UnknownNamespaceError struct {
	Namespace string
}

func (e UnknownNamespaceError) Error() string {
	return fmt.Sprintf("No ontology namespace named %s is configured", e.Namespace)
}

// indicates that a namespace is configured with an unregistered provider
type UnknownProviderError struct {
	Namespace string
	Provider  string
}

func (e UnknownProviderError) Error() string {
	return fmt.Sprintf("Ontology namespace %s refers to an unregistered provider: %s",
		e.Namespace, e.Provider)
}

// indicates that a local vocabulary file could not be loaded
type InvalidVocabularyError struct {
	Namespace string
	Message   string
}

func (e InvalidVocabularyError) Error() string {
	return fmt.Sprintf("Could not load the vocabulary for namespace %s: %s",
		e.Namespace, e.Message)
}

// indicates that a lookup cache file could not be opened
type CantOpenCacheError struct {
	Namespace string
	Message   string
}

func (e CantOpenCacheError) Error() string {
	return fmt.Sprintf("Could not open the lookup cache for namespace %s: %s",
		e.Namespace, e.Message)
}
