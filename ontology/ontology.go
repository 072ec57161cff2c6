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

// This package defines the ontology lookup capability used by the validation
// engine to check controlled vocabulary terms, and a registry of resolver
// providers backing that capability (one resolver per ontology namespace).
package ontology

import (
	"context"
	"path/filepath"

	"github.com/nfdi4microbiota/mvs/config"
)

// the outcome of a term lookup within a namespace
type TermStatus int

const (
	// the term does not exist in the namespace
	TermUnknown TermStatus = iota
	// the term exists and is current
	TermValid
	// the term exists but has been deprecated
	TermDeprecated
	// the backing vocabulary could not be reached (network/timeout); NOT the
	// same as TermUnknown, and callers must treat it as a soft failure
	TermLookupFailed
)

func (s TermStatus) String() string {
	switch s {
	case TermValid:
		return "valid"
	case TermDeprecated:
		return "deprecated"
	case TermLookupFailed:
		return "lookup failed"
	}
	return "unknown"
}

// a single term within an ontology namespace
type Term struct {
	Namespace  string `json:"namespace" yaml:"namespace"`
	Code       string `json:"code" yaml:"code"`
	Label      string `json:"label" yaml:"label"`
	Deprecated bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Resolver answers whether a term code is valid within a single ontology
// namespace. Implementations must map their own transport failures (including
// context deadline expiry) to TermLookupFailed rather than blocking or
// panicking, and must be safe for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, code string) TermStatus
}

// this type creates a resolver for the named ontology namespace using its
// entry in the service configuration
type ResolverFactory func(namespace string) (Resolver, error)

// tables of resolver providers and instantiated resolvers
var allProviders = make(map[string]ResolverFactory)
var allResolvers = make(map[string]Resolver)

// Registers a resolver provider (e.g. "ols", "local") under the given name so
// that configured namespaces can refer to it.
func RegisterProvider(name string, factory ResolverFactory) error {
	if _, found := allProviders[name]; found {
		return &AlreadyRegisteredError{Provider: name}
	}
	allProviders[name] = factory
	return nil
}

// Creates a resolver for the given namespace based on the configured provider,
// or returns an existing instance. If the namespace is configured with a cache
// file, the resolver is wrapped in a persistent lookup cache.
func NewResolver(namespace string) (Resolver, error) {
	// do we have one of these already?
	resolver, found := allResolvers[namespace]
	if found {
		return resolver, nil
	}

	conf, found := config.Ontologies[namespace]
	if !found {
		return nil, &UnknownNamespaceError{Namespace: namespace}
	}
	factory, found := allProviders[conf.Provider]
	if !found {
		return nil, &UnknownProviderError{Namespace: namespace, Provider: conf.Provider}
	}
	resolver, err := factory(namespace)
	if err != nil {
		return nil, err
	}
	if conf.Cache != "" {
		cacheFile := filepath.Join(config.Service.DataDirectory, conf.Cache)
		resolver, err = NewCachedResolver(resolver, namespace, cacheFile)
		if err != nil {
			return nil, err
		}
	}
	allResolvers[namespace] = resolver // stash it
	return resolver, nil
}

// Closes all instantiated resolvers that hold resources (lookup caches).
// Called at service shutdown.
func Finalize() {
	for namespace, resolver := range allResolvers {
		if closer, ok := resolver.(interface{ Close() error }); ok {
			closer.Close()
		}
		delete(allResolvers, namespace)
	}
}
