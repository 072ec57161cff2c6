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

// This package contains testing utilities for the metadata validation service.
package mvstest

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/ontology"
)

// Enables DEBUG log messages for the service's structured log (slog).
func EnableDebugLogging() {
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelDebug)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

//-------------------------
// Resolver Test Fixtures
//-------------------------

// This type implements an ontology resolver test fixture that serves canned
// term statuses, optionally after a delay (for exercising lookup timeouts).
// Codes not in the table resolve to TermUnknown.
type ResolverFixture struct {
	Statuses map[string]ontology.TermStatus
	Delay    time.Duration
}

func (r *ResolverFixture) Resolve(ctx context.Context, code string) ontology.TermStatus {
	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return ontology.TermLookupFailed
		}
	}
	if status, found := r.Statuses[code]; found {
		return status
	}
	return ontology.TermUnknown
}

// fixtures registered so far, by namespace
var fixtures = make(map[string]*ResolverFixture)

// Registers a resolver test fixture for the given ontology namespace,
// serving the given canned statuses. The namespace must be configured with
// the "fixture" provider. Registering the same namespace again replaces its
// statuses in place, so tests can reshape a fixture mid-session.
func RegisterResolverFixture(namespace string,
	statuses map[string]ontology.TermStatus, delay time.Duration) error {

	if fixture, found := fixtures[namespace]; found {
		fixture.Statuses = statuses
		fixture.Delay = delay
		return nil
	}
	fixtures[namespace] = &ResolverFixture{Statuses: statuses, Delay: delay}

	// NOTE: it's okay if the fixture provider has already been registered by
	// NOTE: another test in this process
	err := ontology.RegisterProvider("fixture",
		func(namespace string) (ontology.Resolver, error) {
			fixture, found := fixtures[namespace]
			if !found {
				return nil, &ontology.UnknownNamespaceError{Namespace: namespace}
			}
			return fixture, nil
		})
	if err != nil {
		if _, matches := err.(*ontology.AlreadyRegisteredError); !matches {
			return err
		}
	}
	return nil
}

//-------------------------
// Catalog Test Fixture
//-------------------------

// a compact catalog artifact exercising every shape class
const catalogFixture string = `
checklist: ERC000047
fields:
  - name: project_name
    section: project
    shape: text
    mandatory: true
  - name: collection_date
    section: site
    shape: date
    mandatory: true
  - name: lat
    section: site
    shape: decimal
    units: [DD]
    minimum: -90
    maximum: 90
    precision: 8
    mandatory: true
  - name: lon
    section: site
    shape: decimal
    units: [DD]
    minimum: -180
    maximum: 180
    precision: 8
    mandatory: true
  - name: elev
    section: site
    shape: number+unit
    units: [m, meter]
  - name: samp_name
    section: sample
    shape: text
    mandatory: true
  - name: samp_taxon_id
    section: sample
    shape: text
  - name: env_medium
    section: environmental
    shape: vocabulary
    namespace: ENVO
    mandatory: true
  - name: chem_administration
    section: sample
    shape: vocabulary
    namespace: CHEBI
`

// Returns a small catalog whose fields cover every shape class. Its
// vocabulary fields refer to the ENVO and CHEBI namespaces, which tests
// usually configure with the "fixture" provider.
func Catalog() (*catalog.Catalog, error) {
	return catalog.New([]byte(catalogFixture))
}
