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

// This package implements an ontology resolver backed by the EMBL-EBI Ontology
// Lookup Service (OLS), which hosts ENVO, CHEBI, NCBITaxon, and the other OBO
// vocabularies referenced by MIXS checklists.
package ols

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
)

const olsBaseURL = "https://www.ebi.ac.uk/ols4/api"

// a resolver that queries OLS for terms in a single namespace
type Resolver struct {
	Namespace string
	URL       string
	Client    http.Client
}

// Creates an OLS resolver for the given configured namespace.
func NewResolver(namespace string) (ontology.Resolver, error) {
	conf, found := config.Ontologies[namespace]
	if !found {
		return nil, &ontology.UnknownNamespaceError{Namespace: namespace}
	}
	baseURL := conf.URL
	if baseURL == "" {
		baseURL = olsBaseURL
	}
	return &Resolver{
		Namespace: namespace,
		URL:       strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// the relevant slice of an OLS terms response
type termsResponse struct {
	Embedded struct {
		Terms []struct {
			OboId      string `json:"obo_id"`
			Label      string `json:"label"`
			IsObsolete bool   `json:"is_obsolete"`
		} `json:"terms"`
	} `json:"_embedded"`
}

func (r *Resolver) Resolve(ctx context.Context, code string) ontology.TermStatus {
	// OLS identifies ontologies by their lowercased namespace abbreviation
	resource := fmt.Sprintf("%s/ontologies/%s/terms?obo_id=%s",
		r.URL, strings.ToLower(r.Namespace), url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resource, nil)
	if err != nil {
		return ontology.TermLookupFailed
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		// covers timeouts and cancellation as well as transport errors
		slog.Debug(fmt.Sprintf("OLS lookup of %s term %s failed: %s",
			r.Namespace, code, err.Error()))
		return ontology.TermLookupFailed
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// the ontology itself (or the term resource) isn't there
		return ontology.TermUnknown
	case resp.StatusCode != http.StatusOK:
		return ontology.TermLookupFailed
	}

	var body termsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ontology.TermLookupFailed
	}
	for _, term := range body.Embedded.Terms {
		if term.OboId == code {
			if term.IsObsolete {
				return ontology.TermDeprecated
			}
			return ontology.TermValid
		}
	}
	return ontology.TermUnknown
}
