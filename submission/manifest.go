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

package submission

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/frictionlessdata/datapackage-go/datapackage"
	"github.com/frictionlessdata/datapackage-go/validator"
	"github.com/google/uuid"
)

// the naming convention tying a sample to its sequence file
const sequenceFileSuffix = ".fasta.gz"

// characters a Frictionless resource name may not contain
var resourceNameRegex = regexp.MustCompile(`[^-a-z0-9._/]`)

// Locates the sequence file for each of the given sample aliases: a file
// named <alias>.fasta.gz in the given directory. Every sample must have one;
// the first sample without one fails the packaging.
func discoverSequenceFiles(dir string, aliases []string) (map[string]string, error) {
	files := make(map[string]string, len(aliases))
	for _, alias := range aliases {
		path := filepath.Join(dir, alias+sequenceFileSuffix)
		if _, err := os.Stat(path); err != nil {
			return nil, &MissingFileError{Sample: alias, Path: path}
		}
		files[alias] = path
	}
	return files, nil
}

// builds a Frictionless data package manifest describing the sequence files
// accompanying a submission (resource paths are relative to the data
// directory, as the data package spec requires)
func newManifest(id uuid.UUID, dir string, files map[string]string) (*datapackage.Package, error) {
	aliases := make([]string, 0, len(files))
	for alias := range files {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)

	resources := make([]any, 0, len(files))
	for _, alias := range aliases {
		resource := map[string]any{
			"name":      resourceName(alias),
			"path":      alias + sequenceFileSuffix,
			"title":     alias,
			"format":    "fasta",
			"mediatype": "application/gzip",
		}
		if info, err := os.Stat(files[alias]); err == nil {
			resource["bytes"] = info.Size()
		}
		resources = append(resources, resource)
	}

	descriptor := map[string]any{
		"name":      fmt.Sprintf("submission-%s", id.String()),
		"resources": resources,
		"created":   time.Now().Format(time.RFC3339),
		"profile":   "data-package",
		"keywords":  []any{"mvs", "submission"},
	}
	return datapackage.New(descriptor, dir, validator.InMemoryLoader())
}

// derives a Frictionless-safe resource name from a sample alias
func resourceName(alias string) string {
	return resourceNameRegex.ReplaceAllString(strings.ToLower(alias), "-")
}
