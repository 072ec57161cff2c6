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

package catalog

import (
	"fmt"
)

// indicates that a field has no FieldSpec in the catalog
type NotFoundError struct {
	Field string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("No catalog entry was found for field %s", e.Field)
}

// indicates that the catalog artifact could not be loaded because one of its
// entries (or the artifact itself) is malformed
type InvalidSpecError struct {
	Field   string
	Message string
}

func (e InvalidSpecError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("Invalid catalog entry for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("Invalid catalog artifact: %s", e.Message)
}
