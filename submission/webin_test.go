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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const successReceipt string = `<?xml version="1.0" encoding="UTF-8"?>
<RECEIPT receiptDate="2025-08-30T10:15:00.000+01:00" success="true">
  <PROJECT accession="PRJEB00042" alias="terrestrial-soil-survey" status="PRIVATE"/>
  <SAMPLE accession="ERS0000001" alias="TSS-0001" status="PRIVATE"/>
  <SAMPLE accession="ERS0000002" alias="TSS-0002" status="PRIVATE"/>
  <MESSAGES>
    <INFO>This submission is a TEST submission and will be discarded within 24 hours</INFO>
  </MESSAGES>
</RECEIPT>`

const failureReceipt string = `<?xml version="1.0" encoding="UTF-8"?>
<RECEIPT receiptDate="2025-08-30T10:15:00.000+01:00" success="false">
  <MESSAGES>
    <ERROR>In sample, alias: "TSS-0001". Sample with this alias already exists</ERROR>
  </MESSAGES>
</RECEIPT>`

// a fake archive endpoint that checks auth and content type before answering
// with the given receipt
func fakeArchive(t *testing.T, status int, receipt string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			assert.True(t, ok, "The submission request carries no basic auth.")
			assert.Equal(t, "webin-test", username)
			assert.Equal(t, "not-a-secret", password)
			assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
			w.WriteHeader(status)
			w.Write([]byte(receipt))
		}))
}

func testClient(url string) *Client {
	return &Client{URL: url, Username: "webin-test", Password: "not-a-secret"}
}

// tests that a successful submission yields the parsed receipt
func TestSubmitParsesReceipt(t *testing.T) {
	archive := fakeArchive(t, http.StatusOK, successReceipt)
	defer archive.Close()

	client := testClient(archive.URL)
	receipt, err := client.Submit(context.Background(), []byte("<WEBIN/>"))
	assert.Nil(t, err)
	assert.True(t, receipt.Success)
	assert.Len(t, receipt.Projects, 1)
	assert.Equal(t, "PRJEB00042", receipt.Projects[0].Accession)
	assert.Len(t, receipt.Samples, 2)
	assert.Equal(t, "TSS-0001", receipt.Samples[0].Alias)
	assert.Equal(t, "ERS0000001", receipt.Samples[0].Accession)
}

// tests that a receipt reporting failure surfaces its error messages
func TestSubmitReportsReceiptErrors(t *testing.T) {
	archive := fakeArchive(t, http.StatusOK, failureReceipt)
	defer archive.Close()

	client := testClient(archive.URL)
	receipt, err := client.Submit(context.Background(), []byte("<WEBIN/>"))
	assert.NotNil(t, err, "A failed receipt didn't trigger an error.")
	receiptErr, isReceiptErr := err.(*ReceiptError)
	assert.True(t, isReceiptErr)
	assert.Len(t, receiptErr.Messages, 1)
	assert.False(t, receipt.Success)
}

// tests that a transport-level refusal is reported distinctly
func TestSubmitReportsTransportFailures(t *testing.T) {
	archive := fakeArchive(t, http.StatusInternalServerError, "internal error")
	defer archive.Close()

	client := testClient(archive.URL)
	_, err := client.Submit(context.Background(), []byte("<WEBIN/>"))
	assert.NotNil(t, err, "An HTTP 500 didn't trigger an error.")
	failed, isFailed := err.(*SubmissionFailedError)
	assert.True(t, isFailed)
	assert.Equal(t, http.StatusInternalServerError, failed.StatusCode)
}

// tests that the client derives its URL from the configured portal, letting
// an explicit URL override it
func TestNewClientSelectsPortal(t *testing.T) {
	client := NewClient()
	// the test suite configures the test portal with no URL override
	assert.Equal(t, testSubmitURL, client.URL)
	assert.Equal(t, "webin-test", client.Username)
}
