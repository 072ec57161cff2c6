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
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nfdi4microbiota/mvs/config"
)

// the ENA Webin REST V2 submission endpoints
const (
	testSubmitURL = "https://wwwdev.ebi.ac.uk/ena/submit/webin-v2/submit"
	prodSubmitURL = "https://www.ebi.ac.uk/ena/submit/webin-v2/submit"
)

//----------------------
// Submission documents
//----------------------

// the root element of a Webin submission document
type webinDocument struct {
	XMLName       xml.Name           `xml:"WEBIN"`
	SubmissionSet webinSubmissionSet `xml:"SUBMISSION_SET"`
	ProjectSet    *webinProjectSet   `xml:"PROJECT_SET,omitempty"`
	SampleSet     webinSampleSet     `xml:"SAMPLE_SET"`
}

type webinSubmissionSet struct {
	Submissions []webinSubmission `xml:"SUBMISSION"`
}

type webinSubmission struct {
	Actions []webinAction `xml:"ACTIONS>ACTION"`
}

type webinAction struct {
	Add *struct{} `xml:"ADD,omitempty"`
}

type webinProjectSet struct {
	Projects []webinProject `xml:"PROJECT"`
}

type webinProject struct {
	Alias             string                 `xml:"alias,attr"`
	Title             string                 `xml:"TITLE"`
	Description       string                 `xml:"DESCRIPTION"`
	SubmissionProject webinSubmissionProject `xml:"SUBMISSION_PROJECT"`
}

type webinSubmissionProject struct {
	SequencingProject struct{} `xml:"SEQUENCING_PROJECT"`
}

type webinSampleSet struct {
	Samples []webinSample `xml:"SAMPLE"`
}

type webinSample struct {
	Alias      string                 `xml:"alias,attr"`
	CenterName string                 `xml:"center_name,attr,omitempty"`
	Title      string                 `xml:"TITLE"`
	Name       webinSampleName        `xml:"SAMPLE_NAME"`
	Attributes []webinSampleAttribute `xml:"SAMPLE_ATTRIBUTES>SAMPLE_ATTRIBUTE"`
}

type webinSampleName struct {
	TaxonId        string `xml:"TAXON_ID,omitempty"`
	ScientificName string `xml:"SCIENTIFIC_NAME,omitempty"`
}

type webinSampleAttribute struct {
	Tag   string `xml:"TAG"`
	Value string `xml:"VALUE"`
	Units string `xml:"UNITS,omitempty"`
}

// serializes a submission document, prepending the XML declaration
func (doc webinDocument) bytes() ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

//----------
// Receipts
//----------

// Receipt is the archive's response to one submission request. Accessioned
// objects appear as children carrying alias and accession attributes.
type Receipt struct {
	XMLName  xml.Name        `xml:"RECEIPT"`
	Success  bool            `xml:"success,attr"`
	Projects []ReceiptObject `xml:"PROJECT"`
	Samples  []ReceiptObject `xml:"SAMPLE"`
	Messages ReceiptMessages `xml:"MESSAGES"`
}

// an object accessioned (or refused) by the archive
type ReceiptObject struct {
	Alias     string `xml:"alias,attr"`
	Accession string `xml:"accession,attr"`
}

type ReceiptMessages struct {
	Errors []string `xml:"ERROR"`
	Infos  []string `xml:"INFO"`
}

//--------
// Client
//--------

// Client submits Webin XML documents to the archive over HTTP with basic
// authentication. It performs no packaging of its own; it only moves batches
// produced by the Packager and interprets the receipts that come back.
type Client struct {
	URL      string
	Username string
	Password string
	Client   http.Client
}

// Creates a client for the configured archive portal. An explicit URL in the
// archive configuration overrides the portal selection (used in testing).
func NewClient() *Client {
	url := config.Archive.URL
	if url == "" {
		url = testSubmitURL
		if config.Archive.Portal == "prod" {
			url = prodSubmitURL
		}
	}
	return &Client{
		URL:      url,
		Username: config.Archive.Username,
		Password: config.Archive.Password,
		Client:   http.Client{Timeout: 60 * time.Second},
	}
}

// Submits a single batch document, returning the archive's receipt. A
// transport-level refusal produces a SubmissionFailedError; a receipt that
// arrives but reports failure produces a ReceiptError alongside the receipt
// itself.
func (c *Client) Submit(ctx context.Context, document []byte) (Receipt, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL,
		bytes.NewReader(document))
	if err != nil {
		return Receipt{}, err
	}
	request.SetBasicAuth(c.Username, c.Password)
	request.Header.Set("Content-Type", "application/xml")
	request.Header.Set("Accept", "application/xml")

	response, err := c.Client.Do(request)
	if err != nil {
		return Receipt{}, err
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return Receipt{}, err
	}
	if response.StatusCode != http.StatusOK {
		return Receipt{}, &SubmissionFailedError{
			StatusCode: response.StatusCode,
			Body:       string(body),
		}
	}

	var receipt Receipt
	if err := xml.Unmarshal(body, &receipt); err != nil {
		return Receipt{}, fmt.Errorf("parsing submission receipt: %s", err.Error())
	}
	if !receipt.Success {
		return receipt, &ReceiptError{Messages: receipt.Messages.Errors}
	}
	slog.Debug(fmt.Sprintf("Archive accessioned %d sample(s)", len(receipt.Samples)))
	return receipt, nil
}
