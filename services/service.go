package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/nfdi4microbiota/mvs/submission"
	"github.com/nfdi4microbiota/mvs/validation"
)

// this type encodes a JSON object for responding to root queries
type ServiceInfoResponse struct {
	Name          string `json:"name" example:"MVS" doc:"The name of the service API"`
	Version       string `json:"version" example:"1.0.0" doc:"The version string (major.minor.patch)"`
	Uptime        int    `json:"uptime" example:"345600" doc:"The time the service has been up (seconds)"`
	Checklist     string `json:"checklist" example:"ERC000047" doc:"The archive checklist the term catalog pins"`
	Documentation string `json:"documentation" example:"/docs" doc:"The OpenAPI documentation endpoint"`
}

// a response describing a single term catalog field (GET)
type FieldResponse struct {
	Name          string   `json:"name" example:"lat" doc:"the field's name"`
	Section       string   `json:"section" example:"site" doc:"the record section the field belongs to"`
	Shape         string   `json:"shape" example:"decimal" doc:"the field's value shape class"`
	Units         []string `json:"units,omitempty" doc:"accepted unit tokens, if any"`
	Precision     int      `json:"precision,omitempty" doc:"maximum number of significant fractional digits"`
	Minimum       *float64 `json:"minimum,omitempty" doc:"lower numeric bound, if any"`
	Maximum       *float64 `json:"maximum,omitempty" doc:"upper numeric bound, if any"`
	Namespace     string   `json:"namespace,omitempty" example:"ENVO" doc:"the ontology namespace providing valid terms"`
	AllowFreeText bool     `json:"allow_free_text,omitempty" doc:"whether a vocabulary field also accepts literal text"`
	Mandatory     bool     `json:"mandatory" doc:"whether the field must be present in every record"`
	Definition    string   `json:"definition,omitempty" doc:"a human-readable definition of the field"`
	Reference     string   `json:"reference,omitempty" doc:"a URI referencing the field's standard definition"`
}

// a response listing the term catalog's fields (GET)
type FieldsResponse struct {
	Checklist string          `json:"checklist" example:"ERC000047" doc:"the archive checklist the catalog pins"`
	Fields    []FieldResponse `json:"fields" doc:"the catalog's fields in section-then-field order"`
}

// one raw field value in a submitted metadata record
type RecordFieldRequest struct {
	Section string `json:"section" example:"site" doc:"the record section the field belongs to"`
	Value   string `json:"value" example:"-41.373744" doc:"the raw value as submitted"`
}

// a metadata record as submitted for validation (or submission)
type RecordRequest struct {
	Fields map[string]RecordFieldRequest `json:"fields" doc:"field name -> raw value, tagged with its section"`
}

// a request for an archive submission (POST)
type SubmissionRequest struct {
	// the study the records belong to
	Project submission.ProjectInfo `json:"project"`
	// the metadata records to validate and submit, one per sample
	Records []RecordRequest `json:"records"`
}

// a response for an archive submission request (POST)
type SubmissionResponse struct {
	// submission task ID
	Id uuid.UUID `json:"id" doc:"a UUID for the requested submission"`
}

// a response for a submission status request (GET)
type SubmissionStatusResponse struct {
	// submission task ID
	Id string `json:"id"`
	// submission task status
	Status string `json:"status"`
	// message (if any) related to status
	Message string `json:"message,omitempty"`
	// per-record validation reports, index-aligned with the submitted records
	Reports []validation.Report `json:"reports,omitempty"`
	// number of batches handed to the archive so far
	BatchesSubmitted int `json:"batches_submitted"`
	// total number of batches in the submission
	TotalBatches int `json:"total_batches"`
	// the study accession, once known
	ProjectAccession string `json:"project_accession,omitempty"`
	// sample alias -> archive accession
	Accessions map[string]string `json:"accessions,omitempty"`
}

// ValidationService defines the interface for our metadata validation service.
type ValidationService interface {
	// Starts the service on the selected port, returning an error that indicates
	// success or failure.
	Start(port int) error
	// Gracefully shuts down the service without interrupting active connections.
	Shutdown(ctx context.Context) error
	// Closes down the service, freeing all resources.
	Close()
}
