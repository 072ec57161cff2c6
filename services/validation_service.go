package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humamux"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/net/netutil"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
	"github.com/nfdi4microbiota/mvs/ontology/local"
	"github.com/nfdi4microbiota/mvs/ontology/ols"
	"github.com/nfdi4microbiota/mvs/tasks"
	"github.com/nfdi4microbiota/mvs/validation"
)

// Version numbers
var majorVersion = 0
var minorVersion = 1
var patchVersion = 0

// Version string
var version = fmt.Sprintf("%d.%d.%d", majorVersion, minorVersion, patchVersion)

// This type implements the ValidationService interface, checking metadata
// records against a term catalog and packaging them for archive submission.
type validationService struct {
	// name of the service
	Name string
	// service version identifier
	Version string
	// time which the service was started
	StartTime time.Time
	// port on which the service currently runs
	Port int
	// router for REST endpoints
	Router *mux.Router
	// API wrapper
	API huma.API
	// HTTP server.
	Server *http.Server
	// the term catalog served by the fields endpoints
	Catalog *catalog.Catalog
	// the validation engine backing the validate endpoint
	Engine *validation.Engine
}

// maps a catalog field spec to its response representation
func fieldResponse(spec catalog.FieldSpec) FieldResponse {
	return FieldResponse{
		Name:          spec.Name,
		Section:       spec.Section.String(),
		Shape:         spec.Shape.String(),
		Units:         spec.Units,
		Precision:     spec.Precision,
		Minimum:       spec.Minimum,
		Maximum:       spec.Maximum,
		Namespace:     spec.Namespace,
		AllowFreeText: spec.AllowFreeText,
		Mandatory:     spec.Mandatory,
		Definition:    spec.Definition,
		Reference:     spec.Reference,
	}
}

// maps a request record to a validation record, parsing section names
func recordFromRequest(request RecordRequest) (validation.Record, error) {
	record := validation.NewRecord()
	for name, field := range request.Fields {
		section, err := catalog.ParseSection(field.Section)
		if err != nil {
			return record, huma.Error422UnprocessableEntity(
				fmt.Sprintf("Field %s: %s", name, err.Error()))
		}
		record.Fields[name] = validation.FieldValue{
			Section: section,
			Value:   field.Value,
		}
	}
	return record, nil
}

type ServiceInfoOutput struct {
	Body ServiceInfoResponse `doc:"information about the service itself"`
}

// handler method for root
func (service *validationService) getRoot(ctx context.Context,
	input *struct{}) (*ServiceInfoOutput, error) {

	slog.Info("Querying root endpoint...")
	return &ServiceInfoOutput{
		Body: ServiceInfoResponse{
			Name:          service.Name,
			Version:       service.Version,
			Uptime:        int(service.uptime()),
			Checklist:     service.Catalog.Checklist(),
			Documentation: "/docs",
		},
	}, nil
}

type FieldsOutput struct {
	Body FieldsResponse `doc:"The term catalog's fields in section-then-field order"`
}

// handler method for listing the term catalog's fields
func (service *validationService) getFields(ctx context.Context,
	input *struct{}) (*FieldsOutput, error) {

	slog.Info("Querying term catalog fields...")
	specs := service.Catalog.Fields()
	fields := make([]FieldResponse, 0, len(specs))
	for _, spec := range specs {
		fields = append(fields, fieldResponse(spec))
	}
	return &FieldsOutput{
		Body: FieldsResponse{
			Checklist: service.Catalog.Checklist(),
			Fields:    fields,
		},
	}, nil
}

type FieldOutput struct {
	Body FieldResponse `doc:"Information about the requested term catalog field"`
}

// handler method for querying a single term catalog field
func (service *validationService) getField(ctx context.Context,
	input *struct {
		Field string `path:"field" example:"lat" doc:"the name of a term catalog field"`
	}) (*FieldOutput, error) {

	slog.Info(fmt.Sprintf("Querying term catalog field %s...", input.Field))
	spec, err := service.Catalog.Lookup(input.Field)
	if err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &FieldOutput{
		Body: fieldResponse(spec),
	}, nil
}

type ValidationOutput struct {
	Body validation.Report `doc:"A validation report for the given metadata record"`
}

// handler method for validating a single metadata record
func (service *validationService) validateRecord(ctx context.Context,
	input *struct {
		Body        RecordRequest `doc:"The body of a POST request for a record validation"`
		ContentType string        `header:"Content-Type" doc:"Content-Type header (must be application/json)"`
	}) (*ValidationOutput, error) {

	record, err := recordFromRequest(input.Body)
	if err != nil {
		return nil, err
	}

	slog.Info(fmt.Sprintf("Validating a record with %d fields...", len(record.Fields)))
	report, err := service.Engine.Validate(ctx, record)
	if err != nil {
		return nil, err
	}
	return &ValidationOutput{
		Body: report,
	}, nil
}

type SubmissionOutput struct {
	Body   SubmissionResponse `doc:"A UUID for the requested submission"`
	Status int
}

// handler method for initiating an archive submission
func (service *validationService) createSubmission(ctx context.Context,
	input *struct {
		Body        SubmissionRequest `doc:"The body of a POST request for an archive submission"`
		ContentType string            `header:"Content-Type" doc:"Content-Type header (must be application/json)"`
	}) (*SubmissionOutput, error) {

	records := make([]validation.Record, 0, len(input.Body.Records))
	for _, request := range input.Body.Records {
		record, err := recordFromRequest(request)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	taskId, err := tasks.Create(tasks.Specification{
		Project: input.Body.Project,
		Records: records,
	})
	if err != nil {
		return nil, err
	}
	return &SubmissionOutput{
		Body: SubmissionResponse{
			Id: taskId,
		},
		Status: http.StatusCreated,
	}, nil
}

type SubmissionStatusOutput struct {
	Body SubmissionStatusResponse `doc:"A status message for the submission task with the given ID"`
}

// handler method for getting the status of a submission
func (service *validationService) getSubmissionStatus(ctx context.Context,
	input *struct {
		Id uuid.UUID `path:"id" example:"de9a2d6a-f5c9-4322-b8a7-8121d83fdfc2" doc:"the UUID for the requested submission"`
	}) (*SubmissionStatusOutput, error) {

	status, err := tasks.Status(input.Id)
	if err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &SubmissionStatusOutput{
		Body: SubmissionStatusResponse{
			Id:               input.Id.String(),
			Status:           status.Code.String(),
			Message:          status.Message,
			Reports:          status.Reports,
			BatchesSubmitted: status.BatchesSubmitted,
			TotalBatches:     status.TotalBatches,
			ProjectAccession: status.ProjectAccession,
			Accessions:       status.Accessions,
		},
	}, nil
}

type TaskDeletionOutput struct {
	Status int
}

// handler method for deleting (canceling) an existing submission
func (service *validationService) deleteSubmission(ctx context.Context,
	input *struct {
		Id uuid.UUID `path:"id" example:"de9a2d6a-f5c9-4322-b8a7-8121d83fdfc2" doc:"the UUID for the requested submission"`
	}) (*TaskDeletionOutput, error) {

	// request that the task be canceled
	err := tasks.Cancel(input.Id)
	if err != nil {
		return nil, err
	}
	return &TaskDeletionOutput{
		Status: http.StatusAccepted,
	}, nil
}

// returns the uptime for the service in seconds
func (service *validationService) uptime() float64 {
	return time.Since(service.StartTime).Seconds()
}

// constructs a metadata validation service given our configuration
func NewValidationService() (ValidationService, error) {

	// validate our configuration
	if config.Catalog.Path == "" {
		return nil, fmt.Errorf("No term catalog was specified.")
	}

	// register the ontology providers (harmless if already done)
	for name, factory := range map[string]ontology.ResolverFactory{
		"ols":   ols.NewResolver,
		"local": local.NewResolver,
	} {
		err := ontology.RegisterProvider(name, factory)
		if err != nil {
			var alreadyRegisteredErr *ontology.AlreadyRegisteredError
			if !errors.As(err, &alreadyRegisteredErr) {
				return nil, err
			}
		}
	}

	cat, err := catalog.Load(config.Catalog.Path)
	if err != nil {
		return nil, err
	}
	engine, err := validation.NewEngine(cat)
	if err != nil {
		return nil, err
	}

	service := new(validationService)
	service.Name = "MVS"
	service.Version = version
	service.Port = -1
	service.Catalog = cat
	service.Engine = engine

	// set up routing
	service.Router = mux.NewRouter()
	service.API = humamux.New(service.Router, huma.DefaultConfig(service.Name, service.Version))
	huma.Get(service.API, "/", service.getRoot)

	// API v1
	huma.Get(service.API, "/api/v1/fields", service.getFields)
	huma.Get(service.API, "/api/v1/fields/{field}", service.getField)
	huma.Post(service.API, "/api/v1/validate", service.validateRecord)
	huma.Post(service.API, "/api/v1/submissions", service.createSubmission)
	huma.Get(service.API, "/api/v1/submissions/{id}", service.getSubmissionStatus)
	huma.Delete(service.API, "/api/v1/submissions/{id}", service.deleteSubmission)

	// static API documentation, if it's built in
	AddDocEndpoints(service.Router)

	return service, nil
}

// starts the metadata validation service
func (service *validationService) Start(port int) error {
	slog.Info(fmt.Sprintf("Starting %s service on port %d...", service.Name, port))
	slog.Info(fmt.Sprintf("(Accepting up to %d connections)", config.Service.MaxConnections))

	service.StartTime = time.Now()

	// create a listener that limits the number of incoming connections
	service.Port = port
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return err
	}
	defer listener.Close()
	listener = netutil.LimitListener(listener, config.Service.MaxConnections)

	// start submission task processing
	err = tasks.Start()
	if err != nil {
		return err
	}

	// start the server
	service.Server = &http.Server{
		Handler: service.Router}
	err = service.Server.Serve(listener)

	// we don't report the server closing as an error
	if err != http.ErrServerClosed {
		return err
	}
	return nil
}

// gracefully shuts down the service without interrupting active connections
func (service *validationService) Shutdown(ctx context.Context) error {
	tasks.Stop()
	if service.Server != nil {
		return service.Server.Shutdown(ctx)
	}
	return nil
}

// closes down the service abruptly, freeing all resources
func (service *validationService) Close() {
	tasks.Stop()
	if service.Server != nil {
		service.Server.Close()
	}
}
