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

// The task manager drives submission tasks through their stages (validate,
// package, submit batch by batch) on a polling heartbeat. Task state lives in
// memory only: completed tasks are purged after a configured retention
// period, and a restart forgets everything that hadn't completed.
package tasks

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nfdi4microbiota/mvs/catalog"
	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/ontology"
	"github.com/nfdi4microbiota/mvs/ontology/local"
	"github.com/nfdi4microbiota/mvs/ontology/ols"
	"github.com/nfdi4microbiota/mvs/submission"
	"github.com/nfdi4microbiota/mvs/validation"
)

// starts processing submission tasks according to the given configuration,
// returning an informative error if anything prevents this
func Start() error {
	if running {
		return &AlreadyRunningError{}
	}

	// if this is the first call to Start(), register our built-in ontology
	// resolver providers
	if firstCall {
		// NOTE: it's okay if these providers have already been registered,
		// NOTE: as they can be used in testing
		err := ontology.RegisterProvider("ols", ols.NewResolver)
		if err == nil {
			err = ontology.RegisterProvider("local", local.NewResolver)
		}
		if err != nil {
			if _, matches := err.(*ontology.AlreadyRegisteredError); !matches {
				return err
			}
		}
		firstCall = false
	}

	// does the data directory exist, and is it writable/readable?
	err := validateDirectory("data", config.Service.DataDirectory)
	if err != nil {
		return err
	}

	// load the term catalog and stand up the validation machinery
	cat, err := catalog.Load(config.Catalog.Path)
	if err != nil {
		return err
	}
	taskEngine, err = validation.NewEngine(cat)
	if err != nil {
		return err
	}
	taskPackager = submission.NewPackager(cat, config.Service.DataDirectory)
	taskClient = submission.NewClient()

	// allocate channels
	taskChannels = channelsType{
		CreateTask:       make(chan submissionTask, 32),
		CancelTask:       make(chan uuid.UUID, 32),
		GetTaskStatus:    make(chan uuid.UUID, 32),
		ReturnTaskId:     make(chan uuid.UUID, 32),
		ReturnTaskStatus: make(chan SubmissionStatus, 32),
		Error:            make(chan error, 32),
		Poll:             make(chan struct{}),
		Stop:             make(chan struct{}),
	}

	// start processing tasks
	go processTasks()

	// start the polling heartbeat
	slog.Info(fmt.Sprintf("Task statuses are updated every %d ms",
		config.Service.PollInterval))
	pollInterval := time.Duration(config.Service.PollInterval) * time.Millisecond
	go heartbeat(pollInterval, taskChannels.Poll)

	// okay, we're running now
	running = true

	return nil
}

// Stops processing tasks. Adding new tasks and requesting task statuses are
// disallowed in a stopped state.
func Stop() error {
	var err error
	if running {
		taskChannels.Stop <- struct{}{}
		err = <-taskChannels.Error
		running = false
	} else {
		err = &NotRunningError{}
	}
	return err
}

// Returns true if tasks are currently being processed, false if not.
func Running() bool {
	return running
}

// this type holds a specification used to create a valid submission task
type Specification struct {
	// the study the records belong to (registered with the first batch if it
	// has no accession yet)
	Project submission.ProjectInfo
	// the metadata records to validate and submit, one per sample
	Records []validation.Record
}

// Creates a new submission task for the given records, returning a UUID for
// the task. The records are validated, packaged, and submitted batch by batch
// as the manager polls; Status() reports progress and, eventually, the
// archive's accessions (or the validation reports that got in the way).
func Create(spec Specification) (uuid.UUID, error) {
	var taskId uuid.UUID

	// have we been given records to submit?
	if len(spec.Records) == 0 {
		return taskId, &NoRecordsRequestedError{}
	}

	// create a new task and send it along for processing
	taskChannels.CreateTask <- submissionTask{
		Project: spec.Project,
		Records: spec.Records,
	}
	var err error
	select {
	case taskId = <-taskChannels.ReturnTaskId:
	case err = <-taskChannels.Error:
	}
	return taskId, err
}

// Given a task UUID, returns its submission status (or a non-nil error
// indicating any issues encountered).
func Status(taskId uuid.UUID) (SubmissionStatus, error) {
	var status SubmissionStatus
	var err error
	taskChannels.GetTaskStatus <- taskId
	select {
	case status = <-taskChannels.ReturnTaskStatus:
	case err = <-taskChannels.Error:
	}
	return status, err
}

// Requests that the task with the given UUID be canceled. Clients should check
// the status of the task separately.
func Cancel(taskId uuid.UUID) error {
	var err error
	taskChannels.CancelTask <- taskId
	select { // default block provides non-blocking error check
	case err = <-taskChannels.Error:
	default:
	}
	return err
}

//-----------
// Internals
//-----------

// global variables for managing tasks
var firstCall = true          // indicates first call to Start()
var running bool              // true if tasks are processing, false if not
var taskChannels channelsType // channels used for processing tasks

// process-wide validation/submission machinery, built by Start()
var taskEngine *validation.Engine
var taskPackager *submission.Packager
var taskClient *submission.Client

// this type holds various channels used by the task manager to communicate
// with its worker goroutine
type channelsType struct {
	CreateTask       chan submissionTask   // used by client to request task creation
	CancelTask       chan uuid.UUID        // used by client to request task cancellation
	GetTaskStatus    chan uuid.UUID        // used by client to request task status
	ReturnTaskId     chan uuid.UUID        // returns task ID to client
	ReturnTaskStatus chan SubmissionStatus // returns task status to client
	Error            chan error            // returns error to client
	Poll             chan struct{}         // carries heartbeat signal for task updates
	Stop             chan struct{}         // used by client to stop task management
}

// this function runs in its own goroutine, tending the in-memory task table
// and using the task channels to communicate with the main thread
func processTasks() {
	tasks := make(map[uuid.UUID]submissionTask)

	// parse the task channels into directional types as needed
	var createTaskChan <-chan submissionTask = taskChannels.CreateTask
	var cancelTaskChan <-chan uuid.UUID = taskChannels.CancelTask
	var getTaskStatusChan <-chan uuid.UUID = taskChannels.GetTaskStatus
	var returnTaskIdChan chan<- uuid.UUID = taskChannels.ReturnTaskId
	var returnTaskStatusChan chan<- SubmissionStatus = taskChannels.ReturnTaskStatus
	var errorChan chan<- error = taskChannels.Error
	var pollChan <-chan struct{} = taskChannels.Poll
	var stopChan <-chan struct{} = taskChannels.Stop

	// the task deletion period is specified in seconds
	deleteAfter := time.Duration(config.Service.DeleteAfter) * time.Second

	// start scurrying around
	running := true
	for running {
		select {
		case newTask := <-createTaskChan: // Create() called
			newTask.Id = uuid.New()
			newTask.DataDirectory = config.Service.DataDirectory
			tasks[newTask.Id] = newTask
			returnTaskIdChan <- newTask.Id
			slog.Info(fmt.Sprintf("Created new submission task %s (%d record(s))",
				newTask.Id.String(), len(newTask.Records)))
		case taskId := <-cancelTaskChan: // Cancel() called
			if task, found := tasks[taskId]; found {
				slog.Info(fmt.Sprintf("Task %s: received cancellation request",
					taskId.String()))
				task.cancel()
				tasks[task.Id] = task
			} else {
				errorChan <- &NotFoundError{Id: taskId}
			}
		case taskId := <-getTaskStatusChan: // Status() called
			if task, found := tasks[taskId]; found {
				returnTaskStatusChan <- task.Status
			} else {
				errorChan <- &NotFoundError{Id: taskId}
			}
		case <-pollChan: // time to move things along
			for taskId, task := range tasks {
				if !task.Completed() {
					oldStatus := task.Status
					err := task.update(context.Background(), taskEngine,
						taskPackager, taskClient)
					if err != nil {
						// We log task update errors but do not propagate them.
						// All task errors result in a failed status.
						task.Status.Code = StatusFailed
						task.Status.Message = err.Error()
						task.CompletionTime = time.Now()
						slog.Error(fmt.Sprintf("Task %s: %s", task.Id.String(), err.Error()))
					}
					if task.Status.Code != oldStatus.Code {
						switch task.Status.Code {
						case StatusValidating:
							slog.Info(fmt.Sprintf("Task %s: validating %d record(s)",
								task.Id.String(), len(task.Records)))
						case StatusRejected:
							slog.Info(fmt.Sprintf("Task %s: rejected (%s)",
								task.Id.String(), task.Status.Message))
						case StatusSubmitting:
							slog.Info(fmt.Sprintf("Task %s: submitting %d batch(es)",
								task.Id.String(), task.Status.TotalBatches))
						case StatusSucceeded:
							slog.Info(fmt.Sprintf("Task %s: completed successfully",
								task.Id.String()))
						case StatusFailed:
							slog.Info(fmt.Sprintf("Task %s: failed", task.Id.String()))
						}
					}
				}

				// if the task completed a long enough time ago, delete its entry
				if task.Age() > deleteAfter {
					slog.Debug(fmt.Sprintf("Task %s: purging submission record",
						task.Id.String()))
					delete(tasks, taskId)
				} else { // update its entry
					tasks[taskId] = task
				}
			}
		case <-stopChan: // Stop() called
			errorChan <- nil
			running = false
		}
	}
}

// this function sends a regular pulse on its poll channel until the global
// variable running is found to be false
func heartbeat(pollInterval time.Duration, pollChan chan<- struct{}) {
	for {
		time.Sleep(pollInterval)
		pollChan <- struct{}{}
		if !running {
			break
		}
	}
}

// this function checks for the existence of the data directory and whether it
// is readable/writeable, returning a non-nil error if any of these conditions
// are not met
func validateDirectory(dirType, dir string) error {
	if dir == "" {
		return fmt.Errorf("no %s directory was specified!", dirType)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{
			Op:   "validateDirectory",
			Path: dir,
			Err:  fmt.Errorf("%s is not a valid %s directory!", dir, dirType),
		}
	}

	// can we write a file and read it?
	testFile := filepath.Join(dir, "test.txt")
	writtenTestData := []byte("test")
	err = os.WriteFile(testFile, writtenTestData, 0644)
	if err != nil {
		return &os.PathError{
			Op:   "validateDirectory",
			Path: dir,
			Err:  fmt.Errorf("Could not write to %s directory %s!", dirType, dir),
		}
	}
	readTestData, err := os.ReadFile(testFile)
	if err == nil {
		os.Remove(testFile)
	}
	if err != nil || !bytes.Equal(readTestData, writtenTestData) {
		return &os.PathError{
			Op:   "validateDirectory",
			Path: dir,
			Err:  fmt.Errorf("Could not read from %s directory %s!", dirType, dir),
		}
	}
	return nil
}
