package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// JobOutcome says how a failed job is reported to the engine.
type JobOutcome struct {
	Retry     bool
	Retries   int32
	BPMNError *BPMNError
}

type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Normalize returns the StandardError in err's chain, or wraps err as an
// internal error.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// Decide maps an error on job to a retry or a thrown BPMN error. A retry
// consumes one of the job's remaining retries; when none would remain the
// error is thrown instead so the process can route it.
func Decide(job entities.Job, err error) JobOutcome {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	remaining := job.Retries - 1
	if bpmnErr.Retries > 0 && remaining > 0 {
		if remaining > int32(bpmnErr.Retries) {
			remaining = int32(bpmnErr.Retries)
		}
		return JobOutcome{Retry: true, Retries: remaining, BPMNError: bpmnErr}
	}
	return JobOutcome{BPMNError: bpmnErr}
}

// HandleJobError reports err for job and returns what was decided.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) JobOutcome {
	outcome := Decide(job, err)
	h.logError(job, Normalize(err), outcome)

	var sendErr error
	if outcome.Retry {
		sendErr = h.failJob(ctx, client, job, outcome)
	} else {
		sendErr = h.throwBPMNError(ctx, client, job, outcome.BPMNError)
	}
	if sendErr != nil {
		h.logger.Error("failed to report job error", map[string]interface{}{
			"jobKey": job.Key,
			"error":  sendErr.Error(),
		})
	}
	return outcome
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, outcome JobOutcome) error {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(outcome.Retries).
		ErrorMessage(outcome.BPMNError.Message)

	if payload, err := json.Marshal(outcome.BPMNError.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(payload)); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if payload, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(payload)); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, outcome JobOutcome) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"message":          stdErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retry":            outcome.Retry,
		"retriesLeft":      outcome.Retries,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
