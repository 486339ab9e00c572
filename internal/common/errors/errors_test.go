package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobWithRetries(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "calculate-mentor-multiplier", Retries: retries}}
}

// ==========================
// StandardError
// ==========================

func TestStandardError_UnwrapAndMetadata(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := NewMentorProfileLookupFailedError("m-1", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, err.Retryable)
	assert.Equal(t, "m-1", err.Metadata["mentorId"])
	assert.Contains(t, err.Error(), string(ErrCodeMentorProfileLookupFailed))
}

func TestAsStandardError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("execute: %w", NewMentorNotFoundError("m-9"))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeMentorNotFound, stdErr.Code)

	_, ok = AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeMentorProfileLookupFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeTimeout))
	assert.Equal(t, 0, GetRetryCount(ErrCodePricingValidationFailed))
	assert.Equal(t, 0, GetRetryCount(ErrCodeMentorNotFound))
	assert.True(t, IsRetryableErrorCode(ErrCodeCacheUnavailable))
	assert.False(t, IsRetryableErrorCode(ErrCodeInternal))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodePricingValidationFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParseFailed))
	assert.Equal(t, "MENTOR_PROFILE", GetErrorCategory(ErrCodeMentorNotFound))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, "INFRASTRUCTURE", GetErrorCategory(ErrCodeTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

// ==========================
// BPMN conversion
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewPricingValidationFailedError(stderrors.New("mentorRating: must be between 0.0 and 5.0"))
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "PRICING_VALIDATION_FAILED", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)
	assert.False(t, bpmnErr.Retryable)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "PRICING_VALIDATION_FAILED", vars["errorCode"])
	assert.Equal(t, "VALIDATION", vars["errorCategory"])
	assert.Contains(t, vars["errorDetails"], "mentorRating")
}

func TestConvertToBPMNError_NonRetryableOverride(t *testing.T) {
	stdErr := NewExternalServiceError("zeebe", stderrors.New("bad request"))
	stdErr.Retryable = false

	assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
}

// ==========================
// Decide
// ==========================

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		jobRetries    int32
		err           error
		expectRetry   bool
		expectRetries int32
		expectCode    string
	}{
		{"retryable with budget", 3, NewMentorProfileLookupFailedError("m", stderrors.New("timeout")), true, 2, "MENTOR_PROFILE_LOOKUP_FAILED"},
		{"retryable capped by code budget", 10, NewTimeoutError("postgres", stderrors.New("deadline")), true, 2, "TIMEOUT_ERROR"},
		{"last retry throws", 1, NewMentorProfileLookupFailedError("m", stderrors.New("timeout")), false, 0, "MENTOR_PROFILE_LOOKUP_FAILED"},
		{"business error throws", 3, NewMentorNotFoundError("m"), false, 0, "MENTOR_NOT_FOUND"},
		{"plain error is internal", 3, stderrors.New("nil pointer"), false, 0, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Decide(jobWithRetries(tt.jobRetries), tt.err)

			assert.Equal(t, tt.expectRetry, outcome.Retry)
			assert.Equal(t, tt.expectRetries, outcome.Retries)
			require.NotNil(t, outcome.BPMNError)
			assert.Equal(t, tt.expectCode, outcome.BPMNError.Code)
		})
	}
}
