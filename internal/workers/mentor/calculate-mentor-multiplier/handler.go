// internal/workers/mentor/calculate-mentor-multiplier/handler.go
package calculatementormultiplier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "mentor-pricing-workers/internal/common/errors"
	"mentor-pricing-workers/internal/common/logger"
	"mentor-pricing-workers/internal/common/metrics"
	"mentor-pricing-workers/internal/common/observability"
	"mentor-pricing-workers/internal/mentor"
	"mentor-pricing-workers/internal/pricing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-mentor-multiplier"

	ModePermissive = "permissive"
	ModeStrict     = "strict"
)

var (
	ErrInvalidInput     = errors.New("INVALID_INPUT")
	ErrValidationFailed = errors.New("PRICING_VALIDATION_FAILED")
)

type Handler struct {
	config   *Config
	profiles mentor.ProfileSource
	errors   *apperrors.ErrorHandler
	obs      *observability.Observability
	logger   logger.Logger
}

// NewHandler builds the handler. profiles may be nil when only inline
// attributes are expected; obs may be nil.
func NewHandler(config *Config, profiles mentor.ProfileSource, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		profiles: profiles,
		errors:   apperrors.NewErrorHandler(log),
		obs:      obs,
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(client, job, apperrors.NewInputParseFailedError(err), start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(client, job, h.classify(ctx, &input, err), start)
		return
	}

	h.completeJob(client, job, output, start)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	attrs, err := h.resolveAttributes(ctx, input)
	if err != nil {
		return nil, err
	}

	mode := ModePermissive
	var result pricing.Result
	if h.config.StrictValidation {
		mode = ModeStrict
		result, err = h.calculateStrict(input, attrs)
		if err != nil {
			return nil, err
		}
	} else {
		result = pricing.Calculate(attrs)
	}

	h.logger.Debug("mentor priced", map[string]interface{}{
		"mentorId":           input.MentorID,
		"totalWeightedScore": result.TotalWeightedScore,
		"multiplier":         result.Multiplier,
		"finalPrice":         result.FinalPrice,
		"pricingMode":        mode,
	})

	return &Output{
		MentorID:    input.MentorID,
		Result:      result,
		PricingMode: mode,
		Breakdown:   result.Breakdown(),
	}, nil
}

// Inline attributes take precedence over a profile lookup.
func (h *Handler) resolveAttributes(ctx context.Context, input *Input) (pricing.Attributes, error) {
	if input.Attributes != nil {
		return *input.Attributes, nil
	}
	if input.MentorID == "" {
		return pricing.Attributes{}, fmt.Errorf("%w: either attributes or mentorId is required", ErrInvalidInput)
	}
	if h.profiles == nil {
		return pricing.Attributes{}, fmt.Errorf("%w: mentor profile lookup is not configured", ErrInvalidInput)
	}
	return h.profiles.Get(ctx, input.MentorID)
}

func (h *Handler) calculateStrict(input *Input, attrs pricing.Attributes) (pricing.Result, error) {
	if h.config.InputSchema != nil {
		doc := Input{MentorID: input.MentorID, Attributes: &attrs}
		res, err := h.config.InputSchema.Validate(doc)
		if err != nil {
			return pricing.Result{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		if err := res.Err(); err != nil {
			return pricing.Result{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
	}

	result, err := pricing.CalculateStrict(attrs)
	if err != nil {
		return pricing.Result{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return result, nil
}

func (h *Handler) classify(ctx context.Context, input *Input, err error) error {
	switch {
	case errors.Is(err, mentor.ErrMentorNotFound):
		return apperrors.NewMentorNotFoundError(input.MentorID)
	case errors.Is(err, mentor.ErrLookupFailed):
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return apperrors.NewTimeoutError("mentor-profile-store", err).WithMetadata("mentorId", input.MentorID)
		}
		return apperrors.NewMentorProfileLookupFailedError(input.MentorID, err)
	case errors.Is(err, ErrValidationFailed):
		return apperrors.NewPricingValidationFailedError(err)
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	}
	return err
}

func (h *Handler) fail(client worker.JobClient, job entities.Job, err error, start time.Time) {
	ctx := context.Background()
	outcome := h.errors.HandleJobError(ctx, client, job, err)

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, outcome.BPMNError.Code).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	ctx := context.Background()
	capped := output.Multiplier >= pricing.MaxMultiplier

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.ObserveQuote(output.PricingMode, output.Multiplier, output.FinalPrice, capped)
	h.obs.RecordQuote(ctx, output.PricingMode, capped)
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"multiplier": output.Multiplier,
		"finalPrice": output.FinalPrice,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
