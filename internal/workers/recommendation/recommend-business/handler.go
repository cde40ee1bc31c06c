package recommendbusiness

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"business-recommender/internal/common/errors"
	"business-recommender/internal/common/logger"
	"business-recommender/internal/common/metrics"
	"business-recommender/internal/common/validation"
	"business-recommender/internal/service"
)

const TaskType = "recommend-business"

var (
	ErrInvalidInput = stderrors.New("INVALID_REQUEST")
	ErrDisabled     = stderrors.New("WORKER_DISABLED")
)

// Recommender is the part of the recommendation service the worker needs.
type Recommender interface {
	Recommend(ctx context.Context, req service.Request) (*service.Response, error)
}

type Handler struct {
	config       *Config
	service      Recommender
	schema       *validation.Schema
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, svc Recommender, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		service:      svc,
		schema:       validation.MustSchema(validation.RecommendationRequestSchema),
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return err
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return err
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	return nil
}

// Execute runs the recommendation for already parsed input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.Enabled {
		return nil, errors.NewInternalError(ErrDisabled)
	}

	resp, err := h.service.Recommend(ctx, service.Request{
		Profile:   input.Profile(),
		Algorithm: input.Algorithm,
		UserID:    input.UserID,
		K:         h.config.TopK,
		Source:    service.SourceWorker,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("recommendations computed", map[string]interface{}{
		"count":     len(resp.Recommendations),
		"algorithm": resp.Algorithm.Name,
		"fallback":  resp.Fallback,
	})

	return &Output{
		Recommendations: resp.Recommendations,
		Algorithm:       resp.Algorithm,
		Fallback:        resp.Fallback,
	}, nil
}

// parseInput validates the job variables against the request schema before
// decoding them.
func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("%v: %v", ErrInvalidInput, err))
	}

	if result := h.schema.ValidateInput(variables); !result.Valid {
		return nil, errors.NewInvalidRequestError(result.Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidRequestError(err.Error())
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	return nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := errors.AsStandardError(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
