package service

import (
	"context"
	"fmt"
	"time"

	"order-pipeline/internal/models"
	"order-pipeline/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskPublisher enqueues a task envelope for asynchronous execution
type TaskPublisher interface {
	PublishTask(ctx context.Context, env *models.TaskEnvelope) error
}

// Submitter turns raw order payloads into queued task attempts
type Submitter struct {
	publisher TaskPublisher
	logger    *zap.Logger
}

// NewSubmitter creates a new submitter
func NewSubmitter(publisher TaskPublisher) *Submitter {
	return &Submitter{
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Submit enqueues one order payload and returns the task id of the first
// attempt. The caller never blocks for pipeline completion; validation and
// failure handling happen inside the worker.
func (s *Submitter) Submit(ctx context.Context, payload models.OrderPayload) (string, error) {
	env := &models.TaskEnvelope{
		TaskID:     uuid.New().String(),
		TaskName:   models.TaskNameProcessOrder,
		Attempt:    0,
		EnqueuedAt: time.Now(),
		Payload:    payload,
	}

	if err := s.publisher.PublishTask(ctx, env); err != nil {
		return "", fmt.Errorf("failed to enqueue order task: %w", err)
	}

	util.TasksSubmittedTotal.Inc()
	s.logger.Info("Order task enqueued",
		zap.String("task_id", env.TaskID),
		zap.Any("order_id", payload.ID))
	return env.TaskID, nil
}
