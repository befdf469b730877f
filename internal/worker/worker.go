package worker

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"order-pipeline/internal/broker"
	"order-pipeline/internal/models"
	"order-pipeline/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TaskProcessor runs one task attempt to completion. A nil return settles the
// attempt; a non-nil return marks it retryable.
type TaskProcessor interface {
	Process(ctx context.Context, taskID, taskName string, payload models.OrderPayload) error
}

// TaskPublisher republishes retry envelopes to the task queue
type TaskPublisher interface {
	PublishTask(ctx context.Context, env *models.TaskEnvelope) error
}

// OrderWorker consumes order task envelopes and applies the retry policy:
// retryable failures are republished as fresh attempts, up to a fixed budget
// with a fixed delay between attempts.
type OrderWorker struct {
	consumer   *broker.Consumer
	publisher  TaskPublisher
	processor  TaskProcessor
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	retries sync.WaitGroup
}

// NewOrderWorker creates a new order worker
func NewOrderWorker(
	consumer *broker.Consumer,
	publisher TaskPublisher,
	processor TaskProcessor,
	maxRetries int,
	retryDelay time.Duration,
) *OrderWorker {
	return &OrderWorker{
		consumer:   consumer,
		publisher:  publisher,
		processor:  processor,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     util.GetLogger(),
	}
}

// Start starts the worker
func (w *OrderWorker) Start(ctx context.Context) error {
	log.Println("Starting order worker...")
	return w.consumer.StartConsuming(ctx, w.HandleMessage)
}

// Stop waits for pending retry publishes and closes the consumer
func (w *OrderWorker) Stop() error {
	log.Println("Stopping order worker...")
	w.retries.Wait()
	return w.consumer.Close()
}

// HandleMessage processes one queue delivery. Messages are always settled
// here; failure state lives in the task history, not in consumer offsets.
func (w *OrderWorker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var env models.TaskEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		w.logger.Error("Dropping undecodable task message", zap.Error(err))
		return nil
	}

	if env.TaskName != models.TaskNameProcessOrder {
		w.logger.Warn("Dropping task with unknown name",
			zap.String("task_id", env.TaskID),
			zap.String("task_name", env.TaskName))
		return nil
	}

	err := w.processor.Process(ctx, env.TaskID, env.TaskName, env.Payload)
	if err == nil {
		return nil
	}

	if env.Attempt >= w.maxRetries {
		util.TasksExhaustedTotal.Inc()
		w.logger.Error("Task failed permanently, retry budget exhausted",
			zap.String("task_id", env.TaskID),
			zap.Int("attempt", env.Attempt),
			zap.Error(err))
		return nil
	}

	w.scheduleRetry(ctx, env, err)
	return nil
}

// scheduleRetry republishes the task as a fresh attempt after the retry
// delay. Each retry gets a new task id so every attempt has its own history
// row. A shutdown publishes the retry immediately rather than dropping it.
func (w *OrderWorker) scheduleRetry(ctx context.Context, env models.TaskEnvelope, cause error) {
	retry := env
	retry.TaskID = uuid.New().String()
	retry.Attempt = env.Attempt + 1
	retry.EnqueuedAt = time.Now()

	util.TaskRetriesTotal.Inc()
	w.logger.Warn("Scheduling task retry",
		zap.String("task_id", env.TaskID),
		zap.String("retry_task_id", retry.TaskID),
		zap.Int("attempt", retry.Attempt),
		zap.Duration("delay", w.retryDelay),
		zap.Error(cause))

	w.retries.Add(1)
	go func() {
		defer w.retries.Done()

		select {
		case <-time.After(w.retryDelay):
		case <-ctx.Done():
		}

		pubCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := w.publisher.PublishTask(pubCtx, &retry); err != nil {
			w.logger.Error("Failed to publish task retry",
				zap.String("retry_task_id", retry.TaskID),
				zap.Error(err))
		}
	}()
}
