package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"order-pipeline/internal/models"
)

// TaskPublisher publishes task envelopes to the order task topic
type TaskPublisher struct {
	producer *Producer
}

// NewTaskPublisher creates a new task publisher
func NewTaskPublisher(producer *Producer) *TaskPublisher {
	return &TaskPublisher{producer: producer}
}

// PublishTask publishes one task envelope, keyed by order id so attempts for
// the same order land on the same partition. Envelopes without an order id
// fall back to the task id as key.
func (tp *TaskPublisher) PublishTask(ctx context.Context, env *models.TaskEnvelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal task envelope: %w", err)
	}

	key := env.TaskID
	if env.Payload.ID != nil {
		key = fmt.Sprintf("order-%d", *env.Payload.ID)
	}

	if err := tp.producer.Publish(ctx, []byte(key), value); err != nil {
		return fmt.Errorf("failed to publish task %s: %w", env.TaskID, err)
	}

	log.Printf("Published task: id=%s, attempt=%d, key=%s", env.TaskID, env.Attempt, key)
	return nil
}
