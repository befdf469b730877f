package models

import "time"

// TaskNameProcessOrder is the single task type handled by the pipeline.
const TaskNameProcessOrder = "orders.process_order"

// TaskEnvelope is the unit of work published to the task queue. Attempt starts
// at 0; each retry is republished as a fresh envelope with a new TaskID and
// Attempt+1, so every attempt gets its own history row.
type TaskEnvelope struct {
	TaskID     string       `json:"task_id"`
	TaskName   string       `json:"task_name"`
	Attempt    int          `json:"attempt"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
	Payload    OrderPayload `json:"payload"`
}
