package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"order-pipeline/internal/models"
)

const errorMessageLimit = 500

// RecordStart creates the STARTED history row for a task attempt, or resets
// an existing row when the queue redelivers the same attempt id. Any prior
// end time, error, hostname or order link is cleared.
func (s *Store) RecordStart(ctx context.Context, taskID, taskName string) error {
	query := `
		INSERT INTO task_history (task_id, task_name, status, start_time)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (task_id) DO UPDATE SET
			task_name = EXCLUDED.task_name,
			status = EXCLUDED.status,
			start_time = NOW(),
			end_time = NULL,
			error_message = NULL,
			worker_hostname = NULL,
			order_id = NULL`

	if _, err := s.db.ExecContext(ctx, query, taskID, taskName, models.TaskStatusStarted); err != nil {
		return fmt.Errorf("failed to record task start %s: %w", taskID, err)
	}
	return nil
}

// RecordFinish closes a history row: end time, final status, truncated error
// message, the order link on success, and the worker hostname queried from
// this process at completion time. Caller-supplied task metadata is never
// trusted for the hostname. Finishing an unknown task id is a silent no-op.
func (s *Store) RecordFinish(ctx context.Context, taskID, status, errorMessage string, orderID *int64) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	var errMsg *string
	if errorMessage != "" {
		truncated := truncate(errorMessage, errorMessageLimit)
		errMsg = &truncated
	}

	query := `
		UPDATE task_history
		SET status = $2, end_time = NOW(), error_message = $3, worker_hostname = $4, order_id = $5
		WHERE task_id = $1`

	if _, err := s.db.ExecContext(ctx, query, taskID, status, errMsg, hostname, orderID); err != nil {
		return fmt.Errorf("failed to record task finish %s: %w", taskID, err)
	}
	return nil
}

// GetTaskHistory retrieves one history entry by task id
func (s *Store) GetTaskHistory(ctx context.Context, taskID string) (*models.TaskHistory, error) {
	var entry models.TaskHistory
	err := s.db.GetContext(ctx, &entry,
		"SELECT * FROM task_history WHERE task_id = $1", taskID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task history not found: %s", taskID)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListTaskHistory retrieves history entries, optionally filtered by status
// and task name, most recent first
func (s *Store) ListTaskHistory(ctx context.Context, status, taskName string, limit int) ([]models.TaskHistory, error) {
	if limit <= 0 {
		limit = 50
	}

	query := "SELECT * FROM task_history WHERE 1=1"
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if taskName != "" {
		args = append(args, taskName)
		query += fmt.Sprintf(" AND task_name = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY start_time DESC LIMIT $%d", len(args))

	var entries []models.TaskHistory
	err := s.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
