package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"order-pipeline/internal/models"
	"order-pipeline/internal/util"

	"go.uber.org/zap"
)

// OrderUpserter persists the final processed order, keyed by original order id
type OrderUpserter interface {
	UpsertProcessedOrder(ctx context.Context, order *models.ProcessedOrder) (*models.ProcessedOrder, error)
}

// HistoryRecorder tracks the lifecycle of a task attempt. RecordFinish must be
// a silent no-op when the task id is unknown.
type HistoryRecorder interface {
	RecordStart(ctx context.Context, taskID, taskName string) error
	RecordFinish(ctx context.Context, taskID, status, errorMessage string, orderID *int64) error
}

// Orchestrator sequences one order payload through the full pipeline:
// validate, enrich, price, hash, upsert, with the attempt's history recorded
// around it. Non-retryable failures are absorbed here; only retryable errors
// escape Process so the queue can re-invoke the whole pipeline.
type Orchestrator struct {
	enricher *Enricher
	orders   OrderUpserter
	history  HistoryRecorder
	logger   *zap.Logger
}

// NewOrchestrator creates a new task orchestrator
func NewOrchestrator(enricher *Enricher, orders OrderUpserter, history HistoryRecorder) *Orchestrator {
	return &Orchestrator{
		enricher: enricher,
		orders:   orders,
		history:  history,
		logger:   util.GetLogger(),
	}
}

// Process runs a single task attempt. RecordStart strictly precedes all stage
// execution and RecordFinish runs exactly once per attempt regardless of
// which branch was taken. A nil return means the attempt is settled, either
// successfully or terminally; a non-nil return asks the queue to retry.
func (o *Orchestrator) Process(ctx context.Context, taskID, taskName string, payload models.OrderPayload) error {
	ctx, span := util.StartSpan(ctx, "Orchestrator.Process")
	defer span.End()

	start := time.Now()
	defer func() {
		util.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	if err := o.history.RecordStart(ctx, taskID, taskName); err != nil {
		return fmt.Errorf("failed to record task start: %w", err)
	}
	util.TasksStartedTotal.Inc()

	stored, runErr := o.run(ctx, payload)

	status := models.TaskStatusSuccess
	errorMessage := ""
	var orderID *int64
	if runErr != nil {
		status = models.TaskStatusError
		errorMessage = runErr.Error()
	} else if stored != nil {
		orderID = &stored.IDPedidoOriginal
	}

	if err := o.history.RecordFinish(ctx, taskID, status, errorMessage, orderID); err != nil {
		// The audit row must not take the pipeline down with it.
		o.logger.Error("Failed to record task finish",
			zap.String("task_id", taskID),
			zap.Error(err))
	}

	switch {
	case runErr == nil:
		util.TasksSucceededTotal.Inc()
		o.logger.Info("Order processed",
			zap.String("task_id", taskID),
			zap.Int64("order_id", stored.IDPedidoOriginal),
			zap.String("total_final", stored.TotalFinal.String()))
		return nil

	case IsNonRetryable(runErr):
		util.TasksFailedTotal.WithLabelValues("non_retryable").Inc()
		o.logger.Warn("Order task failed terminally",
			zap.String("task_id", taskID),
			zap.Error(runErr))
		return nil

	default:
		util.TasksFailedTotal.WithLabelValues("retryable").Inc()
		o.logger.Error("Order task failed, eligible for retry",
			zap.String("task_id", taskID),
			zap.Error(runErr))
		return runErr
	}
}

// run executes the pipeline stages. The store upsert is the last step, so a
// killed attempt never leaves a partially written order behind.
func (o *Orchestrator) run(ctx context.Context, payload models.OrderPayload) (*models.ProcessedOrder, error) {
	if err := ValidateOrderPayload(payload); err != nil {
		return nil, err
	}
	orderID := *payload.ID

	enriched, err := o.enricher.Enrich(ctx, orderID, payload.Productos)
	if err != nil {
		return nil, err
	}

	pricing := ComputePricing(enriched)

	hash, err := Fingerprint(payload, enriched)
	if err != nil {
		return nil, nonRetryablef("failed to fingerprint order %d: %v", orderID, err)
	}

	itemsJSON, err := json.Marshal(enriched)
	if err != nil {
		return nil, nonRetryablef("failed to serialize enriched items for order %d: %v", orderID, err)
	}

	stored, err := o.orders.UpsertProcessedOrder(ctx, &models.ProcessedOrder{
		IDPedidoOriginal: orderID,
		HashPedido:       hash,
		Cliente:          *payload.Cliente,
		EnrichedItems:    itemsJSON,
		Subtotal:         pricing.Subtotal,
		Descuento:        pricing.Descuento,
		TotalFinal:       pricing.TotalFinal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert processed order %d: %w", orderID, err)
	}

	util.OrdersUpsertedTotal.Inc()
	return stored, nil
}
