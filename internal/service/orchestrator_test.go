package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"order-pipeline/internal/catalog"
	"order-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	stored  map[int64]*models.ProcessedOrder
	err     error
	upserts int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{stored: make(map[int64]*models.ProcessedOrder)}
}

func (f *fakeOrders) UpsertProcessedOrder(ctx context.Context, order *models.ProcessedOrder) (*models.ProcessedOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.upserts++
	f.stored[order.IDPedidoOriginal] = order
	return order, nil
}

type finishCall struct {
	status  string
	errMsg  string
	orderID *int64
}

type fakeHistory struct {
	starts   []string
	finishes map[string][]finishCall
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{finishes: make(map[string][]finishCall)}
}

func (f *fakeHistory) RecordStart(ctx context.Context, taskID, taskName string) error {
	f.starts = append(f.starts, taskID)
	return nil
}

func (f *fakeHistory) RecordFinish(ctx context.Context, taskID, status, errorMessage string, orderID *int64) error {
	f.finishes[taskID] = append(f.finishes[taskID], finishCall{status: status, errMsg: errorMessage, orderID: orderID})
	return nil
}

func payloadFor(id int64, cliente string, productos []models.OrderProduct) models.OrderPayload {
	return models.OrderPayload{ID: &id, Cliente: &cliente, Productos: productos}
}

func newTestOrchestrator(cat CatalogClient, orders *fakeOrders, history *fakeHistory) *Orchestrator {
	return NewOrchestrator(NewEnricher(cat), orders, history)
}

func TestProcessSuccess(t *testing.T) {
	cat := &fakeCatalog{products: map[string]*catalog.Product{
		"001": {Title: "Chair", Price: json.Number("10.00")},
		"002": {Title: "Table", Price: json.Number("20.00")},
	}}
	orders := newFakeOrders()
	history := newFakeHistory()
	o := newTestOrchestrator(cat, orders, history)

	payload := payloadFor(123, "ACME Corp", []models.OrderProduct{
		{SKU: "P001", Cantidad: 3},
		{SKU: "P002", Cantidad: 5},
	})

	err := o.Process(context.Background(), "task-1", models.TaskNameProcessOrder, payload)
	require.NoError(t, err)

	require.Contains(t, orders.stored, int64(123))
	stored := orders.stored[123]
	assert.Equal(t, "130.00", stored.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", stored.Descuento.StringFixed(2))
	assert.Equal(t, "130.00", stored.TotalFinal.StringFixed(2))
	assert.Equal(t, "ACME Corp", stored.Cliente)
	assert.Len(t, stored.HashPedido, 64)

	require.Len(t, history.finishes["task-1"], 1, "finish must run exactly once")
	finish := history.finishes["task-1"][0]
	assert.Equal(t, models.TaskStatusSuccess, finish.status)
	require.NotNil(t, finish.orderID)
	assert.Equal(t, int64(123), *finish.orderID)
}

func TestProcessInvalidPayloadTerminatesWithoutRetry(t *testing.T) {
	cat := &fakeCatalog{}
	orders := newFakeOrders()
	history := newFakeHistory()
	o := newTestOrchestrator(cat, orders, history)

	payload := payloadFor(999, "Error Corp", []models.OrderProduct{})

	err := o.Process(context.Background(), "task-2", models.TaskNameProcessOrder, payload)
	assert.NoError(t, err, "non-retryable failures must not cross the orchestrator boundary")

	assert.Zero(t, orders.upserts, "nothing may be persisted for an invalid payload")
	require.Len(t, history.finishes["task-2"], 1)
	finish := history.finishes["task-2"][0]
	assert.Equal(t, models.TaskStatusError, finish.status)
	assert.Contains(t, finish.errMsg, "empty product list")
	assert.Nil(t, finish.orderID, "the order link stays null on failure")
}

func TestProcessUnresolvableOrderTerminatesWithoutRetry(t *testing.T) {
	cat := &fakeCatalog{products: map[string]*catalog.Product{}}
	orders := newFakeOrders()
	history := newFakeHistory()
	o := newTestOrchestrator(cat, orders, history)

	payload := payloadFor(321, "ACME Corp", []models.OrderProduct{{SKU: "P999", Cantidad: 1}})

	err := o.Process(context.Background(), "task-3", models.TaskNameProcessOrder, payload)
	assert.NoError(t, err)
	assert.Zero(t, orders.upserts)

	require.Len(t, history.finishes["task-3"], 1)
	assert.Equal(t, models.TaskStatusError, history.finishes["task-3"][0].status)
}

func TestProcessTransportFailurePropagatesForRetry(t *testing.T) {
	cat := &fakeCatalog{err: errors.New("dial tcp: connection refused")}
	orders := newFakeOrders()
	history := newFakeHistory()
	o := newTestOrchestrator(cat, orders, history)

	payload := payloadFor(123, "ACME Corp", []models.OrderProduct{{SKU: "P001", Cantidad: 1}})

	err := o.Process(context.Background(), "task-4", models.TaskNameProcessOrder, payload)
	require.Error(t, err, "transport failures must cross the boundary to trigger a retry")
	assert.False(t, IsNonRetryable(err))

	assert.Zero(t, orders.upserts, "a failed attempt never partially persists")
	require.Len(t, history.finishes["task-4"], 1, "finish still runs exactly once on the retry path")
	assert.Equal(t, models.TaskStatusError, history.finishes["task-4"][0].status)
}

func TestProcessPersistenceFailurePropagatesForRetry(t *testing.T) {
	cat := &fakeCatalog{products: map[string]*catalog.Product{
		"001": {Title: "Chair", Price: json.Number("10.00")},
	}}
	orders := newFakeOrders()
	orders.err = errors.New("pq: connection reset by peer")
	history := newFakeHistory()
	o := newTestOrchestrator(cat, orders, history)

	payload := payloadFor(123, "ACME Corp", []models.OrderProduct{{SKU: "P001", Cantidad: 1}})

	err := o.Process(context.Background(), "task-5", models.TaskNameProcessOrder, payload)
	require.Error(t, err)
	assert.False(t, IsNonRetryable(err))
}

func TestProcessRecordsStartBeforeFinish(t *testing.T) {
	cat := &fakeCatalog{products: map[string]*catalog.Product{
		"001": {Title: "Chair", Price: json.Number("10.00")},
	}}
	orders := newFakeOrders()
	history := newFakeHistory()
	o := newTestOrchestrator(cat, orders, history)

	payload := payloadFor(7, "OsCorp", []models.OrderProduct{{SKU: "P001", Cantidad: 1}})

	require.NoError(t, o.Process(context.Background(), "task-6", models.TaskNameProcessOrder, payload))
	assert.Equal(t, []string{"task-6"}, history.starts)
	assert.Len(t, history.finishes["task-6"], 1)
}
