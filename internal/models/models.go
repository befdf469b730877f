package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPayload is the raw order as submitted to the queue. ID and Cliente are
// pointers so a missing key can be told apart from a zero value; a missing
// "productos" key decodes to a nil slice.
type OrderPayload struct {
	ID        *int64         `json:"id"`
	Cliente   *string        `json:"cliente"`
	Productos []OrderProduct `json:"productos"`
}

// OrderProduct is a single raw line item in an order payload.
type OrderProduct struct {
	SKU      string `json:"sku"`
	Cantidad int    `json:"cantidad"`
}

// EnrichedItem is a line item after catalog lookup. UnitPrice carries the
// catalog price as an exact decimal, never round-tripped through float64.
type EnrichedItem struct {
	SKU       string          `json:"sku"`
	Cantidad  int             `json:"cantidad"`
	Title     string          `json:"title"`
	Category  string          `json:"category,omitempty"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
}

// ProcessedOrder is the persisted result of a successful pipeline run, one row
// per original order id. Re-runs overwrite all derived fields; ProcessedAt is
// set once at first insert, UpdatedAt tracks the latest successful run.
type ProcessedOrder struct {
	IDPedidoOriginal int64           `db:"id_pedido_original" json:"id_pedido_original"`
	HashPedido       string          `db:"hash_pedido" json:"hash_pedido"`
	Cliente          string          `db:"cliente" json:"cliente"`
	EnrichedItems    []byte          `db:"enriched_items" json:"-"`
	Subtotal         decimal.Decimal `db:"subtotal" json:"subtotal"`
	Descuento        decimal.Decimal `db:"descuento" json:"descuento"`
	TotalFinal       decimal.Decimal `db:"total_final" json:"total_final"`
	ProcessedAt      time.Time       `db:"processed_at" json:"processed_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// Task history statuses
const (
	TaskStatusStarted = "STARTED"
	TaskStatusSuccess = "SUCCESS"
	TaskStatusError   = "ERROR"
)

// TaskHistory is the audit record for one task attempt. EndTime, ErrorMessage,
// WorkerHostname and OrderID stay null until the attempt finishes; OrderID is
// a weak reference that is nulled (not cascaded) when the order is deleted.
type TaskHistory struct {
	TaskID         string     `db:"task_id" json:"task_id"`
	TaskName       string     `db:"task_name" json:"task_name"`
	Status         string     `db:"status" json:"status"`
	StartTime      time.Time  `db:"start_time" json:"start_time"`
	EndTime        *time.Time `db:"end_time" json:"end_time,omitempty"`
	ErrorMessage   *string    `db:"error_message" json:"error_message,omitempty"`
	WorkerHostname *string    `db:"worker_hostname" json:"worker_hostname,omitempty"`
	OrderID        *int64     `db:"order_id" json:"order_id,omitempty"`
}
