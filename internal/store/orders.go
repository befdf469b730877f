package store

import (
	"context"
	"database/sql"
	"fmt"

	"order-pipeline/internal/models"
)

// UpsertProcessedOrder inserts or overwrites the processed result for an
// order id. processed_at is set only on first insert; updated_at always
// reflects the latest successful run. Safe to call repeatedly with identical
// inputs.
func (s *Store) UpsertProcessedOrder(ctx context.Context, order *models.ProcessedOrder) (*models.ProcessedOrder, error) {
	query := `
		INSERT INTO processed_orders (id_pedido_original, hash_pedido, cliente, enriched_items, subtotal, descuento, total_final)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id_pedido_original) DO UPDATE SET
			hash_pedido = EXCLUDED.hash_pedido,
			cliente = EXCLUDED.cliente,
			enriched_items = EXCLUDED.enriched_items,
			subtotal = EXCLUDED.subtotal,
			descuento = EXCLUDED.descuento,
			total_final = EXCLUDED.total_final,
			updated_at = NOW()
		RETURNING *`

	var stored models.ProcessedOrder
	err := s.db.GetContext(ctx, &stored, query,
		order.IDPedidoOriginal, order.HashPedido, order.Cliente, order.EnrichedItems,
		order.Subtotal, order.Descuento, order.TotalFinal)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert processed order %d: %w", order.IDPedidoOriginal, err)
	}
	return &stored, nil
}

// GetProcessedOrder retrieves a processed order by original order id
func (s *Store) GetProcessedOrder(ctx context.Context, orderID int64) (*models.ProcessedOrder, error) {
	var order models.ProcessedOrder
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM processed_orders WHERE id_pedido_original = $1", orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("processed order not found: %d", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListProcessedOrders retrieves processed orders, optionally filtered by
// client name, newest first
func (s *Store) ListProcessedOrders(ctx context.Context, cliente string, limit int) ([]models.ProcessedOrder, error) {
	if limit <= 0 {
		limit = 50
	}

	var orders []models.ProcessedOrder
	var err error
	if cliente != "" {
		err = s.db.SelectContext(ctx, &orders,
			"SELECT * FROM processed_orders WHERE cliente = $1 ORDER BY updated_at DESC LIMIT $2",
			cliente, limit)
	} else {
		err = s.db.SelectContext(ctx, &orders,
			"SELECT * FROM processed_orders ORDER BY updated_at DESC LIMIT $1", limit)
	}
	return orders, err
}

// DeleteProcessedOrder removes a processed order. History rows referencing it
// keep existing with their order link nulled by the foreign key.
func (s *Store) DeleteProcessedOrder(ctx context.Context, orderID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM processed_orders WHERE id_pedido_original = $1", orderID)
	if err != nil {
		return fmt.Errorf("failed to delete processed order %d: %w", orderID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("processed order not found: %d", orderID)
	}
	return nil
}
