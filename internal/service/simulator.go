package service

import (
	"context"
	"math/rand"
	"time"

	"order-pipeline/internal/models"
	"order-pipeline/internal/util"

	"go.uber.org/zap"
)

// Sample data sources for simulated orders
var (
	sampleClients = []string{"ACME Corp", "Stark Industries", "Wayne Enterprises", "Cyberdyne Systems", "OsCorp"}
	validSKUs     = []string{"P001", "P002", "P003", "P004", "P008", "P015", "P020"}
	invalidSKUs   = []string{"P999", "P888", "INVALID_SKU"}
)

// Simulator generates randomized sample orders and enqueues them, exercising
// the happy path as well as the validation and enrichment failure branches.
type Simulator struct {
	submitter *Submitter
	logger    *zap.Logger
}

// NewSimulator creates a new simulator
func NewSimulator(submitter *Submitter) *Simulator {
	return &Simulator{
		submitter: submitter,
		logger:    util.GetLogger(),
	}
}

// GenerateBatch builds and enqueues count randomized order payloads. Roughly
// 20% of skus are unknown to the catalog, and every fifth order gets an empty
// product list to hit the validation stage. Order ids derive from the current
// time in milliseconds so repeated batches stay unique.
func (s *Simulator) GenerateBatch(ctx context.Context, count int) ([]int64, error) {
	enqueued := make([]int64, 0, count)

	for i := 0; i < count; i++ {
		orderID := time.Now().UnixMilli() + int64(i)
		cliente := sampleClients[rand.Intn(len(sampleClients))]

		numProducts := 1 + rand.Intn(3)
		productos := make([]models.OrderProduct, 0, numProducts)
		for j := 0; j < numProducts; j++ {
			sku := validSKUs[rand.Intn(len(validSKUs))]
			if rand.Float64() >= 0.8 {
				sku = invalidSKUs[rand.Intn(len(invalidSKUs))]
			}
			productos = append(productos, models.OrderProduct{
				SKU:      sku,
				Cantidad: 1 + rand.Intn(5),
			})
		}

		if i%5 == 0 {
			productos = []models.OrderProduct{}
		}

		id := orderID
		name := cliente
		payload := models.OrderPayload{
			ID:        &id,
			Cliente:   &name,
			Productos: productos,
		}

		if _, err := s.submitter.Submit(ctx, payload); err != nil {
			return enqueued, err
		}
		enqueued = append(enqueued, orderID)
	}

	s.logger.Info("Simulated order batch enqueued", zap.Int("count", len(enqueued)))
	return enqueued, nil
}
