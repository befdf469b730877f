package service

import (
	"context"
	"fmt"
	"strings"

	"order-pipeline/internal/catalog"
	"order-pipeline/internal/models"
	"order-pipeline/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogClient resolves a numeric product id against the external catalog.
// A (nil, nil) return means the id is unknown to the catalog; a non-nil error
// means transport failure.
type CatalogClient interface {
	Product(ctx context.Context, productID string) (*catalog.Product, error)
}

// Enricher maps raw line items to catalog data
type Enricher struct {
	catalog CatalogClient
	logger  *zap.Logger
}

// NewEnricher creates a new enricher
func NewEnricher(catalogClient CatalogClient) *Enricher {
	return &Enricher{
		catalog: catalogClient,
		logger:  util.GetLogger(),
	}
}

// Enrich resolves each raw product against the catalog, sequentially and one
// call at a time. Entries with no derivable numeric key or unknown to the
// catalog are skipped and logged; transport failures abort the whole attempt
// so nothing is partially persisted. An order where no entry survives is a
// non-retryable failure.
func (e *Enricher) Enrich(ctx context.Context, orderID int64, products []models.OrderProduct) ([]models.EnrichedItem, error) {
	ctx, span := util.StartSpan(ctx, "Enricher.Enrich")
	defer span.End()

	enriched := make([]models.EnrichedItem, 0, len(products))

	for _, raw := range products {
		productID := numericKey(raw.SKU)
		if productID == "" {
			util.EnrichmentSkippedTotal.WithLabelValues("unresolvable_sku").Inc()
			e.logger.Info("Skipping product with no numeric key",
				zap.Int64("order_id", orderID),
				zap.String("sku", raw.SKU))
			continue
		}

		product, err := e.catalog.Product(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("catalog lookup failed for sku %q: %w", raw.SKU, err)
		}
		if product == nil {
			util.EnrichmentSkippedTotal.WithLabelValues("not_found").Inc()
			e.logger.Info("Skipping product unknown to catalog",
				zap.Int64("order_id", orderID),
				zap.String("sku", raw.SKU),
				zap.String("product_id", productID))
			continue
		}

		unitPrice, err := decimal.NewFromString(product.Price.String())
		if err != nil {
			return nil, nonRetryablef("invalid catalog price %q for sku %q", product.Price.String(), raw.SKU)
		}

		enriched = append(enriched, models.EnrichedItem{
			SKU:       raw.SKU,
			Cantidad:  raw.Cantidad,
			Title:     product.Title,
			Category:  product.Category,
			UnitPrice: unitPrice,
		})
	}

	if len(enriched) == 0 {
		return nil, nonRetryablef("no products could be enriched for order %d", orderID)
	}

	return enriched, nil
}

// numericKey strips every non-digit character from a sku
func numericKey(sku string) string {
	var b strings.Builder
	for _, r := range sku {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
