package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"order-pipeline/internal/redisclient"
	"order-pipeline/internal/util"

	"go.uber.org/zap"
)

// Product is the catalog's view of a product. Price stays a json.Number so
// the decimal string from the catalog is never coerced through float64.
type Product struct {
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Category string      `json:"category,omitempty"`
}

// Client wraps the external product catalog API
type Client struct {
	baseURL  string
	http     *http.Client
	cache    *redisclient.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewClient creates a catalog client. cache may be nil, in which case every
// lookup goes straight to the API.
func NewClient(baseURL string, timeout time.Duration, cache *redisclient.Client, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// Product looks up a product by its numeric id. A (nil, nil) return means the
// catalog cannot resolve the id (non-2xx status or an empty/null body); a
// non-nil error means transport failure and is safe to retry.
func (c *Client) Product(ctx context.Context, productID string) (*Product, error) {
	ctx, span := util.StartSpan(ctx, "Catalog.Product")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CatalogLookupLatency.Observe(time.Since(start).Seconds())
	}()

	if c.cache != nil {
		cached, err := c.cache.GetCatalogProduct(ctx, productID)
		if err == nil {
			product, decodeErr := decodeProduct(cached)
			if decodeErr == nil {
				util.CatalogCacheHitsTotal.Inc()
				return product, nil
			}
			c.logger.Warn("Discarding undecodable cached catalog entry",
				zap.String("product_id", productID),
				zap.Error(decodeErr))
		} else if !redisclient.IsCacheMiss(err) {
			c.logger.Warn("Catalog cache read failed, falling back to API",
				zap.String("product_id", productID),
				zap.Error(err))
		}
	}

	url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed for product %s: %w", productID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response for product %s: %w", productID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Info("Catalog returned non-success status",
			zap.String("product_id", productID),
			zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		c.logger.Info("Catalog returned empty body for product",
			zap.String("product_id", productID))
		return nil, nil
	}

	product, err := decodeProduct(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog response for product %s: %w", productID, err)
	}

	if c.cache != nil {
		if err := c.cache.SetCatalogProduct(ctx, productID, body, c.cacheTTL); err != nil {
			c.logger.Warn("Failed to cache catalog product",
				zap.String("product_id", productID),
				zap.Error(err))
		}
	}

	return product, nil
}

func decodeProduct(body []byte) (*Product, error) {
	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
