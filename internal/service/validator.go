package service

import "order-pipeline/internal/models"

// ValidateOrderPayload checks the structural shape of a raw order payload:
// the id, cliente and productos keys must all be present and productos must
// be a non-empty list. Every failure is non-retryable, a malformed payload
// stays malformed no matter how often the task is retried.
func ValidateOrderPayload(p models.OrderPayload) error {
	if p.ID == nil {
		return nonRetryablef("incomplete order payload: missing \"id\" key")
	}
	if p.Cliente == nil {
		return nonRetryablef("incomplete order payload: missing \"cliente\" key")
	}
	if p.Productos == nil {
		return nonRetryablef("incomplete order payload: missing \"productos\" key")
	}
	if len(p.Productos) == 0 {
		return nonRetryablef("order %d has an empty product list", *p.ID)
	}
	return nil
}
