package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"order-pipeline/internal/models"
)

// Fingerprint derives a deterministic SHA-256 hex digest over the canonical
// JSON form of the original payload plus its enriched items. The document is
// re-serialized through map[string]interface{} so keys come out sorted and
// the digest is stable across re-runs. The hash is an audit fingerprint only,
// it plays no part in deduplication.
func Fingerprint(payload models.OrderPayload, items []models.EnrichedItem) (string, error) {
	doc := map[string]interface{}{
		"pedido":      payload,
		"enriquecido": items,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize order for hashing: %w", err)
	}

	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return "", fmt.Errorf("failed to normalize order for hashing: %w", err)
	}

	canonical, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize order for hashing: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
