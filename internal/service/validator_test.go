package service

import (
	"testing"

	"order-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateOrderPayload(t *testing.T) {
	id := int64(123)
	cliente := "ACME Corp"
	productos := []models.OrderProduct{{SKU: "P001", Cantidad: 3}}

	tests := []struct {
		name    string
		payload models.OrderPayload
		wantErr string
	}{
		{
			name:    "valid payload",
			payload: models.OrderPayload{ID: &id, Cliente: &cliente, Productos: productos},
		},
		{
			name:    "missing id",
			payload: models.OrderPayload{Cliente: &cliente, Productos: productos},
			wantErr: "missing \"id\"",
		},
		{
			name:    "missing cliente",
			payload: models.OrderPayload{ID: &id, Productos: productos},
			wantErr: "missing \"cliente\"",
		},
		{
			name:    "missing productos",
			payload: models.OrderPayload{ID: &id, Cliente: &cliente},
			wantErr: "missing \"productos\"",
		},
		{
			name:    "empty productos",
			payload: models.OrderPayload{ID: &id, Cliente: &cliente, Productos: []models.OrderProduct{}},
			wantErr: "empty product list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderPayload(tt.payload)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, IsNonRetryable(err), "validation failures must be non-retryable")
		})
	}
}
