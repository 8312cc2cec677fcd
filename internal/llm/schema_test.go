package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemSchema(t *testing.T) {
	schema, err := CompileSchema(BuildLineItemSchema())
	require.NoError(t, err)

	tests := []struct {
		name    string
		item    map[string]any
		wantErr bool
	}{
		{
			name: "full item",
			item: map[string]any{
				"item_description":    "office chair",
				"quantity":            2.0,
				"unit_price":          1250.0,
				"total_non_vat_value": 2500.0,
				"vat_amount":          375.0,
				"currency":            "USD",
			},
		},
		{
			name: "description alone is enough",
			item: map[string]any{"item_description": "hosting"},
		},
		{
			name:    "description required",
			item:    map[string]any{"total_non_vat_value": 99.0},
			wantErr: true,
		},
		{
			name:    "empty description rejected",
			item:    map[string]any{"item_description": ""},
			wantErr: true,
		},
		{
			name: "numeric strings rejected",
			item: map[string]any{
				"item_description":    "hosting",
				"total_non_vat_value": "99.00",
			},
			wantErr: true,
		},
		{
			name: "unknown keys rejected",
			item: map[string]any{
				"item_description": "hosting",
				"supplier":         "acme",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.item)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
