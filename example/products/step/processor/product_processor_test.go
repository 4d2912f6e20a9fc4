package processor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tigerroll/go_batch_excel/example/products/domain/entity"
	"github.com/tigerroll/go_batch_excel/example/products/step/processor"
)

// TestProductProcessor_Process は検証・正規化・フィルタの各ケースを検証します。
func TestProductProcessor_Process(t *testing.T) {
	tests := []struct {
		name         string
		input        *entity.Product
		expectError  bool
		expectFilter bool
		expectedSKU  string
	}{
		{
			name:        "正常な商品はSKUが大文字化される",
			input:       &entity.Product{SKU: "p-001", Name: "りんご", Price: 120},
			expectedSKU: "P-001",
		},
		{
			name:         "SKUが空の行はフィルタされる",
			input:        &entity.Product{SKU: "", Name: "名無し", Price: 10},
			expectFilter: true,
		},
		{
			name:        "価格が負の値はエラー",
			input:       &entity.Product{SKU: "P-002", Name: "みかん", Price: -1},
			expectError: true,
		},
	}

	p := processor.NewProductProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Process(context.Background(), tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.expectFilter {
				assert.Nil(t, out)
				return
			}
			assert.NotNil(t, out)
			assert.Equal(t, tt.expectedSKU, out.SKU)
			assert.Equal(t, tt.input.Price, out.Price)
			assert.False(t, out.CollectedAt.IsZero())
		})
	}
}

// TestProductProcessor_ContextCancellation はキャンセル済みコンテキストでの中断を検証します。
func TestProductProcessor_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := processor.NewProductProcessor().Process(ctx, &entity.Product{SKU: "P-001", Price: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
