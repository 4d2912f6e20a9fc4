package processor

import (
	"context"
	"strings"
	"time"

	core "github.com/tigerroll/go_batch_excel/pkg/batch/job/core"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	logger "github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"

	"github.com/tigerroll/go_batch_excel/example/products/domain/entity"
)

// ProductProcessor は読み込まれた Product を検証・正規化し、
// 保存用の ProductToStore に変換する ItemProcessor の実装です。
// SKU を持たない行はフィルタ対象として nil を返します。
type ProductProcessor struct{}

// NewProductProcessor は新しい ProductProcessor のインスタンスを作成します。
func NewProductProcessor() *ProductProcessor {
	return &ProductProcessor{}
}

// Process は Product を検証し、保存用の形に変換します。
func (p *ProductProcessor) Process(ctx context.Context, item *entity.Product) (*entity.ProductToStore, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if item.SKU == "" {
		// SKU が空の行はデータとして扱わない (フィルタ)
		logger.Debugf("SKU が空のためフィルタします。sheet=%s, rowIndex=%d", item.SheetName, item.RowIndex)
		return nil, nil
	}
	if item.Price < 0 {
		return nil, exception.NewBatchErrorf("product_processor",
			"価格が負の値です: sku=%s, price=%f", item.SKU, item.Price)
	}

	return &entity.ProductToStore{
		SKU:         strings.ToUpper(item.SKU),
		Name:        item.Name,
		Price:       item.Price,
		SheetName:   item.SheetName,
		RowIndex:    item.RowIndex,
		CollectedAt: time.Now(),
	}, nil
}

// ProductProcessor が ItemProcessor インターフェースを満たすことを確認
var _ core.ItemProcessor[*entity.Product, *entity.ProductToStore] = (*ProductProcessor)(nil)
