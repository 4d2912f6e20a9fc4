package writer

import (
	"context"

	core "github.com/tigerroll/go_batch_excel/pkg/batch/job/core"
	"github.com/tigerroll/go_batch_excel/pkg/batch/database"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	logger "github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"

	"github.com/tigerroll/go_batch_excel/example/products/domain/entity"
	appRepo "github.com/tigerroll/go_batch_excel/example/products/repository"
)

// ProductItemWriter は商品データをデータベースに書き込む ItemWriter の実装です。
type ProductItemWriter struct {
	repo appRepo.ProductRepository
}

// NewProductWriter は新しい ProductItemWriter のインスタンスを作成します。
func NewProductWriter(repo appRepo.ProductRepository) *ProductItemWriter {
	return &ProductItemWriter{repo: repo}
}

// Open は ItemWriter インターフェースの実装です。このWriterは保持する状態がありません。
func (w *ProductItemWriter) Open(ctx context.Context, ec core.ExecutionContext) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return nil
}

// Write は商品データのチャンクをトランザクション内でデータベースに保存します。
func (w *ProductItemWriter) Write(ctx context.Context, tx database.Tx, items []*entity.ProductToStore) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if len(items) == 0 {
		logger.Debugf("書き込むアイテムがありません。")
		return nil
	}

	toStore := make([]entity.ProductToStore, 0, len(items))
	for _, item := range items {
		if item != nil {
			toStore = append(toStore, *item)
		}
	}

	if err := w.repo.BulkInsertProducts(ctx, tx, toStore); err != nil {
		// バルク挿入失敗はリトライ可能、スキップ不可 (チャンク全体が対象のため)
		return exception.NewBatchError("product_writer", "商品データのバルク挿入に失敗しました", err, true, false)
	}

	logger.Debugf("商品データのチャンクを保存しました。データ数: %d", len(toStore))
	return nil
}

// Close はリソースを解放します。このWriterは保持するリソースがありません。
func (w *ProductItemWriter) Close(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return nil
}

// ProductItemWriter が ItemWriter インターフェースを満たすことを確認
var _ core.ItemWriter[*entity.ProductToStore] = (*ProductItemWriter)(nil)
