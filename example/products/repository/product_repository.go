package repository

import (
	"context"
	"fmt"

	"github.com/tigerroll/go_batch_excel/pkg/batch/config"
	"github.com/tigerroll/go_batch_excel/pkg/batch/database"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	logger "github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"

	"github.com/tigerroll/go_batch_excel/example/products/domain/entity"
)

// ProductRepository は商品データの永続化を担うリポジトリのインターフェースです。
type ProductRepository interface {
	// BulkInsertProducts は商品データのチャンクをトランザクション内で一括挿入します。
	BulkInsertProducts(ctx context.Context, tx database.Tx, items []entity.ProductToStore) error
}

// NewProductRepository は設定されたデータベースタイプに応じたリポジトリを生成します。
func NewProductRepository(cfg config.DatabaseConfig) (ProductRepository, error) {
	module := "product_repository_factory"
	logger.Debugf("ProductRepository の生成を開始します (Type: %s).", cfg.Type)

	switch cfg.Type {
	case "postgres", "redshift":
		return &postgresProductRepository{}, nil
	case "mysql", "snowflake":
		return &placeholderProductRepository{}, nil
	default:
		return nil, exception.NewBatchError(module, fmt.Sprintf("サポートされていないデータベースタイプです: %s", cfg.Type), nil, false, false)
	}
}

// postgresProductRepository は $n 形式のプレースホルダを使用する実装です。
type postgresProductRepository struct{}

func (r *postgresProductRepository) BulkInsertProducts(ctx context.Context, tx database.Tx, items []entity.ProductToStore) error {
	return bulkInsert(ctx, tx, items, `
		INSERT INTO products (sku, name, price, sheet_name, row_index, collected_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`)
}

// placeholderProductRepository は ? 形式のプレースホルダを使用する実装です。
type placeholderProductRepository struct{}

func (r *placeholderProductRepository) BulkInsertProducts(ctx context.Context, tx database.Tx, items []entity.ProductToStore) error {
	return bulkInsert(ctx, tx, items, `
		INSERT INTO products (sku, name, price, sheet_name, row_index, collected_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`)
}

// bulkInsert はプリペアドステートメントで商品データを一括挿入します。
func bulkInsert(ctx context.Context, tx database.Tx, items []entity.ProductToStore, query string) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("products への INSERT 準備に失敗しました: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		// ループ内でも Context の完了を定期的にチェック
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := stmt.ExecContext(ctx,
			item.SKU,
			item.Name,
			item.Price,
			item.SheetName,
			item.RowIndex,
			item.CollectedAt,
		); err != nil {
			return fmt.Errorf("products への INSERT に失敗しました (sku=%s): %w", item.SKU, err)
		}
	}

	logger.Debugf("products へ %d 件を挿入しました。", len(items))
	return nil
}
