package reader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tigerroll/go_batch_excel/pkg/batch/excel"

	"github.com/tigerroll/go_batch_excel/example/products/domain/entity"
)

// 商品カタログワークブックの列レイアウト
const (
	colSKU = iota
	colName
	colPrice
	columnCount
)

// ProductRowMapper はカタログの1行を Product エンティティに変換する RowMapper です。
type ProductRowMapper struct{}

// NewProductRowMapper は新しい ProductRowMapper のインスタンスを作成します。
func NewProductRowMapper() *ProductRowMapper {
	return &ProductRowMapper{}
}

// MapRow は現在の行を Product に変換します。
// 列が不足している場合や価格が数値でない場合はエラーを返します。
// エラーは Reader によって位置情報付きでラップされます。
func (m *ProductRowMapper) MapRow(sheet excel.Sheet, rs excel.RowSet) (*entity.Product, error) {
	row := rs.CurrentRow()
	if len(row) < columnCount {
		return nil, fmt.Errorf("列が不足しています: %d 列 (期待: %d 列以上)", len(row), columnCount)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[colPrice]), 64)
	if err != nil {
		return nil, fmt.Errorf("価格のパースに失敗しました: %q: %w", row[colPrice], err)
	}

	return &entity.Product{
		SKU:       strings.TrimSpace(row[colSKU]),
		Name:      strings.TrimSpace(row[colName]),
		Price:     price,
		SheetName: sheet.Name(),
		RowIndex:  rs.CurrentRowIndex(),
	}, nil
}

// ProductRowMapper が RowMapper インターフェースを満たすことを確認
var _ excel.RowMapper[*entity.Product] = (*ProductRowMapper)(nil)
