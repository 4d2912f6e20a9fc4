package excel

// Item は行から生成されたペイロードと、その行が由来するシートへの参照を
// ペアにして下流の処理ステージへ渡すための DTO です。
type Item[T any] struct {
	Sheet Sheet
	Value T
}

// DefaultItem は DefaultRowMapper が生成するアイテムの型です。
type DefaultItem = Item[map[string]interface{}]

// DefaultRowMapper は行インデックスと生の行データをマップとして返す RowMapper です。
// 下流のプロセッサが行番号にアクセスできるように、シートと合わせて返します。
type DefaultRowMapper struct{}

// NewDefaultRowMapper は新しい DefaultRowMapper のインスタンスを作成します。
func NewDefaultRowMapper() *DefaultRowMapper {
	return &DefaultRowMapper{}
}

// MapRow は現在の行を {currentRowIndex, currentRow} のマップに変換します。
func (m *DefaultRowMapper) MapRow(sheet Sheet, rs RowSet) (*DefaultItem, error) {
	payload := map[string]interface{}{
		"currentRowIndex": rs.CurrentRowIndex(),
		"currentRow":      rs.CurrentRow(),
	}
	return &Item[map[string]interface{}]{Sheet: sheet, Value: payload}, nil
}

// DefaultRowMapper が RowMapper インターフェースを満たすことを確認
var _ RowMapper[*DefaultItem] = (*DefaultRowMapper)(nil)
