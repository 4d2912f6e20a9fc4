package excel

// DefaultRowSetFactory はシートの行を順に走査する標準の RowSet を生成するファクトリです。
type DefaultRowSetFactory struct{}

// Create は指定されたシートに対する新しい RowSet を生成します。
func (f *DefaultRowSetFactory) Create(sheet Sheet) RowSet {
	return &defaultRowSet{
		sheet:           sheet,
		currentRowIndex: -1, // 最初の Next で行 0 に進む
	}
}

// defaultRowSet は Sheet の行に対する前方専用カーソルの標準実装です。
type defaultRowSet struct {
	sheet           Sheet
	currentRowIndex int
	currentRow      []string
}

// Next はカーソルを次の行へ進めます。
func (rs *defaultRowSet) Next() bool {
	if rs.currentRowIndex+1 >= rs.sheet.RowCount() {
		return false
	}
	rs.currentRowIndex++
	rs.currentRow = rs.sheet.Row(rs.currentRowIndex)
	return true
}

// CurrentRowIndex は現在の行のインデックスを返します。
func (rs *defaultRowSet) CurrentRowIndex() int {
	return rs.currentRowIndex
}

// CurrentRow は現在の行のセル値を返します。
func (rs *defaultRowSet) CurrentRow() []string {
	return rs.currentRow
}

// SheetName はシート名を返します。
func (rs *defaultRowSet) SheetName() string {
	return rs.sheet.Name()
}

// defaultRowSet が RowSet インターフェースを満たすことを確認
var _ RowSet = (*defaultRowSet)(nil)
