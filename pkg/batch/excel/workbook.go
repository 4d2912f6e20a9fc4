package excel

// Workbook はシートの順序付きコレクションを公開するワークブックの抽象です。
// コンテナフォーマット (xlsx, xls など) ごとの実装がこのインターフェースを満たします。
type Workbook interface {
	// SheetCount はワークブックに含まれるシート数を返します。
	SheetCount() int
	// Sheet は指定されたインデックスのシートを返します。
	// インデックスが範囲外の場合は nil を返します。
	Sheet(index int) Sheet
	// Close はワークブックが保持するリソースを解放します。
	Close() error
}

// Sheet はワークブック内の、名前付きで順序を持つ行のコレクションです。
// ワークブックのデータに対する不変のビューであり、生存期間はワークブックが所有します。
type Sheet interface {
	// Name はシート名を返します。
	Name() string
	// RowCount はシートに含まれる行数を返します。
	RowCount() int
	// Row は指定されたインデックスの行をセル値のスライスとして返します。
	Row(index int) []string
}

// RowSet はシートの行に対する前方専用のカーソルです。
type RowSet interface {
	// Next はカーソルを次の行へ進めます。行が存在しない場合は false を返します。
	Next() bool
	// CurrentRowIndex は現在の行のインデックス (0 始まり) を返します。
	CurrentRowIndex() int
	// CurrentRow は現在の行のセル値を返します。
	CurrentRow() []string
	// SheetName はこの RowSet が属するシートの名前を返します。
	SheetName() string
}

// RowSetFactory はシートから RowSet を生成するファクトリです。
type RowSetFactory interface {
	Create(sheet Sheet) RowSet
}

// RowMapper は生の行とそのシートコンテキストをアプリケーションのアイテムに変換します。
// T は生成されるアイテムの型です。
type RowMapper[T any] interface {
	MapRow(sheet Sheet, rs RowSet) (T, error)
}

// RowMapperFunc は関数を RowMapper として利用するためのアダプタです。
type RowMapperFunc[T any] func(sheet Sheet, rs RowSet) (T, error)

// MapRow は RowMapper インターフェースの実装です。
func (f RowMapperFunc[T]) MapRow(sheet Sheet, rs RowSet) (T, error) {
	return f(sheet, rs)
}

// RowCallback は読み飛ばされた行ごとに呼び出されるコールバックです。
type RowCallback func(sheet Sheet, rs RowSet)

// SheetCallback は読み飛ばされたシートごとに呼び出されるコールバックです。
type SheetCallback func(sheet Sheet)
