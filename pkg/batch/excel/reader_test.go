package excel_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tigerroll/go_batch_excel/pkg/batch/excel"
	core "github.com/tigerroll/go_batch_excel/pkg/batch/job/core"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
)

// fakeSheet はテスト用のインメモリ excel.Sheet 実装です。
type fakeSheet struct {
	name string
	rows [][]string
}

func (s *fakeSheet) Name() string { return s.name }

func (s *fakeSheet) RowCount() int { return len(s.rows) }

func (s *fakeSheet) Row(index int) []string {
	if index < 0 || index >= len(s.rows) {
		return nil
	}
	return s.rows[index]
}

// fakeWorkbook はテスト用のインメモリ excel.Workbook 実装です。
type fakeWorkbook struct {
	sheets []*fakeSheet
	closed bool
}

func (w *fakeWorkbook) SheetCount() int { return len(w.sheets) }

func (w *fakeWorkbook) Sheet(index int) excel.Sheet {
	if index < 0 || index >= len(w.sheets) {
		return nil
	}
	return w.sheets[index]
}

func (w *fakeWorkbook) Close() error {
	w.closed = true
	return nil
}

// newSheet は rowCount 行のシートを生成します。各行は [シート名, 行番号] の2セルです。
func newSheet(name string, rowCount int) *fakeSheet {
	rows := make([][]string, rowCount)
	for i := range rows {
		rows[i] = []string{name, fmt.Sprintf("%d", i)}
	}
	return &fakeSheet{name: name, rows: rows}
}

// tempResource はリソース検証を通すためのダミーファイルを作成します。
// ワークブック自体はテスト用の opener から供給されます。
func tempResource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.xlsx")
	assert.NoError(t, os.WriteFile(path, []byte("dummy"), 0o644))
	return path
}

func fakeOpener(wb *fakeWorkbook) excel.WorkbookOpener {
	return func(path string) (excel.Workbook, error) {
		return wb, nil
	}
}

// readAll は io.EOF までアイテムを読み込みます。
func readAll(t *testing.T, ctx context.Context, r *excel.Reader[*excel.DefaultItem]) []*excel.DefaultItem {
	t.Helper()
	var items []*excel.DefaultItem
	for {
		item, err := r.Read(ctx)
		if err == io.EOF {
			return items
		}
		assert.NoError(t, err)
		items = append(items, item)
	}
}

// TestReader_LinesToSkip は、r 行のシートに対して linesToSkip=k を設定すると
// ちょうど max(r-k, 0) 件のアイテムが生成されることを検証します。
func TestReader_LinesToSkip(t *testing.T) {
	tests := []struct {
		name          string
		rows          int
		linesToSkip   int
		expectedItems int
	}{
		{"スキップなし", 5, 0, 5},
		{"先頭1行をスキップ", 5, 1, 4},
		{"全行をスキップ", 3, 3, 0},
		{"行数を超えるスキップ", 2, 10, 0},
		{"空のシート", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := &fakeWorkbook{sheets: []*fakeSheet{newSheet("Sheet1", tt.rows)}}
			skippedRows := 0

			reader, err := excel.NewReader[*excel.DefaultItem](tempResource(t), excel.NewDefaultRowMapper(),
				excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(wb)),
				excel.WithLinesToSkip[*excel.DefaultItem](tt.linesToSkip),
				excel.WithSkippedRowsCallback[*excel.DefaultItem](func(sheet excel.Sheet, rs excel.RowSet) {
					skippedRows++
				}),
			)
			assert.NoError(t, err)

			ctx := context.Background()
			assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))
			items := readAll(t, ctx, reader)

			assert.Len(t, items, tt.expectedItems)
			// スキップ行コールバックはシートごとに min(k, r) 回呼び出される
			expectedSkipped := tt.linesToSkip
			if tt.rows < expectedSkipped {
				expectedSkipped = tt.rows
			}
			assert.Equal(t, expectedSkipped, skippedRows)
			assert.NoError(t, reader.Close(ctx))
		})
	}
}

// TestReader_SheetsToSkip は、名前が一致するシートがアイテムを生成せず、
// スキップシートコールバックがシートごとにちょうど1回呼び出されることを検証します。
func TestReader_SheetsToSkip(t *testing.T) {
	wb := &fakeWorkbook{sheets: []*fakeSheet{
		newSheet("A", 2),
		newSheet("B", 4),
		newSheet("C", 3),
	}}
	var skippedSheets []string

	reader, err := excel.NewReader[*excel.DefaultItem](tempResource(t), excel.NewDefaultRowMapper(),
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(wb)),
		excel.WithSheetsToSkip[*excel.DefaultItem]("B"),
		excel.WithSkippedSheetsCallback[*excel.DefaultItem](func(sheet excel.Sheet) {
			skippedSheets = append(skippedSheets, sheet.Name())
		}),
	)
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))
	items := readAll(t, ctx, reader)

	assert.Len(t, items, 5) // A の2行 + C の3行
	for _, item := range items {
		assert.NotEqual(t, "B", item.Sheet.Name())
	}
	assert.Equal(t, []string{"B"}, skippedSheets)
	assert.NoError(t, reader.Close(ctx))
}

// TestReader_IterationOrder は、シート昇順・シート内では行昇順に読み込まれ、
// どの行も二度読み込まれないことを検証します。
func TestReader_IterationOrder(t *testing.T) {
	wb := &fakeWorkbook{sheets: []*fakeSheet{
		newSheet("A", 3),
		newSheet("B", 2),
	}}

	reader, err := excel.NewReader[*excel.DefaultItem](tempResource(t), excel.NewDefaultRowMapper(),
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(wb)),
	)
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))
	items := readAll(t, ctx, reader)

	var got []string
	for _, item := range items {
		got = append(got, fmt.Sprintf("%s:%d", item.Sheet.Name(), item.Value["currentRowIndex"].(int)))
	}
	assert.Equal(t, []string{"A:0", "A:1", "A:2", "B:0", "B:1"}, got)
	assert.NoError(t, reader.Close(ctx))
}

// TestReader_CombinedScenario は行スキップとシートスキップの組み合わせを検証します:
// シート [A(2行), B(0行), C(3行)], linesToSkip=1, sheetsToSkip={B} のとき、
// A から1件、C から2件、B から0件、合計3件となります。
func TestReader_CombinedScenario(t *testing.T) {
	wb := &fakeWorkbook{sheets: []*fakeSheet{
		newSheet("A", 2),
		newSheet("B", 0),
		newSheet("C", 3),
	}}

	reader, err := excel.NewReader[*excel.DefaultItem](tempResource(t), excel.NewDefaultRowMapper(),
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(wb)),
		excel.WithLinesToSkip[*excel.DefaultItem](1),
		excel.WithSheetsToSkip[*excel.DefaultItem]("B"),
	)
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))
	items := readAll(t, ctx, reader)

	counts := map[string]int{}
	for _, item := range items {
		counts[item.Sheet.Name()]++
	}
	assert.Len(t, items, 3)
	assert.Equal(t, 1, counts["A"])
	assert.Equal(t, 0, counts["B"])
	assert.Equal(t, 2, counts["C"])
	assert.NoError(t, reader.Close(ctx))
}

// TestReader_EmptySheetsInSequence は、連続する空シートやスキップ対象シートを
// 挟んでも残りのシートから読み込めることを検証します。
func TestReader_EmptySheetsInSequence(t *testing.T) {
	wb := &fakeWorkbook{sheets: []*fakeSheet{
		newSheet("Empty1", 0),
		newSheet("Skip1", 5),
		newSheet("Empty2", 0),
		newSheet("Data", 2),
	}}

	reader, err := excel.NewReader[*excel.DefaultItem](tempResource(t), excel.NewDefaultRowMapper(),
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(wb)),
		excel.WithSheetsToSkip[*excel.DefaultItem]("Skip1"),
	)
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))
	items := readAll(t, ctx, reader)

	assert.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "Data", item.Sheet.Name())
	}
	assert.NoError(t, reader.Close(ctx))
}

// TestReader_StrictMode は strict モードでの存在しないリソースの扱いを検証します。
func TestReader_StrictMode(t *testing.T) {
	t.Run("strict モードではエラーになる", func(t *testing.T) {
		reader, err := excel.NewReader[*excel.DefaultItem]("/no/such/file.xlsx", excel.NewDefaultRowMapper())
		assert.NoError(t, err)

		ctx := context.Background()
		err = reader.Open(ctx, core.NewExecutionContext())
		assert.Error(t, err)

		var batchErr *exception.BatchError
		assert.True(t, errors.As(err, &batchErr))
		assert.Equal(t, "excel_reader", batchErr.Module)
		assert.Contains(t, batchErr.Message, "存在しません")
	})

	t.Run("lenient モードでは警告のみで0件になる", func(t *testing.T) {
		reader, err := excel.NewReader[*excel.DefaultItem]("/no/such/file.xlsx", excel.NewDefaultRowMapper(),
			excel.WithStrict[*excel.DefaultItem](false),
		)
		assert.NoError(t, err)

		ctx := context.Background()
		assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))
		items := readAll(t, ctx, reader)
		assert.Empty(t, items)
		assert.NoError(t, reader.Close(ctx))
	})
}

// TestReader_RowMappingFailure は、マッパーのエラーがシート名・行インデックス・
// 生の行データを含む BatchError にラップされることを検証します。
func TestReader_RowMappingFailure(t *testing.T) {
	wb := &fakeWorkbook{sheets: []*fakeSheet{
		newSheet("A", 2),
		newSheet("C", 3),
	}}
	mapperErr := errors.New("bad cell value")

	// シート C の2件目 (linesToSkip=1 のため行インデックス 2) でエラーを発生させる
	mapper := excel.RowMapperFunc[*excel.DefaultItem](func(sheet excel.Sheet, rs excel.RowSet) (*excel.DefaultItem, error) {
		if sheet.Name() == "C" && rs.CurrentRowIndex() == 2 {
			return nil, mapperErr
		}
		return excel.NewDefaultRowMapper().MapRow(sheet, rs)
	})

	reader, err := excel.NewReader[*excel.DefaultItem](tempResource(t), mapper,
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(wb)),
		excel.WithLinesToSkip[*excel.DefaultItem](1),
	)
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))

	// A の残り1行と C の1件目は正常に読み込める
	for i := 0; i < 2; i++ {
		_, err := reader.Read(ctx)
		assert.NoError(t, err)
	}

	_, err = reader.Read(ctx)
	assert.Error(t, err)

	var batchErr *exception.BatchError
	assert.True(t, errors.As(err, &batchErr))
	assert.Contains(t, batchErr.Message, "sheet=C")
	assert.Contains(t, batchErr.Message, "rowIndex=2")
	assert.Contains(t, batchErr.Message, "row=")
	assert.ErrorIs(t, err, mapperErr)
	assert.NoError(t, reader.Close(ctx))
}

// TestReader_ReadBeforeOpen は、Open 前の Read が io.EOF を返すことを検証します。
func TestReader_ReadBeforeOpen(t *testing.T) {
	reader, err := excel.NewReader[*excel.DefaultItem]("unused.xlsx", excel.NewDefaultRowMapper())
	assert.NoError(t, err)

	_, err = reader.Read(context.Background())
	assert.Equal(t, io.EOF, err)
}

// TestReader_NilRowMapper は、RowMapper 未設定がセットアップ時点のエラーに
// なることを検証します。
func TestReader_NilRowMapper(t *testing.T) {
	_, err := excel.NewReader[*excel.DefaultItem]("input.xlsx", nil)
	assert.Error(t, err)

	var batchErr *exception.BatchError
	assert.True(t, errors.As(err, &batchErr))
	assert.Contains(t, batchErr.Message, "RowMapper")
}

// TestReader_ExecutionContextPersistence は、読み込み位置の保存と復元を検証します。
func TestReader_ExecutionContextPersistence(t *testing.T) {
	newWorkbook := func() *fakeWorkbook {
		return &fakeWorkbook{sheets: []*fakeSheet{
			newSheet("A", 3),
			newSheet("B", 2),
		}}
	}
	path := tempResource(t)
	ctx := context.Background()

	reader, err := excel.NewReader[*excel.DefaultItem](path, excel.NewDefaultRowMapper(),
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(newWorkbook())),
	)
	assert.NoError(t, err)
	assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))

	// 最初の2件 (A:0, A:1) を読み込む
	for i := 0; i < 2; i++ {
		_, err := reader.Read(ctx)
		assert.NoError(t, err)
	}

	ec, err := reader.GetExecutionContext(ctx)
	assert.NoError(t, err)
	assert.NoError(t, reader.Close(ctx))

	// 新しい Reader に ExecutionContext を渡して続きから読み込む
	restored, err := excel.NewReader[*excel.DefaultItem](path, excel.NewDefaultRowMapper(),
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(newWorkbook())),
	)
	assert.NoError(t, err)
	assert.NoError(t, restored.Open(ctx, ec))

	items := readAll(t, ctx, restored)
	var got []string
	for _, item := range items {
		got = append(got, fmt.Sprintf("%s:%d", item.Sheet.Name(), item.Value["currentRowIndex"].(int)))
	}
	assert.Equal(t, []string{"A:2", "B:0", "B:1"}, got)
	assert.NoError(t, restored.Close(ctx))
}

// TestReader_CloseReleasesWorkbook は、Close がワークブックを解放することを検証します。
func TestReader_CloseReleasesWorkbook(t *testing.T) {
	wb := &fakeWorkbook{sheets: []*fakeSheet{newSheet("A", 1)}}

	reader, err := excel.NewReader[*excel.DefaultItem](tempResource(t), excel.NewDefaultRowMapper(),
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(wb)),
	)
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, reader.Open(ctx, core.NewExecutionContext()))
	assert.NoError(t, reader.Close(ctx))
	assert.True(t, wb.closed)

	// Close 後の Read は io.EOF を返す
	_, err = reader.Read(ctx)
	assert.Equal(t, io.EOF, err)
}

// TestReader_ContextCancellation は Context のキャンセルが正しく処理されるかテストします。
func TestReader_ContextCancellation(t *testing.T) {
	wb := &fakeWorkbook{sheets: []*fakeSheet{newSheet("A", 1)}}

	reader, err := excel.NewReader[*excel.DefaultItem](tempResource(t), excel.NewDefaultRowMapper(),
		excel.WithWorkbookOpener[*excel.DefaultItem](fakeOpener(wb)),
	)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = reader.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, reader.Open(ctx, core.NewExecutionContext()), context.Canceled)
	assert.ErrorIs(t, reader.Close(ctx), context.Canceled)
}
