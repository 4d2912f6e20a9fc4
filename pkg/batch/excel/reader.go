package excel

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tigerroll/go_batch_excel/pkg/batch/config"
	core "github.com/tigerroll/go_batch_excel/pkg/batch/job/core"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	logger "github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
)

const moduleName = "excel_reader"

// ExecutionContext に保存する読み込み位置のキー
const (
	ecKeySheetIndex = "excel_reader.sheet_index"
	ecKeyRowIndex   = "excel_reader.row_index"
)

// Reader は Excel ワークブックをフラットファイルと同じように、
// シート単位・行単位で読み込む ItemReader の実装です。
// 設定されたシートと各シート先頭の行を読み飛ばし、残りの行を
// RowMapper で変換したアイテムとして一つずつ返します。
// T は生成されるアイテムの型です。
type Reader[T any] struct {
	path          string
	format        Format
	linesToSkip   int
	sheetsToSkip  map[string]struct{}
	strict        bool
	rowMapper     RowMapper[T]
	rowSetFactory RowSetFactory
	opener        WorkbookOpener

	skippedRowsCallback   RowCallback
	skippedSheetsCallback SheetCallback

	workbook Workbook
	// 現在のシートインデックス。単調非減少で、シート数が上限。
	currentSheet int
	sheet        Sheet
	rs           RowSet

	executionContext core.ExecutionContext
}

// ReaderOption は Reader の任意設定を構築時に渡すためのオプションです。
type ReaderOption[T any] func(*Reader[T])

// WithLinesToSkip は各シートの先頭で読み飛ばす行数を設定します (全シートに一律適用)。
func WithLinesToSkip[T any](n int) ReaderOption[T] {
	return func(r *Reader[T]) { r.linesToSkip = n }
}

// WithSheetsToSkip は名前が一致するシートを読み飛ばすように設定します。
func WithSheetsToSkip[T any](names ...string) ReaderOption[T] {
	return func(r *Reader[T]) {
		for _, name := range names {
			r.sheetsToSkip[name] = struct{}{}
		}
	}
}

// WithStrict は strict モードを設定します。デフォルトは true です。
// strict モードでは、リソースが存在しない/読めない場合に Open がエラーを返します。
func WithStrict[T any](strict bool) ReaderOption[T] {
	return func(r *Reader[T]) { r.strict = strict }
}

// WithFormat はワークブックのフォーマットを設定します。
// 指定しない場合はファイルの拡張子から判定します。
func WithFormat[T any](format Format) ReaderOption[T] {
	return func(r *Reader[T]) { r.format = format }
}

// WithRowSetFactory は RowSet の生成方法を差し替えます。
func WithRowSetFactory[T any](factory RowSetFactory) ReaderOption[T] {
	return func(r *Reader[T]) { r.rowSetFactory = factory }
}

// WithSkippedRowsCallback は読み飛ばされた行ごとに呼び出されるコールバックを設定します。
func WithSkippedRowsCallback[T any](cb RowCallback) ReaderOption[T] {
	return func(r *Reader[T]) { r.skippedRowsCallback = cb }
}

// WithSkippedSheetsCallback は読み飛ばされたシートごとに呼び出されるコールバックを設定します。
func WithSkippedSheetsCallback[T any](cb SheetCallback) ReaderOption[T] {
	return func(r *Reader[T]) { r.skippedSheetsCallback = cb }
}

// WithWorkbookOpener はワークブックの開き方を差し替えます。主にテストで使用します。
func WithWorkbookOpener[T any](opener WorkbookOpener) ReaderOption[T] {
	return func(r *Reader[T]) { r.opener = opener }
}

// NewReader は新しい Reader のインスタンスを作成します。
// RowMapper は必須です。設定されていない場合はセットアップ時点でエラーを返します。
func NewReader[T any](path string, rowMapper RowMapper[T], opts ...ReaderOption[T]) (*Reader[T], error) {
	if rowMapper == nil {
		return nil, exception.NewBatchError(moduleName, "RowMapper が設定されていません", nil, false, false)
	}

	r := &Reader[T]{
		path:             path,
		strict:           true,
		rowMapper:        rowMapper,
		rowSetFactory:    &DefaultRowSetFactory{},
		sheetsToSkip:     make(map[string]struct{}),
		executionContext: core.NewExecutionContext(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.opener == nil {
		format := r.format
		r.opener = func(path string) (Workbook, error) {
			return OpenWorkbook(path, format)
		}
	}
	return r, nil
}

// NewReaderFromConfig は ExcelConfig から Reader を構築します。
func NewReaderFromConfig[T any](cfg *config.ExcelConfig, rowMapper RowMapper[T], opts ...ReaderOption[T]) (*Reader[T], error) {
	baseOpts := []ReaderOption[T]{
		WithLinesToSkip[T](cfg.LinesToSkip),
		WithSheetsToSkip[T](cfg.SheetsToSkip...),
		WithStrict[T](cfg.Strict),
		WithFormat[T](Format(cfg.Format)),
	}
	return NewReader[T](cfg.Path, rowMapper, append(baseOpts, opts...)...)
}

// Open はリソースを検証してワークブックを開き、最初に読み込めるシートへ位置付けます。
// ExecutionContext に保存済みの読み込み位置があればそこまで読み進めます。
// strict モードでない場合、リソースが存在しない/読めないときは警告を出して
// 空の入力として扱います。
func (r *Reader[T]) Open(ctx context.Context, ec core.ExecutionContext) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := r.SetExecutionContext(ctx, ec); err != nil {
		return err
	}

	if _, err := os.Stat(r.path); err != nil {
		if r.strict {
			return exception.NewBatchError(moduleName, fmt.Sprintf("入力リソースが存在しません (strict モード): %s", r.path), err, false, false)
		}
		logger.Warnf("入力リソース '%s' が存在しません。", r.path)
		return nil
	}
	if f, err := os.Open(r.path); err != nil {
		if r.strict {
			return exception.NewBatchError(moduleName, fmt.Sprintf("入力リソースが読み込めません (strict モード): %s", r.path), err, false, false)
		}
		logger.Warnf("入力リソース '%s' が読み込めません。", r.path)
		return nil
	} else {
		f.Close()
	}

	workbook, err := r.opener(r.path)
	if err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("ワークブックのオープンに失敗しました: %s", r.path), err, false, false)
	}
	r.workbook = workbook
	logger.Debugf("ワークブック '%s' を開きました。シート数: %d", r.path, workbook.SheetCount())

	r.currentSheet = 0
	if !r.nextSheet() {
		return nil
	}

	r.restorePosition()
	return nil
}

// restorePosition は ExecutionContext に保存された読み込み位置まで読み進めます。
func (r *Reader[T]) restorePosition() {
	savedSheet, ok := r.executionContext.GetInt(ecKeySheetIndex)
	if !ok {
		return
	}

	for r.rs != nil && r.currentSheet < savedSheet {
		r.currentSheet++
		if !r.nextSheet() {
			return
		}
	}

	savedRow, ok := r.executionContext.GetInt(ecKeyRowIndex)
	if !ok || r.rs == nil || r.currentSheet != savedSheet {
		return
	}
	for r.rs.CurrentRowIndex() < savedRow && r.rs.Next() {
	}
	logger.Debugf("読み込み位置を復元しました。sheet=%d, rowIndex=%d", savedSheet, savedRow)
}

// Read はワークブックからアイテムを一つ読み込みます。
// 現在のシートの行が尽きた場合は次に読み込めるシートへ移動し、
// 全てのシートを読み終えたら io.EOF を返します。
func (r *Reader[T]) Read(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	default:
	}

	// カーソルが無い場合は読み込むものが無い (未オープン、空入力、または読み込み完了)
	if r.rs == nil {
		return zero, io.EOF
	}

	for {
		if r.rs.Next() {
			item, err := r.rowMapper.MapRow(r.sheet, r.rs)
			if err != nil {
				return zero, exception.NewBatchError(moduleName,
					fmt.Sprintf("Excel ファイルのパースに失敗しました。resource=%s, sheet=%s, rowIndex=%d, row=%v",
						r.path, r.rs.SheetName(), r.rs.CurrentRowIndex(), r.rs.CurrentRow()),
					err, false, false)
			}
			return item, nil
		}

		// 現在のシートの最終行まで読み終えた。次のシートがあれば移動する。
		r.currentSheet++
		if !r.nextSheet() {
			return zero, io.EOF
		}
	}
}

// nextSheet は次に読み込めるシートへ移動し、新しいカーソルを生成して
// 先頭の読み飛ばし行を処理します。位置付けできた場合 true を返します。
// 読み飛ばしで行が尽きたシートは行を提供しないため、さらに次のシートへ進みます。
func (r *Reader[T]) nextSheet() bool {
	for {
		sheet := r.nextAvailableSheet()
		if sheet == nil {
			r.sheet = nil
			r.rs = nil
			return false
		}

		r.sheet = sheet
		r.rs = r.rowSetFactory.Create(sheet)
		logger.Debugf("シート %s を開きました。行数: %d", sheet.Name(), sheet.RowCount())

		if r.skipRows(sheet) {
			return true
		}
		r.currentSheet++
	}
}

// nextAvailableSheet は読み飛ばし対象でない次のシートを返します。
// シートが残っていない場合は nil を返します。
// 深いワークブックでの呼び出し深度を抑えるため、再帰ではなくループで実装しています。
func (r *Reader[T]) nextAvailableSheet() Sheet {
	for r.currentSheet < r.workbook.SheetCount() {
		sheet := r.workbook.Sheet(r.currentSheet)
		if _, skip := r.sheetsToSkip[sheet.Name()]; !skip {
			return sheet
		}
		logger.Debugf("シート %s を読み飛ばします。", sheet.Name())
		if r.skippedSheetsCallback != nil {
			r.skippedSheetsCallback(sheet)
		}
		r.currentSheet++
	}
	logger.Debugf("'%s' に読み込むシートが残っていません。", r.path)
	return nil
}

// skipRows は新しく開いたシートの先頭行を設定された行数だけ読み飛ばします。
// 読み飛ばし中に行が尽きた場合は false を返します (それ自体はエラーではない)。
func (r *Reader[T]) skipRows(sheet Sheet) bool {
	for i := 0; i < r.linesToSkip; i++ {
		if !r.rs.Next() {
			logger.Debugf("[%s] 全ての行が読み飛ばされました。", sheet.Name())
			return false
		}
		logger.Debugf("[%s] 行 %d を読み飛ばします。", sheet.Name(), i)
		if r.skippedRowsCallback != nil {
			r.skippedRowsCallback(sheet, r.rs)
		}
	}
	return true
}

// Close はワークブックを閉じてリソースを解放します。
func (r *Reader[T]) Close(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.rs = nil
	r.sheet = nil
	if r.workbook == nil {
		return nil
	}
	workbook := r.workbook
	r.workbook = nil
	if err := workbook.Close(); err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("ワークブックのクローズに失敗しました: %s", r.path), err, false, false)
	}
	logger.Debugf("ワークブック '%s' を閉じました。", r.path)
	return nil
}

// SetExecutionContext は ExecutionContext を設定します。
// 保存済みの読み込み位置は次の Open で復元されます。
func (r *Reader[T]) SetExecutionContext(ctx context.Context, ec core.ExecutionContext) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if ec == nil {
		ec = core.NewExecutionContext()
	}
	r.executionContext = ec
	return nil
}

// GetExecutionContext は現在の読み込み位置を保存した ExecutionContext を返します。
func (r *Reader[T]) GetExecutionContext(ctx context.Context) (core.ExecutionContext, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	r.executionContext.Put(ecKeySheetIndex, r.currentSheet)
	if r.rs != nil {
		r.executionContext.Put(ecKeyRowIndex, r.rs.CurrentRowIndex())
	}
	return r.executionContext, nil
}

// Reader が ItemReader インターフェースを満たすことを確認
var _ core.ItemReader[*DefaultItem] = (*Reader[*DefaultItem])(nil)
