package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	excel "github.com/tigerroll/go_batch_excel/pkg/batch/excel"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
)

// workbook は excelize をバックエンドとする excel.Workbook の実装です。
type workbook struct {
	f      *excelize.File
	sheets []*sheet
}

// sheet は読み込み済みの行を保持する excel.Sheet の実装です。
type sheet struct {
	name string
	rows [][]string
}

// Open は OOXML (.xlsx) ワークブックを開き、全シートの行を読み込みます。
func Open(path string) (excel.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, exception.NewBatchError("excel_xlsx", fmt.Sprintf("ワークブックのオープンに失敗しました: %s", path), err, false, false)
	}

	names := f.GetSheetList()
	sheets := make([]*sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			f.Close()
			return nil, exception.NewBatchError("excel_xlsx", fmt.Sprintf("シート %s の読み込みに失敗しました", name), err, false, false)
		}
		sheets = append(sheets, &sheet{name: name, rows: rows})
	}
	return &workbook{f: f, sheets: sheets}, nil
}

// SheetCount はシート数を返します。
func (w *workbook) SheetCount() int {
	return len(w.sheets)
}

// Sheet は指定されたインデックスのシートを返します。範囲外の場合は nil を返します。
func (w *workbook) Sheet(index int) excel.Sheet {
	if index < 0 || index >= len(w.sheets) {
		return nil
	}
	return w.sheets[index]
}

// Close は元のファイルハンドルを閉じます。
func (w *workbook) Close() error {
	return w.f.Close()
}

// Name はシート名を返します。
func (s *sheet) Name() string {
	return s.name
}

// RowCount はシートの行数を返します。
func (s *sheet) RowCount() int {
	return len(s.rows)
}

// Row は指定されたインデックスの行を返します。
func (s *sheet) Row(index int) []string {
	if index < 0 || index >= len(s.rows) {
		return nil
	}
	return s.rows[index]
}

// init 関数で xlsx フォーマットのバインディングを登録します。
func init() {
	excel.RegisterOpener(excel.FormatXLSX, Open)
}
