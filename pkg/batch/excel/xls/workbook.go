package xls

import (
	"bytes"
	"fmt"
	"os"

	xlslib "github.com/extrame/xls"

	excel "github.com/tigerroll/go_batch_excel/pkg/batch/excel"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
)

// workbook はレガシー BIFF (.xls) フォーマットの excel.Workbook 実装です。
// 全シートの行をオープン時に読み込むため、ファイルハンドルは保持しません。
type workbook struct {
	sheets []*sheet
}

// sheet は読み込み済みの行を保持する excel.Sheet の実装です。
type sheet struct {
	name string
	rows [][]string
}

// Open はレガシー BIFF (.xls) ワークブックを開き、全シートの行を読み込みます。
func Open(path string) (excel.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exception.NewBatchError("excel_xls", fmt.Sprintf("ワークブックの読み込みに失敗しました: %s", path), err, false, false)
	}

	wb, err := xlslib.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, exception.NewBatchError("excel_xls", fmt.Sprintf("ワークブックのオープンに失敗しました: %s", path), err, false, false)
	}

	sheets := make([]*sheet, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		sheets = append(sheets, &sheet{name: ws.Name, rows: readRows(ws)})
	}
	return &workbook{sheets: sheets}, nil
}

// readRows はワークシートの全行をセル値のスライスに変換します。
// MaxRow は最終行のインデックスであり、空シートでも 0 を返すため、
// 行の有無は Row の結果で判定します。
func readRows(ws *xlslib.WorkSheet) [][]string {
	maxRow := int(ws.MaxRow)
	rows := make([][]string, 0, maxRow+1)
	for r := 0; r <= maxRow; r++ {
		row := ws.Row(r)
		if row == nil {
			if maxRow == 0 {
				break // 行を一つも持たないシート
			}
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows
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

// Close はワークブックのリソースを解放します。
// 行はオープン時に全て読み込み済みのため、解放するものはありません。
func (w *workbook) Close() error {
	return nil
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

// init 関数で xls フォーマットのバインディングを登録します。
func init() {
	excel.RegisterOpener(excel.FormatXLS, Open)
}
