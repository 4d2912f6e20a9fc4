package listener

import (
	"github.com/tigerroll/go_batch_excel/pkg/batch/excel"
	logger "github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
)

// LoggingSkippedRows は読み飛ばされた行をログに出力する RowCallback です。
func LoggingSkippedRows(sheet excel.Sheet, rs excel.RowSet) {
	logger.Infof("行を読み飛ばしました。sheet=%s, rowIndex=%d", sheet.Name(), rs.CurrentRowIndex())
}

// LoggingSkippedSheets は読み飛ばされたシートをログに出力する SheetCallback です。
func LoggingSkippedSheets(sheet excel.Sheet) {
	logger.Infof("シートを読み飛ばしました。sheet=%s, 行数=%d", sheet.Name(), sheet.RowCount())
}
