package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
)

// Format はワークブックのコンテナフォーマットを表します。
type Format string

const (
	// FormatXLSX は OOXML (.xlsx) フォーマットです。
	FormatXLSX Format = "xlsx"
	// FormatXLS はレガシー BIFF (.xls) フォーマットです。
	FormatXLS Format = "xls"
)

// WorkbookOpener はリソースのパスからワークブックを生成する関数です。
// フォーマットごとの実装がこのシグネチャを満たします。
type WorkbookOpener func(path string) (Workbook, error)

// openers は登録された WorkbookOpener の実装を保持するマップです。
var openers = make(map[Format]WorkbookOpener)

// RegisterOpener は指定されたフォーマットで WorkbookOpener を登録します。
// フォーマットごとのバインディングパッケージが init から呼び出します。
func RegisterOpener(format Format, opener WorkbookOpener) {
	openers[format] = opener
}

// OpenWorkbook は設定されたフォーマット (空の場合は拡張子から判定) に応じて
// 登録されたバインディングでワークブックを開きます。
func OpenWorkbook(path string, format Format) (Workbook, error) {
	if format == "" {
		format = detectFormat(path)
	}
	opener, ok := openers[format]
	if !ok {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("未対応のワークブックフォーマット: %q (path=%s)", format, path), nil, false, false)
	}
	return opener(path)
}

// detectFormat はファイル拡張子からフォーマットを判定します。
func detectFormat(path string) Format {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return Format(ext)
}
