package core

import (
	"context"

	"github.com/tigerroll/go_batch_excel/pkg/batch/database"
)

// ItemReader はデータを読み込むステップのインターフェースです。
// O は読み込まれるアイテムの型です。
type ItemReader[O any] interface {
	Open(ctx context.Context, ec ExecutionContext) error // リソースを開き、ExecutionContext から状態を復元
	Read(ctx context.Context) (O, error)                 // 読み込んだデータを O 型で返す。終端では io.EOF を返す
	Close(ctx context.Context) error                     // リソースを解放するためのメソッド
	SetExecutionContext(ctx context.Context, ec ExecutionContext) error // ExecutionContext を設定
	GetExecutionContext(ctx context.Context) (ExecutionContext, error)  // ExecutionContext を取得
}

// ItemProcessor はアイテムを処理するステップのインターフェースです。
// I は入力アイテムの型、O は出力アイテムの型です。
type ItemProcessor[I, O any] interface {
	Process(ctx context.Context, item I) (O, error)
}

// ItemWriter はデータを書き込むステップのインターフェースです。
// I は書き込まれるアイテムの型です。
type ItemWriter[I any] interface {
	Open(ctx context.Context, ec ExecutionContext) error
	Write(ctx context.Context, tx database.Tx, items []I) error // 書き込むデータを I 型のスライスで扱い、トランザクションを受け取る
	Close(ctx context.Context) error
}

// StepExecutionListener はステップ実行イベントを処理するためのインターフェースです。
type StepExecutionListener interface {
	BeforeStep(ctx context.Context, stepExecution *StepExecution)
	AfterStep(ctx context.Context, stepExecution *StepExecution)
}

// ItemReadListener はアイテム読み込みイベントを処理するためのインターフェースです。
type ItemReadListener interface {
	OnReadError(ctx context.Context, err error) // 読み込みエラー時に呼び出されます
}
