package listener

import (
	"context"

	core "github.com/tigerroll/go_batch_excel/pkg/batch/job/core"
	logger "github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
)

// StepLoggingListener はステップの開始と終了をログに出力する
// StepExecutionListener の実装です。
type StepLoggingListener struct{}

// NewStepLoggingListener は新しい StepLoggingListener のインスタンスを作成します。
func NewStepLoggingListener() *StepLoggingListener {
	return &StepLoggingListener{}
}

// BeforeStep はステップ実行前に呼び出されます。
func (l *StepLoggingListener) BeforeStep(ctx context.Context, stepExecution *core.StepExecution) {
	logger.Infof("ステップ '%s' を開始します。StepExecutionID: %s", stepExecution.StepName, stepExecution.ID)
}

// AfterStep はステップ実行後に呼び出され、実行結果のサマリをログに出力します。
func (l *StepLoggingListener) AfterStep(ctx context.Context, stepExecution *core.StepExecution) {
	logger.Infof("ステップ '%s' が終了しました。Status: %s, ReadCount: %d, WriteCount: %d, FilterCount: %d, CommitCount: %d, RollbackCount: %d",
		stepExecution.StepName, stepExecution.Status,
		stepExecution.ReadCount, stepExecution.WriteCount, stepExecution.FilterCount,
		stepExecution.CommitCount, stepExecution.RollbackCount)
}

// ReadErrorLoggingListener は読み込みエラーをログに出力する ItemReadListener の実装です。
type ReadErrorLoggingListener struct{}

// NewReadErrorLoggingListener は新しい ReadErrorLoggingListener のインスタンスを作成します。
func NewReadErrorLoggingListener() *ReadErrorLoggingListener {
	return &ReadErrorLoggingListener{}
}

// OnReadError は読み込みエラー時に呼び出されます。
func (l *ReadErrorLoggingListener) OnReadError(ctx context.Context, err error) {
	logger.Errorf("アイテムの読み込みに失敗しました: %v", err)
}

// 各リスナーがインターフェースを満たすことを確認
var (
	_ core.StepExecutionListener = (*StepLoggingListener)(nil)
	_ core.ItemReadListener      = (*ReadErrorLoggingListener)(nil)
)
