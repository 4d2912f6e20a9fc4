package core

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus はジョブ/ステップ実行の状態を表します。
type JobStatus string

const (
	BatchStatusStarting  JobStatus = "STARTING"
	BatchStatusStarted   JobStatus = "STARTED"
	BatchStatusStopping  JobStatus = "STOPPING"
	BatchStatusStopped   JobStatus = "STOPPED"
	BatchStatusCompleted JobStatus = "COMPLETED"
	BatchStatusFailed    JobStatus = "FAILED"
	BatchStatusAbandoned JobStatus = "ABANDONED"
	BatchStatusUnknown   JobStatus = "UNKNOWN"
)

// IsFinished は JobStatus が終了状態かどうかを判定するヘルパーメソッドです。
func (s JobStatus) IsFinished() bool {
	switch s {
	case BatchStatusCompleted, BatchStatusFailed, BatchStatusStopped, BatchStatusAbandoned:
		return true
	default:
		return false
	}
}

// ExitStatus はジョブ/ステップの終了時の詳細なステータスを表します。
type ExitStatus string

const (
	ExitStatusUnknown   ExitStatus = "UNKNOWN"
	ExitStatusCompleted ExitStatus = "COMPLETED"
	ExitStatusFailed    ExitStatus = "FAILED"
	ExitStatusStopped   ExitStatus = "STOPPED"
	ExitStatusNoOp      ExitStatus = "NO_OP"
)

// ExecutionContext はジョブやステップの状態を共有するためのキー-値ストアです。
type ExecutionContext map[string]interface{}

// NewExecutionContext は新しい空の ExecutionContext を作成します。
func NewExecutionContext() ExecutionContext {
	return make(ExecutionContext)
}

// Put は指定されたキーと値で ExecutionContext に値を設定します。
func (ec ExecutionContext) Put(key string, value interface{}) {
	ec[key] = value
}

// Get は指定されたキーの値を取得します。
func (ec ExecutionContext) Get(key string) (interface{}, bool) {
	val, ok := ec[key]
	return val, ok
}

// GetString は指定されたキーの値を文字列として取得します。
// 存在しない場合や型が異なる場合は空文字列と false を返します。
func (ec ExecutionContext) GetString(key string) (string, bool) {
	val, ok := ec[key]
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt は指定されたキーの値を int として取得します。
// 存在しない場合や型が異なる場合は 0 と false を返します。
// JSON 経由で復元された値は float64 になるため、その場合も変換します。
func (ec ExecutionContext) GetInt(key string) (int, bool) {
	val, ok := ec[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// JobParameters はジョブ実行時のパラメータを保持する構造体です。
type JobParameters struct {
	Params map[string]interface{}
}

// NewJobParameters は新しい JobParameters のインスタンスを作成します。
func NewJobParameters() JobParameters {
	return JobParameters{Params: make(map[string]interface{})}
}

// JobExecution はジョブの単一の実行インスタンスを表す構造体です。
type JobExecution struct {
	ID               string
	JobName          string
	Parameters       JobParameters
	StartTime        time.Time
	EndTime          time.Time
	Status           JobStatus
	ExitStatus       ExitStatus
	Failures         []error
	CreateTime       time.Time
	LastUpdated      time.Time
	StepExecutions   []*StepExecution
	ExecutionContext ExecutionContext
}

// NewJobExecution は新しい JobExecution のインスタンスを作成します。
func NewJobExecution(jobName string, params JobParameters) *JobExecution {
	now := time.Now()
	return &JobExecution{
		ID:               uuid.New().String(),
		JobName:          jobName,
		Parameters:       params,
		StartTime:        now,
		Status:           BatchStatusStarting,
		ExitStatus:       ExitStatusUnknown,
		Failures:         make([]error, 0),
		CreateTime:       now,
		LastUpdated:      now,
		StepExecutions:   make([]*StepExecution, 0),
		ExecutionContext: NewExecutionContext(),
	}
}

// MarkAsStarted は JobExecution の状態を実行中に更新します。
func (je *JobExecution) MarkAsStarted() {
	je.Status = BatchStatusStarted
	je.LastUpdated = time.Now()
}

// MarkAsCompleted は JobExecution の状態を正常終了に更新します。
func (je *JobExecution) MarkAsCompleted() {
	now := time.Now()
	je.Status = BatchStatusCompleted
	je.ExitStatus = ExitStatusCompleted
	je.EndTime = now
	je.LastUpdated = now
}

// MarkAsFailed は JobExecution の状態を異常終了に更新し、エラーを記録します。
func (je *JobExecution) MarkAsFailed(err error) {
	now := time.Now()
	je.Status = BatchStatusFailed
	je.ExitStatus = ExitStatusFailed
	if err != nil {
		je.Failures = append(je.Failures, err)
	}
	je.EndTime = now
	je.LastUpdated = now
}

// StepExecution はステップの単一の実行インスタンスを表す構造体です。
type StepExecution struct {
	ID               string
	StepName         string
	JobExecution     *JobExecution // 所属するジョブ実行への参照
	StartTime        time.Time
	EndTime          time.Time
	Status           JobStatus
	ExitStatus       ExitStatus
	Failures         []error
	ReadCount        int
	WriteCount       int
	CommitCount      int
	RollbackCount    int
	FilterCount      int
	ExecutionContext ExecutionContext
	LastUpdated      time.Time
}

// NewStepExecution は新しい StepExecution のインスタンスを作成し、親の JobExecution に登録します。
func NewStepExecution(stepName string, jobExecution *JobExecution) *StepExecution {
	now := time.Now()
	se := &StepExecution{
		ID:               uuid.New().String(),
		StepName:         stepName,
		JobExecution:     jobExecution,
		StartTime:        now,
		Status:           BatchStatusStarting,
		ExitStatus:       ExitStatusUnknown,
		Failures:         make([]error, 0),
		ExecutionContext: NewExecutionContext(),
		LastUpdated:      now,
	}
	if jobExecution != nil {
		jobExecution.StepExecutions = append(jobExecution.StepExecutions, se)
	}
	return se
}

// MarkAsStarted は StepExecution の状態を実行中に更新します。
func (se *StepExecution) MarkAsStarted() {
	se.Status = BatchStatusStarted
	se.LastUpdated = time.Now()
}

// MarkAsCompleted は StepExecution の状態を正常終了に更新します。
func (se *StepExecution) MarkAsCompleted() {
	now := time.Now()
	se.Status = BatchStatusCompleted
	se.ExitStatus = ExitStatusCompleted
	se.EndTime = now
	se.LastUpdated = now
}

// MarkAsFailed は StepExecution の状態を異常終了に更新し、エラーを記録します。
func (se *StepExecution) MarkAsFailed(err error) {
	now := time.Now()
	se.Status = BatchStatusFailed
	se.ExitStatus = ExitStatusFailed
	if err != nil {
		se.Failures = append(se.Failures, err)
	}
	se.EndTime = now
	se.LastUpdated = now
}
