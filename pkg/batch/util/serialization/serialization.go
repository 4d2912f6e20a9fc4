package serialization

import (
	"encoding/json"

	core "github.com/tigerroll/go_batch_excel/pkg/batch/job/core"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	logger "github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
)

// MarshalExecutionContext は ExecutionContext を JSON バイトスライスにシリアライズします。
func MarshalExecutionContext(ec core.ExecutionContext) ([]byte, error) {
	module := "serialization"

	if ec == nil {
		logger.Debugf("ExecutionContext が nil です。空のJSONオブジェクトを返します。")
		return []byte("{}"), nil
	}
	data, err := json.Marshal(ec)
	if err != nil {
		return nil, exception.NewBatchError(module, "ExecutionContext のシリアライズに失敗しました", err, false, false)
	}
	return data, nil
}

// UnmarshalExecutionContext は JSON バイトスライスを ExecutionContext にデシリアライズします。
func UnmarshalExecutionContext(data []byte, ec *core.ExecutionContext) error {
	module := "serialization"

	if *ec == nil {
		*ec = core.NewExecutionContext()
	} else {
		for k := range *ec {
			delete(*ec, k)
		}
	}

	if len(data) == 0 || string(data) == "null" {
		logger.Debugf("ExecutionContext のデータが空です。空の ExecutionContext を返します。")
		return nil
	}

	if err := json.Unmarshal(data, ec); err != nil {
		return exception.NewBatchError(module, "ExecutionContext のデシリアライズに失敗しました", err, false, false)
	}
	return nil
}
