package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
)

// ConfigLoader は設定をロードするためのインターフェースです。
type ConfigLoader interface {
	Load() (*Config, error)
}

// BytesConfigLoader はバイトスライスから設定をロードする ConfigLoader の実装です。
type BytesConfigLoader struct {
	data []byte
}

// NewBytesConfigLoader は新しい BytesConfigLoader のインスタンスを作成します。
func NewBytesConfigLoader(data []byte) *BytesConfigLoader {
	return &BytesConfigLoader{data: data}
}

// Load は埋め込まれたバイトスライスから設定をロードします。
// デフォルト値の上に YAML を重ね、さらに環境変数で個別の設定値を上書きします。
func (l *BytesConfigLoader) Load() (*Config, error) {
	cfg := NewConfig()

	if err := yaml.Unmarshal(l.data, cfg); err != nil {
		return nil, exception.NewBatchError("config", "YAML設定のパースに失敗しました", err, false, false)
	}

	loadEnvVars(cfg)

	return cfg, nil
}

// 環境変数で個別の設定値を上書きする関数
func loadEnvVars(cfg *Config) {
	// Database 設定
	if dbType := os.Getenv("DATABASE_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPortStr := os.Getenv("DATABASE_PORT"); dbPortStr != "" {
		if dbPort, err := strconv.Atoi(dbPortStr); err == nil {
			cfg.Database.Port = dbPort
		}
	}
	if dbName := os.Getenv("DATABASE_DATABASE"); dbName != "" {
		cfg.Database.Database = dbName
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DATABASE_PASSWORD"); dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	if dbSSLMode := os.Getenv("DATABASE_SSLMODE"); dbSSLMode != "" {
		cfg.Database.Sslmode = dbSSLMode
	}

	// Excel 設定
	if path := os.Getenv("EXCEL_PATH"); path != "" {
		cfg.Excel.Path = path
	}
	if format := os.Getenv("EXCEL_FORMAT"); format != "" {
		cfg.Excel.Format = format
	}
	if linesStr := os.Getenv("EXCEL_LINES_TO_SKIP"); linesStr != "" {
		if lines, err := strconv.Atoi(linesStr); err == nil {
			cfg.Excel.LinesToSkip = lines
		}
	}
	if sheets := os.Getenv("EXCEL_SHEETS_TO_SKIP"); sheets != "" {
		cfg.Excel.SheetsToSkip = strings.Split(sheets, ",")
	}
	if strictStr := os.Getenv("EXCEL_STRICT"); strictStr != "" {
		if strict, err := strconv.ParseBool(strictStr); err == nil {
			cfg.Excel.Strict = strict
		}
	}

	// System 設定
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.System.Logging.Level = logLevel
	}
}
