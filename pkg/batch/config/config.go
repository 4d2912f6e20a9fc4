package config

import (
	"fmt"
	"strings"
)

// EmbeddedConfig は、設定ファイルの内容を保持するためのフィールドです。
// main.go から渡される埋め込み設定を格納します。
type EmbeddedConfig []byte

// ConnectionPoolConfig はデータベースコネクションプールの設定を保持します。
type ConnectionPoolConfig struct {
	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `yaml:"conn_max_lifetime_seconds"`
}

// DatabaseConfig はデータベース接続の設定を保持します。
type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Sslmode  string `yaml:"sslmode"`
	// アプリケーション固有のマイグレーションファイルのパス
	AppMigrationPath string `yaml:"app_migration_path"`
	// コネクションプール設定
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

// ConnectionString は設定からデータベース接続文字列を組み立てます。
func (c DatabaseConfig) ConnectionString() string {
	switch strings.ToLower(c.Type) {
	case "postgres", "redshift":
		// golang-migrate/migrate が期待する形式に合わせる
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.Database, c.Sslmode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			c.User, c.Password, c.Host, c.Port, c.Database)
	case "snowflake":
		return fmt.Sprintf("%s:%s@%s:%d/%s",
			c.User, c.Password, c.Host, c.Port, c.Database)
	default:
		return ""
	}
}

// ExcelConfig は Excel 入力の設定を保持します。
type ExcelConfig struct {
	// 読み込む Excel ファイルのパス
	Path string `yaml:"path"`
	// ワークブックのフォーマット ("xlsx" または "xls")。空の場合は拡張子から判定します。
	Format string `yaml:"format"`
	// 各シートの先頭で読み飛ばす行数 (全シートに一律適用)
	LinesToSkip int `yaml:"lines_to_skip"`
	// 名前が一致するシートを読み飛ばすリスト
	SheetsToSkip []string `yaml:"sheets_to_skip"`
	// strict モード。true の場合、リソースが存在しない/読めないと Open がエラーになります。
	Strict bool `yaml:"strict"`
}

// BatchConfig はバッチ実行の設定を保持します。
type BatchConfig struct {
	JobName   string `yaml:"job_name"`
	ChunkSize int    `yaml:"chunk_size"`
}

// LoggingConfig はロギングの設定を保持します。
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SystemConfig はシステム全体の設定を保持します。
type SystemConfig struct {
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	Database       DatabaseConfig `yaml:"database"`
	Excel          ExcelConfig    `yaml:"excel"`
	Batch          BatchConfig    `yaml:"batch"`
	System         SystemConfig   `yaml:"system"`
	EmbeddedConfig EmbeddedConfig `yaml:"-"` // 埋め込み設定を格納するためのフィールド。YAMLからは読み込まない。
}

// NewConfig は Config の新しいインスタンスをデフォルト値付きで返します。
func NewConfig() *Config {
	return &Config{
		System: SystemConfig{
			Timezone: "UTC",
			Logging:  LoggingConfig{Level: "INFO"},
		},
		Batch: BatchConfig{
			ChunkSize: 10,
		},
		Excel: ExcelConfig{
			LinesToSkip:  0,
			SheetsToSkip: []string{},
			Strict:       true, // デフォルトは strict
		},
	}
}
