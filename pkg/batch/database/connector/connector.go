package connector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/tigerroll/go_batch_excel/pkg/batch/config"
	"github.com/tigerroll/go_batch_excel/pkg/batch/database"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
)

// DBConnector は特定のデータベースタイプへの接続を確立するためのインターフェースです。
type DBConnector interface {
	Connect(cfg config.DatabaseConfig) (*sql.DB, error)
}

// connectors は登録された DBConnector の実装を保持するマップです。
var connectors = make(map[string]DBConnector)

// RegisterConnector は指定されたタイプ名で DBConnector を登録します。
func RegisterConnector(dbType string, connector DBConnector) {
	connectors[dbType] = connector
}

// GetSQLDB は設定に基づいて適切なデータベース接続を確立します。
// 登録されたコネクタの中から適切なものを選択して接続します。
func GetSQLDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	connector, ok := connectors[cfg.Type]
	if !ok {
		return nil, exception.NewBatchError("database", fmt.Sprintf("未対応のデータベースタイプ: %s", cfg.Type), nil, false, false)
	}
	return connector.Connect(cfg)
}

// NewDBConnectionFromConfig は設定に基づいて適切なデータベース接続を確立し、
// DBConnection インターフェースに適合させて返します。
func NewDBConnectionFromConfig(ctx context.Context, cfg config.DatabaseConfig) (database.DBConnection, error) {
	rawDB, err := GetSQLDB(cfg)
	if err != nil {
		return nil, err
	}
	// PingContext を呼び出して接続を確認
	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, exception.NewBatchError("database", "データベースへのPingに失敗しました", err, true, false)
	}
	return database.NewSQLDBAdapter(rawDB), nil
}

// RunMigrations は指定されたデータベースDSNとマイグレーションパスに対してマイグレーションを実行します。
// dbType: データベースの種類 (e.g., "postgres")
// dbDSN: データベース接続文字列
// migrationPath: マイグレーションファイルが配置されているパス (e.g., "./migrations")
func RunMigrations(dbType, dbDSN, migrationPath string) error {
	if migrationPath == "" {
		logger.Infof("マイグレーションパスが指定されていません。スキップします。")
		return nil
	}

	logger.Infof("データベースマイグレーションを開始します。DBタイプ: %s, マイグレーションパス: %s", dbType, migrationPath)
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationPath),
		dbDSN,
	)
	if err != nil {
		return exception.NewBatchError("database_migration", fmt.Sprintf("マイグレーションインスタンスの作成に失敗しました: %s", migrationPath), err, false, false)
	}

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return exception.NewBatchError("database_migration", fmt.Sprintf("マイグレーションの適用に失敗しました: %s", migrationPath), err, false, false)
	}

	if err == migrate.ErrNoChange {
		logger.Infof("マイグレーションは不要です。データベースは最新の状態です。")
	} else {
		logger.Infof("マイグレーションが正常に完了しました。")
	}
	return nil
}
