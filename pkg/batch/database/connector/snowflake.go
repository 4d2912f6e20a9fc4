package connector

import (
	"database/sql"

	_ "github.com/snowflakedb/gosnowflake" // Snowflake ドライバ

	"github.com/tigerroll/go_batch_excel/pkg/batch/config"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
)

// snowflakeConnector はSnowflakeデータベースへの接続を確立するDBConnectorの実装です。
type snowflakeConnector struct{}

// Connect はSnowflakeデータベースへの接続を確立し、*sql.DBを返します。
func (c *snowflakeConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr := cfg.ConnectionString()

	db, err := sql.Open("snowflake", connStr)
	if err != nil {
		return nil, exception.NewBatchError("database", "Snowflake への接続に失敗しました", err, false, false)
	}

	applyConnectionPool(db, cfg.ConnectionPool)

	if err = db.Ping(); err != nil {
		db.Close() // エラー時は接続を閉じる
		return nil, exception.NewBatchError("database", "Snowflake への Ping に失敗しました", err, false, false)
	}

	logger.Debugf("Snowflake に正常に接続しました。")
	return db, nil
}

// init 関数でsnowflakeConnectorを登録します。
func init() {
	RegisterConnector("snowflake", &snowflakeConnector{})
}
