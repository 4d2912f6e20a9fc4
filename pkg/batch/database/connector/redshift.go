package connector

import (
	"database/sql"

	_ "github.com/lib/pq" // Redshift は PostgreSQL と互換性があるため、pq ドライバを使用

	"github.com/tigerroll/go_batch_excel/pkg/batch/config"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
)

// redshiftConnector はRedshiftデータベースへの接続を確立するDBConnectorの実装です。
type redshiftConnector struct{}

// Connect はRedshiftデータベースへの接続を確立し、*sql.DBを返します。
func (c *redshiftConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr := cfg.ConnectionString()

	db, err := sql.Open("postgres", connStr) // Redshift は PostgreSQL ドライバを使用
	if err != nil {
		return nil, exception.NewBatchError("database", "Redshift への接続に失敗しました", err, false, false)
	}

	applyConnectionPool(db, cfg.ConnectionPool)

	if err = db.Ping(); err != nil {
		db.Close() // エラー時は接続を閉じる
		return nil, exception.NewBatchError("database", "Redshift への Ping に失敗しました", err, false, false)
	}

	logger.Debugf("Redshift に正常に接続しました。")
	return db, nil
}

// init 関数でredshiftConnectorを登録します。
func init() {
	RegisterConnector("redshift", &redshiftConnector{})
}
