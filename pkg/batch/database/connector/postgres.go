package connector

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq" // PostgreSQL ドライバ

	"github.com/tigerroll/go_batch_excel/pkg/batch/config"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
)

// postgresConnector はPostgreSQLデータベースへの接続を確立するDBConnectorの実装です。
type postgresConnector struct{}

// Connect はPostgreSQLデータベースへの接続を確立し、*sql.DBを返します。
func (c *postgresConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr := cfg.ConnectionString()

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, exception.NewBatchError("database", "PostgreSQL への接続に失敗しました", err, false, false)
	}

	applyConnectionPool(db, cfg.ConnectionPool)

	if err = db.Ping(); err != nil {
		db.Close() // エラー時は接続を閉じる
		return nil, exception.NewBatchError("database", "PostgreSQL への Ping に失敗しました", err, false, false)
	}

	logger.Debugf("PostgreSQL に正常に接続しました。")
	return db, nil
}

// applyConnectionPool はコネクションプール設定を *sql.DB に適用します。
func applyConnectionPool(db *sql.DB, pool config.ConnectionPoolConfig) {
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
}

// init 関数でpostgresConnectorを登録します。
func init() {
	RegisterConnector("postgres", &postgresConnector{})
}
