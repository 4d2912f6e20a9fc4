package app

import (
	"context"
	"io"

	godotenv "github.com/joho/godotenv"

	"github.com/tigerroll/go_batch_excel/pkg/batch/config"
	"github.com/tigerroll/go_batch_excel/pkg/batch/database"
	"github.com/tigerroll/go_batch_excel/pkg/batch/database/connector"
	"github.com/tigerroll/go_batch_excel/pkg/batch/excel"
	core "github.com/tigerroll/go_batch_excel/pkg/batch/job/core"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/exception"
	logger "github.com/tigerroll/go_batch_excel/pkg/batch/util/logger"
	"github.com/tigerroll/go_batch_excel/pkg/batch/util/serialization"

	// フォーマットバインディングの登録
	_ "github.com/tigerroll/go_batch_excel/pkg/batch/excel/xls"
	_ "github.com/tigerroll/go_batch_excel/pkg/batch/excel/xlsx"

	"github.com/tigerroll/go_batch_excel/example/products/domain/entity"
	appListener "github.com/tigerroll/go_batch_excel/example/products/step/listener"
	appProcessor "github.com/tigerroll/go_batch_excel/example/products/step/processor"
	appReader "github.com/tigerroll/go_batch_excel/example/products/step/reader"
	appRepo "github.com/tigerroll/go_batch_excel/example/products/repository"
	appWriter "github.com/tigerroll/go_batch_excel/example/products/step/writer"
)

const jobName = "product-import"

// RunApplication は商品カタログインポートジョブを実行し、終了コードを返します。
func RunApplication(ctx context.Context, envFilePath string, embeddedConfig []byte) int {
	cfg, err := setup(envFilePath, embeddedConfig)
	if err != nil {
		logger.Errorf("アプリケーションの初期化に失敗しました: %v", err)
		return 1
	}

	jobExecution := core.NewJobExecution(jobName, core.NewJobParameters())
	jobExecution.MarkAsStarted()
	logger.Infof("Job '%s' を開始します。JobExecutionID: %s", jobName, jobExecution.ID)

	if err := runImportStep(ctx, cfg, jobExecution); err != nil {
		jobExecution.MarkAsFailed(err)
		logger.Errorf("Job '%s' が失敗しました: %v", jobName, err)
		return 1
	}

	jobExecution.MarkAsCompleted()
	logger.Infof("Job '%s' が正常に完了しました。", jobName)
	return 0
}

// setup は .env と埋め込み YAML から設定をロードし、ロガーを構成します。
func setup(envFilePath string, embeddedConfig []byte) (*config.Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Warnf(".env ファイル '%s' のロードに失敗しました (本番環境では環境変数を使用): %v", envFilePath, err)
		} else {
			logger.Infof(".env ファイル '%s' をロードしました。", envFilePath)
		}
	}

	cfg, err := config.NewBytesConfigLoader(embeddedConfig).Load()
	if err != nil {
		return nil, err
	}
	logger.SetLogLevel(cfg.System.Logging.Level)
	return cfg, nil
}

// runImportStep はワークブックをチャンク単位で読み込み、データベースへ保存するステップです。
func runImportStep(ctx context.Context, cfg *config.Config, jobExecution *core.JobExecution) error {
	stepExecution := core.NewStepExecution("importProducts", jobExecution)
	stepExecution.MarkAsStarted()

	var stepListener core.StepExecutionListener = appListener.NewStepLoggingListener()
	var readListener core.ItemReadListener = appListener.NewReadErrorLoggingListener()
	stepListener.BeforeStep(ctx, stepExecution)
	defer stepListener.AfterStep(ctx, stepExecution)

	conn, err := connector.NewDBConnectionFromConfig(ctx, cfg.Database)
	if err != nil {
		stepExecution.MarkAsFailed(err)
		return err
	}
	defer conn.Close()

	if err := connector.RunMigrations(cfg.Database.Type, cfg.Database.ConnectionString(), cfg.Database.AppMigrationPath); err != nil {
		stepExecution.MarkAsFailed(err)
		return err
	}

	repo, err := appRepo.NewProductRepository(cfg.Database)
	if err != nil {
		stepExecution.MarkAsFailed(err)
		return err
	}

	reader, err := excel.NewReaderFromConfig[*entity.Product](&cfg.Excel, appReader.NewProductRowMapper(),
		excel.WithSkippedRowsCallback[*entity.Product](appListener.LoggingSkippedRows),
		excel.WithSkippedSheetsCallback[*entity.Product](appListener.LoggingSkippedSheets),
	)
	if err != nil {
		stepExecution.MarkAsFailed(err)
		return err
	}

	processor := appProcessor.NewProductProcessor()
	writer := appWriter.NewProductWriter(repo)

	// 前回実行のスナップショットがあれば読み込み位置を復元する
	readerEC := core.NewExecutionContext()
	if raw, ok := stepExecution.ExecutionContext.GetString("reader_context"); ok {
		if err := serialization.UnmarshalExecutionContext([]byte(raw), &readerEC); err != nil {
			stepExecution.MarkAsFailed(err)
			return err
		}
	}

	if err := reader.Open(ctx, readerEC); err != nil {
		stepExecution.MarkAsFailed(err)
		return err
	}
	defer func() {
		if closeErr := reader.Close(ctx); closeErr != nil {
			logger.Warnf("Reader のクローズに失敗しました: %v", closeErr)
		}
	}()

	chunkSize := cfg.Batch.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 10
	}
	chunk := make([]*entity.ProductToStore, 0, chunkSize)

	for {
		item, readErr := reader.Read(ctx)
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			readListener.OnReadError(ctx, readErr)
			stepExecution.MarkAsFailed(readErr)
			return readErr
		}
		stepExecution.ReadCount++

		processed, procErr := processor.Process(ctx, item)
		if procErr != nil {
			stepExecution.MarkAsFailed(procErr)
			return procErr
		}
		if processed == nil {
			stepExecution.FilterCount++
			continue
		}

		chunk = append(chunk, processed)
		if len(chunk) >= chunkSize {
			if err := flushChunk(ctx, conn, writer, reader, stepExecution, chunk); err != nil {
				stepExecution.MarkAsFailed(err)
				return err
			}
			chunk = chunk[:0]
		}
	}

	if len(chunk) > 0 {
		if err := flushChunk(ctx, conn, writer, reader, stepExecution, chunk); err != nil {
			stepExecution.MarkAsFailed(err)
			return err
		}
	}

	stepExecution.MarkAsCompleted()
	return nil
}

// flushChunk はチャンクを1トランザクションで書き込み、コミット後に
// Reader の読み込み位置を StepExecution の ExecutionContext に保存します。
func flushChunk(
	ctx context.Context,
	conn database.DBConnection,
	writer *appWriter.ProductItemWriter,
	reader *excel.Reader[*entity.Product],
	stepExecution *core.StepExecution,
	chunk []*entity.ProductToStore,
) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return exception.NewBatchError("app", "トランザクションの開始に失敗しました", err, true, false)
	}

	if err := writer.Write(ctx, tx, chunk); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Errorf("ロールバックに失敗しました: %v", rbErr)
		}
		stepExecution.RollbackCount++
		return err
	}

	if err := tx.Commit(); err != nil {
		stepExecution.RollbackCount++
		return exception.NewBatchError("app", "コミットに失敗しました", err, true, false)
	}
	stepExecution.CommitCount++
	stepExecution.WriteCount += len(chunk)

	// リスタートに備えて読み込み位置のスナップショットを保存する
	readerEC, err := reader.GetExecutionContext(ctx)
	if err != nil {
		return err
	}
	data, err := serialization.MarshalExecutionContext(readerEC)
	if err != nil {
		return err
	}
	stepExecution.ExecutionContext.Put("reader_context", string(data))
	return nil
}
