package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/example/engtrainer/internal/config"
	"github.com/example/engtrainer/internal/database"
	"github.com/example/engtrainer/internal/excel"
	"github.com/example/engtrainer/internal/logger"
	"github.com/example/engtrainer/internal/progress"
	"github.com/example/engtrainer/internal/trainer"
)

// openTrainer picks the storage backend from the configuration and loads the trainer
func openTrainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*trainer.Trainer, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var (
		source    trainer.CatalogSource
		persister trainer.Persister
		closeFn   = func() {}
	)

	switch cfg.DBType {
	case config.StorageJSON:
		source = excel.NewFileCatalog(cfg.CatalogPath).WithLogger(log)
		persister = progress.NewFileStore(cfg.DataDir, log)
	default:
		driver, dsn := database.DriverSQLite, cfg.SQLiteDSN()
		if cfg.DBType == config.StoragePostgres {
			driver, dsn = database.DriverPostgres, cfg.DatabaseURL
		}
		db, err := database.Connect(driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() { db.Close() }

		words := database.NewWordRepository(db)
		if err := seedWords(ctx, db, words, cfg.CatalogPath, log); err != nil {
			closeFn()
			return nil, nil, err
		}
		source = words
		persister = database.NewProgressRepository(db)
	}

	t := trainer.New(source, persister, trainer.Options{Logger: log})
	if err := t.Open(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return t, closeFn, nil
}

// seedWords fills an empty words table from the catalog file
func seedWords(ctx context.Context, db *sqlx.DB, words *database.WordRepository, path string, log *logger.Logger) error {
	n, err := words.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	list, err := excel.NewFileCatalog(path).WithLogger(log).LoadWords(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	if err := words.AppendWords(ctx, list); err != nil {
		return err
	}
	log.Info("seeded words table", "driver", db.DriverName(), "file", path, "words", len(list))
	return nil
}
