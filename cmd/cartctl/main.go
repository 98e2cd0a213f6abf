package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gomarketplace/internal/config"
	"gomarketplace/internal/infra/db"
	infraRepo "gomarketplace/internal/infra/repository"
	"gomarketplace/internal/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(openFromEnv).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openFromEnv は .env と環境変数から保存先を開く。
func openFromEnv(ctx context.Context) (*session, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	s, err := openSession(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return s, nil
}

// openSession はDBを開いてマイグレーションする。失敗時は開いた接続を閉じる。
func openSession(cfg config.Config, logger *zap.Logger) (*session, error) {
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		_ = db.Close(gormDB)
		return nil, fmt.Errorf("migrate storage: %w", err)
	}

	return &session{
		storage: infraRepo.NewStorageGormRepository(gormDB),
		key:     cfg.StorageKey,
		logger:  logger,
		cleanup: func() {
			_ = logger.Sync()
			_ = db.Close(gormDB)
		},
	}, nil
}
