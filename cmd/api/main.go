package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gomarketplace/internal/config"
	"gomarketplace/internal/handler"
	"gomarketplace/internal/infra/db"
	infraRepo "gomarketplace/internal/infra/repository"
	"gomarketplace/internal/logging"
	"gomarketplace/internal/server"
	"gomarketplace/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(realMain())
}

// realMain は defer を全部走らせてから終了コードを返す。
func realMain() int {
	//.envは任意
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := logging.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gormDB) }()
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	storage := infraRepo.NewStorageGormRepository(gormDB)

	//Usecase生成（セッションにつき1つ）
	cart := usecase.NewCartUsecase(ctx, storage, usecase.CartOptions{
		Key:    cfg.StorageKey,
		Logger: logger,
		OnPersistError: func(err error) {
			logger.Warn("cart will be saved again on next change", zap.Error(err))
		},
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cart.Close(closeCtx); err != nil {
			logger.Error("failed to flush cart", zap.Error(err))
		}
	}()

	//Handler生成
	cartH := handler.NewCartHandler(cart)

	//Server起動
	e := server.New(logger, cartH)
	logger.Info("listening", zap.String("addr", cfg.Addr()), zap.String("storage", cfg.StorageDriver))
	return server.Start(ctx, e, cfg.Addr())
}
