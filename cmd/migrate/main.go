package main

import (
	"context"
	"fmt"
	"os"

	"messages-bot/internal/config"
	"messages-bot/internal/storage"
	"messages-bot/pkg/logger"

	"go.uber.org/zap"
)

const usage = "usage: migrate up|down|status"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New("info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx := context.Background()
	pgStorage, err := storage.NewPostgresStorage(ctx, dbCfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	db := pgStorage.DB().DB
	switch os.Args[1] {
	case "up":
		err = storage.RunMigrations(ctx, db, zapLogger)
	case "down":
		err = storage.RollbackMigration(ctx, db, zapLogger)
	case "status":
		err = storage.MigrationStatus(ctx, db, zapLogger)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		zapLogger.Fatal("Migration failed", zap.Error(err))
	}
}
