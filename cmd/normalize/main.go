// Command normalize runs the one-time datetime canonicalization over the
// warehouse tables. It must not run while report traffic is being served;
// schedule it in a maintenance window.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aryodl/bankdw/internal/domain/normalize/repository"
	"github.com/aryodl/bankdw/internal/domain/normalize/service"
	"github.com/aryodl/bankdw/pkg/config"
	"github.com/aryodl/bankdw/pkg/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.New(db.Config{
		DSN:             cfg.Database.DSN(),
		MaxConns:        2,
		MaxConnLifetime: 5 * time.Minute,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	svc := service.NewNormalizeService(repository.NewPostgresNormalizeRepository(database.Pool), logger)

	results, err := svc.Run(context.Background())
	if err != nil {
		logger.Error("normalization failed", "error", err, "tables_completed", len(results))
		os.Exit(1)
	}

	logger.Info("normalization completed", "tables", len(results))
}
