// Command loader bulk-loads warehouse CSV exports into the store. Each table
// is read from <dir>/<table>.csv; missing files are skipped.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/aryodl/bankdw/internal/domain/ingest/repository"
	"github.com/aryodl/bankdw/internal/domain/ingest/service"
	"github.com/aryodl/bankdw/pkg/config"
	"github.com/aryodl/bankdw/pkg/db"
)

var dataDir = flag.String("dir", ".", "directory holding the warehouse CSV exports")

func main() {
	flag.Parse()

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
		MaxConns:        4,
		MaxConnLifetime: 5 * time.Minute,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	svc := service.NewIngestService(repository.NewPostgresIngestRepository(database.Pool), logger)

	ctx := context.Background()
	loaded := 0
	for _, table := range service.Tables() {
		path := filepath.Join(*dataDir, table+".csv")

		f, err := os.Open(path)
		if os.IsNotExist(err) {
			logger.Warn("export file missing, skipping", "table", table, "path", path)
			continue
		}
		if err != nil {
			logger.Error("failed to open export", "table", table, "error", err)
			os.Exit(1)
		}

		result, err := svc.Load(ctx, table, f)
		f.Close()
		if err != nil {
			logger.Error("failed to load table", "table", table, "error", err)
			os.Exit(1)
		}

		logger.Info("table loaded", "table", result.Table, "rows", result.Rows)
		loaded++
	}

	logger.Info("warehouse load completed", "tables", loaded)
}
