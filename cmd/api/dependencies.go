package api

import (
	"fmt"
	"log/slog"
	"time"

	ingestrepo "github.com/aryodl/bankdw/internal/domain/ingest/repository"
	ingestservice "github.com/aryodl/bankdw/internal/domain/ingest/service"
	normalizerepo "github.com/aryodl/bankdw/internal/domain/normalize/repository"
	normalizeservice "github.com/aryodl/bankdw/internal/domain/normalize/service"
	"github.com/aryodl/bankdw/internal/domain/report/handler"
	reportrepo "github.com/aryodl/bankdw/internal/domain/report/repository"
	reportservice "github.com/aryodl/bankdw/internal/domain/report/service"

	"github.com/aryodl/bankdw/pkg/config"
	"github.com/aryodl/bankdw/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	ReportRepo    reportrepo.ReportRepository
	NormalizeRepo normalizerepo.NormalizeRepository
	IngestRepo    ingestrepo.IngestRepository

	// Services
	ReportService    *reportservice.ReportService
	NormalizeService *normalizeservice.NormalizeService
	IngestService    *ingestservice.IngestService

	// Handlers
	ReportHandler *handler.ReportHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	d.ReportRepo = reportrepo.NewPostgresReportRepository(d.DB.Pool)
	d.NormalizeRepo = normalizerepo.NewPostgresNormalizeRepository(d.DB.Pool)
	d.IngestRepo = ingestrepo.NewPostgresIngestRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.ReportService = reportservice.NewReportService(d.ReportRepo, d.Logger)
	d.NormalizeService = normalizeservice.NewNormalizeService(d.NormalizeRepo, d.Logger)
	d.IngestService = ingestservice.NewIngestService(d.IngestRepo, d.Logger)

	d.Logger.Info("services initialized")
}

func (d *Dependencies) initHandlers() {
	d.ReportHandler = handler.NewReportHandler(d.ReportService, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
