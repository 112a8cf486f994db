package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"UniRecommender/internal/config"
	"UniRecommender/internal/domain"
	"UniRecommender/internal/infrastructure/llm"
	"UniRecommender/internal/infrastructure/parser"
	"UniRecommender/internal/infrastructure/scheduler"
	"UniRecommender/internal/infrastructure/storage"
	"UniRecommender/internal/ingest"
	"UniRecommender/internal/logging"
	"UniRecommender/internal/ports"
	"UniRecommender/internal/usecase"
)

type catalogStore interface {
	ports.Catalog
	ports.CatalogWriter
}

// Application wires configs to use cases and owns the catalog handle.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	catalog  catalogStore
	closer   func() error
	gateway  *llm.Gateway
	pipeline *usecase.Pipeline
	seeder   *usecase.Seeder
}

// New builds the application. The memory catalog driver is seeded from the
// configured sources right away since it starts empty.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging)
	}

	catalog, closer, err := openCatalog(ctx, cfg.Catalog)
	if err != nil {
		return nil, err
	}

	registry := ingest.NewRegistry(
		parser.NewJSONLoader(nil),
		parser.NewRankingsScanner(nil),
	)
	source := parser.NewStrategySource(registry, cfg.Sources, baseLogger.With("component", "source"))
	seeder := usecase.NewSeeder(source, catalog, baseLogger.With("component", "seeder"))

	gateway := llm.NewGateway(cfg.LLM, baseLogger.With("component", "llm"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Catalog: catalog,
		Gateway: gateway,
		Config:  cfg.Pipeline,
		Logger:  baseLogger.With("component", "pipeline"),
	})

	a := &Application{
		cfg:      cfg,
		logger:   baseLogger,
		catalog:  catalog,
		closer:   closer,
		gateway:  gateway,
		pipeline: pipeline,
		seeder:   seeder,
	}

	if strings.EqualFold(cfg.Catalog.Driver, "memory") {
		if _, err := seeder.Seed(ctx); err != nil {
			baseLogger.Warn("memory catalog seeding failed", "error", err)
		}
	}

	return a, nil
}

func openCatalog(ctx context.Context, cfg config.CatalogConfig) (catalogStore, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		c, err := storage.OpenSQLiteCatalog(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case "memory":
		return storage.NewMemoryCatalog(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
	}
}

// Close releases the catalog.
func (a *Application) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// Degraded reports whether the LLM gateway runs without credentials.
func (a *Application) Degraded() bool {
	return a.gateway.Degraded()
}

// Recommend runs the pipeline for a single profile.
func (a *Application) Recommend(ctx context.Context, profile domain.StudentProfile) (domain.Recommendation, error) {
	return a.pipeline.GenerateRecommendations(ctx, profile)
}

// Batch runs the pipeline for every profile with the configured concurrency.
func (a *Application) Batch(ctx context.Context, profiles []domain.StudentProfile) []usecase.BatchResult {
	return usecase.RunBatch(ctx, a.pipeline, profiles, a.cfg.Batch.Concurrency)
}

// Search queries the catalog by name, country or research area.
func (a *Application) Search(ctx context.Context, query string, limit int) ([]domain.University, error) {
	return a.catalog.Search(ctx, query, limit)
}

// Filter queries the catalog with explicit criteria.
func (a *Application) Filter(ctx context.Context, criteria domain.CatalogCriteria) ([]domain.University, error) {
	return a.catalog.Filter(ctx, criteria)
}

// Countries lists the consolidated catalog countries.
func (a *Application) Countries(ctx context.Context) ([]domain.Country, error) {
	return a.catalog.Countries(ctx)
}

// Seed loads every configured source into the catalog once.
func (a *Application) Seed(ctx context.Context) (int, error) {
	return a.seeder.Seed(ctx)
}

// Watch re-seeds the catalog on the configured interval until ctx is cancelled.
func (a *Application) Watch(ctx context.Context) error {
	refresher := usecase.NewRefreshScheduler(
		scheduler.NewIntervalScheduler(a.cfg.Catalog.RefreshInterval),
		a.seeder,
		a.logger.With("component", "refresh"),
	)
	if err := refresher.Start(ctx); err != nil {
		return fmt.Errorf("start refresh: %w", err)
	}

	<-ctx.Done()
	return refresher.Stop(context.Background())
}
