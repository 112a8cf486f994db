package parser

import (
	"context"
	"fmt"
	"log/slog"

	"UniRecommender/internal/config"
	"UniRecommender/internal/domain"
	"UniRecommender/internal/ingest"
	"UniRecommender/internal/ports"
)

// StrategySource implements CatalogSource via registered loader strategies.
type StrategySource struct {
	registry *ingest.Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.CatalogSource = (*StrategySource)(nil)

// NewStrategySource wires the loader registry with config-defined sources.
func NewStrategySource(reg *ingest.Registry, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// FetchAll iterates over configured sources and executes their loaders.
// Records are returned in source order; later sources win when the seeder deduplicates.
func (s *StrategySource) FetchAll(ctx context.Context) ([]domain.University, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("loader registry is not configured")
	}

	s.debug("fetch sources", "sources", len(s.sources))

	var aggregated []domain.University
	for _, src := range s.sources {
		s.debug("process source", "source", src.Name, "loader", src.Loader, "location", src.Location)
		loader, err := s.registry.Resolve(src.Loader)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		req := ingest.Request{
			SourceName: src.Name,
			Location:   src.Location,
			Options:    src.Options,
		}

		results, err := loader.Load(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", src.Name, err)
		}

		s.debug("source produced records", "source", src.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_records", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
