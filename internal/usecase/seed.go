package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"UniRecommender/internal/domain"
	"UniRecommender/internal/logging"
	"UniRecommender/internal/ports"
)

// Seeder copies records from catalog sources into the catalog store.
type Seeder struct {
	source ports.CatalogSource
	writer ports.CatalogWriter
	logger *slog.Logger
}

// NewSeeder wires a source with a writer.
func NewSeeder(source ports.CatalogSource, writer ports.CatalogWriter, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Seeder{source: source, writer: writer, logger: logger}
}

// Seed fetches every source and upserts the deduplicated records.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	if s.source == nil || s.writer == nil {
		return 0, fmt.Errorf("seeder is not configured")
	}

	records, err := s.source.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch sources: %w", err)
	}

	unique := dedupe(records)
	s.logger.Info("seeding catalog", "fetched", len(records), "unique", len(unique))

	n, err := s.writer.Upsert(ctx, unique)
	if err != nil {
		return n, fmt.Errorf("upsert catalog: %w", err)
	}
	return n, nil
}

// dedupe keeps the last record per (name, country), skipping nameless rows.
func dedupe(records []domain.University) []domain.University {
	index := make(map[string]int, len(records))
	out := make([]domain.University, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(r.Name)) + "|" + strings.ToLower(strings.TrimSpace(r.Country))
		if i, ok := index[key]; ok {
			out[i] = r
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}
