package ports

import (
	"context"
	"time"

	"UniRecommender/internal/domain"
)

// Catalog exposes read access to university records.
type Catalog interface {
	AllUniversities(ctx context.Context) ([]domain.University, error)
	Filter(ctx context.Context, criteria domain.CatalogCriteria) ([]domain.University, error)
	Search(ctx context.Context, query string, limit int) ([]domain.University, error)
	Countries(ctx context.Context) ([]domain.Country, error)
}

// CatalogWriter persists records produced by catalog sources.
type CatalogWriter interface {
	Upsert(ctx context.Context, records []domain.University) (int, error)
}

// CatalogSource pulls university records from configured upstream sources.
type CatalogSource interface {
	FetchAll(ctx context.Context) ([]domain.University, error)
}

// Gateway wraps a single chat-completion call.
// Implementations return domain.ErrGatewayUnavailable when no credentials are configured
// and *domain.GatewayRequestError on transport or upstream failures. They never retry.
type Gateway interface {
	Complete(ctx context.Context, req domain.Completion) (string, error)
}

// Scheduler drives a recurring job until stopped or the context ends.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
