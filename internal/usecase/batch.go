package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"UniRecommender/internal/domain"
)

// Recommender is the single entry point exposed to outer layers.
type Recommender interface {
	GenerateRecommendations(ctx context.Context, profile domain.StudentProfile) (domain.Recommendation, error)
}

// BatchResult pairs one profile's outcome with its input position.
type BatchResult struct {
	Index          int
	Recommendation domain.Recommendation
	Err            error
}

// RunBatch runs an independent pipeline per profile with at most concurrency in flight.
// A failing profile does not cancel the others; results keep input order.
func RunBatch(ctx context.Context, rec Recommender, profiles []domain.StudentProfile, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]BatchResult, len(profiles))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, profile := range profiles {
		i, profile := i, profile
		g.Go(func() error {
			res, err := rec.GenerateRecommendations(ctx, profile)
			results[i] = BatchResult{Index: i, Recommendation: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
