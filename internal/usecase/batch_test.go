package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"UniRecommender/internal/domain"
)

type recorderFunc func(ctx context.Context, profile domain.StudentProfile) (domain.Recommendation, error)

func (f recorderFunc) GenerateRecommendations(ctx context.Context, profile domain.StudentProfile) (domain.Recommendation, error) {
	return f(ctx, profile)
}

func TestRunBatchKeepsOrderAndIsolatesFailures(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakeCatalog{records: sampleCatalog()}, nil)

	germany := germanProfile()
	japan := domain.StudentProfile{PreferredCountry: "Japan"}
	invalid := domain.StudentProfile{BudgetPreference: "lottery"}

	results := RunBatch(context.Background(), p, []domain.StudentProfile{germany, invalid, japan}, 2)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Err != nil || results[0].Recommendation.Universities[0].Name != "Technical University of Munich" {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if !errors.Is(results[1].Err, domain.ErrInvalidProfile) {
		t.Fatalf("expected invalid profile error, got %v", results[1].Err)
	}
	if results[2].Err != nil || results[2].Recommendation.Universities[0].Name != "University of Tokyo" {
		t.Fatalf("unexpected third result %+v", results[2])
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d carries index %d", i, r.Index)
		}
	}
}

func TestRunBatchBoundsConcurrency(t *testing.T) {
	t.Parallel()

	var inFlight, peak int32
	rec := recorderFunc(func(context.Context, domain.StudentProfile) (domain.Recommendation, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return domain.Recommendation{}, nil
	})

	RunBatch(context.Background(), rec, make([]domain.StudentProfile, 8), 2)
	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Fatalf("expected at most 2 concurrent runs, saw %d", got)
	}
}
