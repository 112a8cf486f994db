package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"UniRecommender/internal/domain"
)

type manualScheduler struct {
	job     func(time.Time)
	stopped bool
}

func (m *manualScheduler) Start(_ context.Context, job func(time.Time)) error {
	m.job = job
	return nil
}

func (m *manualScheduler) Stop(context.Context) error {
	m.stopped = true
	return nil
}

type countingWriter struct {
	mu    sync.Mutex
	calls int
}

func (c *countingWriter) Upsert(_ context.Context, records []domain.University) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return len(records), nil
}

func TestRefreshSchedulerSeedsOnEveryTick(t *testing.T) {
	t.Parallel()

	driver := &manualScheduler{}
	writer := &countingWriter{}
	seeder := NewSeeder(fakeSource{records: []domain.University{{Name: "Aalto University", Country: "Finland"}}}, writer, nil)

	s := NewRefreshScheduler(driver, seeder, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if driver.job == nil {
		t.Fatalf("job was not registered")
	}

	driver.job(time.Now())
	driver.job(time.Now())
	if writer.calls != 2 {
		t.Fatalf("expected 2 refreshes, got %d", writer.calls)
	}

	if err := s.Stop(context.Background()); err != nil || !driver.stopped {
		t.Fatalf("Stop must reach the driver: %v", err)
	}
}

func TestRefreshSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	s := NewRefreshScheduler(nil, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start without driver must be a no-op, got %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop without driver must be a no-op, got %v", err)
	}
}
