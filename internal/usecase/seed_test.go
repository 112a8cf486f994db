package usecase

import (
	"context"
	"errors"
	"testing"

	"UniRecommender/internal/domain"
)

type fakeSource struct {
	records []domain.University
	err     error
}

func (f fakeSource) FetchAll(context.Context) ([]domain.University, error) {
	return f.records, f.err
}

type fakeWriter struct {
	written []domain.University
	err     error
}

func (f *fakeWriter) Upsert(_ context.Context, records []domain.University) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.written = append(f.written, records...)
	return len(records), nil
}

func TestSeederDeduplicates(t *testing.T) {
	t.Parallel()

	src := fakeSource{records: []domain.University{
		{Name: "University of Cape Town", Country: "South Africa"},
		{Name: "", Country: "Nowhere"},
		{Name: "university of cape town ", Country: "south africa", Website: "https://uct.ac.za"},
		{Name: "University of Cape Town", Country: "Namibia"},
	}}
	writer := &fakeWriter{}

	n, err := NewSeeder(src, writer, nil).Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed error: %v", err)
	}
	if n != 2 || len(writer.written) != 2 {
		t.Fatalf("expected 2 unique records, got n=%d written=%d", n, len(writer.written))
	}
	if writer.written[0].Website != "https://uct.ac.za" {
		t.Fatalf("later duplicate must win, got %+v", writer.written[0])
	}
}

func TestSeederErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	if _, err := NewSeeder(fakeSource{err: boom}, &fakeWriter{}, nil).Seed(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if _, err := NewSeeder(fakeSource{records: []domain.University{{Name: "X"}}}, &fakeWriter{err: boom}, nil).Seed(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected writer error, got %v", err)
	}
	if _, err := NewSeeder(nil, nil, nil).Seed(context.Background()); err == nil {
		t.Fatalf("expected error for unconfigured seeder")
	}
}
