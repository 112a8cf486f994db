package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"UniRecommender/internal/ingest"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestJSONLoaderNativeRecords(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "universities.json", `[
	  {"name": "ETH Zurich", "country": "Switzerland", "ranking": 7, "tuition_fee": 1500,
	   "scholarship_available": true, "research_areas": ["Engineering", "Physics"]},
	  {"name": "  ", "country": "Nowhere"},
	  {"name": "Unranked College", "country": "Kenya", "country_code": "ke"}
	]`)

	loader := NewJSONLoader(nil)
	records, err := loader.Load(context.Background(), ingest.Request{SourceName: "local", Location: path})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected nameless record to be skipped, got %d records", len(records))
	}

	eth := records[0]
	if eth.Ranking == nil || *eth.Ranking != 7 {
		t.Fatalf("unexpected ranking %v", eth.Ranking)
	}
	if eth.TuitionFee == nil || *eth.TuitionFee != 1500 {
		t.Fatalf("unexpected tuition %v", eth.TuitionFee)
	}
	if eth.CountryCode != "CH" {
		t.Fatalf("expected backfilled country code, got %q", eth.CountryCode)
	}
	if !eth.ScholarshipAvailable || len(eth.ResearchAreas) != 2 {
		t.Fatalf("unexpected record %+v", eth)
	}

	if records[1].Ranking != nil || records[1].CountryCode != "KE" {
		t.Fatalf("unexpected record %+v", records[1])
	}
}

func TestJSONLoaderRankingsExport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"universities": [
		  {"name": "Imperial College London", "country": "United Kingdom", "rank": "=2",
		   "web_address": "https://imperial.ac.uk",
		   "subjects": ["Engineering 3rd", "Medicine", "AI", "Medicine"]}
		]}`))
	}))
	defer server.Close()

	loader := NewJSONLoader(server.Client())
	records, err := loader.Load(context.Background(), ingest.Request{SourceName: "qs", Location: server.URL + "/export.json"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.Ranking == nil || *got.Ranking != 2 {
		t.Fatalf("unexpected ranking %v", got.Ranking)
	}
	if got.Website != "https://imperial.ac.uk" || got.CountryCode != "GB" {
		t.Fatalf("unexpected record %+v", got)
	}
	want := []string{"Engineering", "Medicine"}
	if len(got.ResearchAreas) != len(want) || got.ResearchAreas[0] != want[0] || got.ResearchAreas[1] != want[1] {
		t.Fatalf("unexpected research areas %v", got.ResearchAreas)
	}
}

func TestJSONLoaderErrors(t *testing.T) {
	t.Parallel()

	loader := NewJSONLoader(nil)
	if _, err := loader.Load(context.Background(), ingest.Request{SourceName: "empty"}); err == nil {
		t.Fatalf("expected error without location")
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	if _, err := loader.Load(context.Background(), ingest.Request{Location: missing}); err == nil {
		t.Fatalf("expected error for missing file")
	}

	broken := writeFile(t, "broken.json", `{"universities": [`)
	if _, err := loader.Load(context.Background(), ingest.Request{Location: broken}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRankFromText(t *testing.T) {
	t.Parallel()

	cases := map[string]int{"12": 12, "=5": 5, "501-510": 501, "#3": 3}
	for in, want := range cases {
		got := rankFromText(in)
		if got == nil || *got != want {
			t.Fatalf("rankFromText(%q) = %v, want %d", in, got, want)
		}
	}
	for _, in := range []string{"", "n/a", "0"} {
		if got := rankFromText(in); got != nil {
			t.Fatalf("rankFromText(%q) = %d, want nil", in, *got)
		}
	}
}
