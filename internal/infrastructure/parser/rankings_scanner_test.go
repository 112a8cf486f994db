package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"UniRecommender/internal/ingest"
)

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://rankings.example.org/world?year=2025"
	u, err := buildPageURL(base, 3, 50)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if parsed.Host != "rankings.example.org" {
		t.Fatalf("unexpected host: %s", parsed.Host)
	}

	q := parsed.Query()
	if q.Get("page") != "3" || q.Get("per_page") != "50" || q.Get("year") != "2025" {
		t.Fatalf("unexpected query %s", parsed.RawQuery)
	}
}

func TestParseRow(t *testing.T) {
	t.Parallel()

	html := `
	<table><tbody>
	  <tr>
	    <td class="rank">=14</td>
	    <td><a href="https://www.ntu.edu.sg"><span class="university-name">Nanyang Technological University</span></a></td>
	    <td><img class="flag" alt="Singapore" src="sg.png"></td>
	    <td class="research-areas">Materials, Computer Science</td>
	  </tr>
	</tbody></table>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	record, ok := parseRow(doc.Find("tr").First(), 99)
	if !ok {
		t.Fatalf("parseRow rejected a valid row")
	}
	if record.Name != "Nanyang Technological University" {
		t.Fatalf("unexpected name: %s", record.Name)
	}
	if record.Country != "Singapore" || record.CountryCode != "SG" {
		t.Fatalf("unexpected country: %s/%s", record.Country, record.CountryCode)
	}
	if record.Ranking == nil || *record.Ranking != 14 {
		t.Fatalf("unexpected ranking: %v", record.Ranking)
	}
	if record.Website != "https://www.ntu.edu.sg" {
		t.Fatalf("unexpected website: %s", record.Website)
	}
	if len(record.ResearchAreas) != 2 || record.ResearchAreas[1] != "Computer Science" {
		t.Fatalf("unexpected research areas: %v", record.ResearchAreas)
	}
}

func TestRankingsScannerLoad(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"1": `<table><tbody>
		  <tr><td class="rank">1</td><td class="university-name">Massachusetts Institute of Technology</td><td class="country" data-code="us">United States</td></tr>
		  <tr><td class="rank">2</td><td class="university-name">Imperial College London</td><td class="country">United Kingdom</td></tr>
		</tbody></table>`,
		"2": `<table><tbody>
		  <tr><td class="university-name">University of Oxford</td><td class="country">United Kingdom</td></tr>
		  <tr><td class="rank">4</td><td class="university-name">Imperial College London</td><td class="country">United Kingdom</td></tr>
		</tbody></table>`,
		"3": `<table><tbody>
		  <tr><td class="rank">5</td><td class="university-name">Harvard University</td><td class="country">United States</td></tr>
		</tbody></table>`,
	}

	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)
		_, _ = w.Write([]byte(pages[page]))
	}))
	defer server.Close()

	sc := NewRankingsScanner(server.Client())
	records, err := sc.Load(context.Background(), ingest.Request{
		SourceName: "world",
		Location:   server.URL + "/rankings",
		Options:    map[string]string{"pageSize": "2"},
	})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if len(requested) != 3 {
		t.Fatalf("expected 3 page requests, got %v", requested)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 unique records, got %d", len(records))
	}
	if records[0].CountryCode != "US" {
		t.Fatalf("expected data-code to win, got %q", records[0].CountryCode)
	}
	oxford := records[2]
	if oxford.Name != "University of Oxford" || oxford.Ranking == nil || *oxford.Ranking != 3 {
		t.Fatalf("expected positional rank for unranked row, got %+v", oxford)
	}
	if records[3].Name != "Harvard University" {
		t.Fatalf("unexpected last record %+v", records[3])
	}
}

func TestRankingsScannerUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sc := NewRankingsScanner(server.Client())
	if _, err := sc.Load(context.Background(), ingest.Request{Location: server.URL}); err == nil {
		t.Fatalf("expected error for non-200 page")
	}
}
