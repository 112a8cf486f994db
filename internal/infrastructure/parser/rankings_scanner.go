package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"UniRecommender/internal/domain"
	"UniRecommender/internal/ingest"
)

const (
	defaultRowSelector = "table tbody tr"
	defaultPageSize    = 100
	defaultMaxPages    = 20
)

var (
	nameSelectors    = []string{".university-name", ".institution-name", `a[href*="universities"]`, "h3", "h4", "a[title]", "strong", ".name"}
	countrySelectors = []string{".country", ".location", "img[alt]", ".flag"}
)

// RankingsScanner crawls paginated rankings tables and extracts ranked universities.
//
// Options: rowSelector (default "table tbody tr"), pageSize (100), maxPages (20).
// Remote pages are requested with page/per_page query parameters until one returns
// fewer rows than pageSize. Local files are read once.
type RankingsScanner struct {
	client *http.Client
}

// NewRankingsScanner wires an HTTP client.
func NewRankingsScanner(client *http.Client) *RankingsScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RankingsScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *RankingsScanner) Name() string {
	return "rankings"
}

// Load walks the rankings pages at req.Location and returns one record per row.
func (s *RankingsScanner) Load(ctx context.Context, req ingest.Request) ([]domain.University, error) {
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("no location provided for source %s", req.SourceName)
	}

	rowSelector := req.Option("rowSelector", defaultRowSelector)
	pageSize := positiveOption(req, "pageSize", defaultPageSize)
	maxPages := positiveOption(req, "maxPages", defaultMaxPages)

	results := make([]domain.University, 0)
	seen := map[string]struct{}{}
	fallbackRank := 0

	for page := 1; page <= maxPages; page++ {
		pageURL := req.Location
		if isRemote(req.Location) {
			var err error
			if pageURL, err = buildPageURL(req.Location, page, pageSize); err != nil {
				return nil, err
			}
		}

		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		rows := doc.Find(rowSelector)
		rows.Each(func(_ int, row *goquery.Selection) {
			fallbackRank++
			record, ok := parseRow(row, fallbackRank)
			if !ok {
				return
			}
			key := strings.ToLower(record.Name + "|" + record.Country)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			results = append(results, record)
		})

		if !isRemote(req.Location) || rows.Length() < pageSize {
			break
		}
	}

	return results, nil
}

func (s *RankingsScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := open(ctx, s.client, pageURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// parseRow extracts one university. fallbackRank is the row position across pages
// and is used when the row carries no rank cell.
func parseRow(row *goquery.Selection, fallbackRank int) (domain.University, bool) {
	name := firstText(row, nameSelectors)
	if len(name) <= 3 {
		return domain.University{}, false
	}

	country := ""
	for _, sel := range countrySelectors {
		el := row.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if goquery.NodeName(el) == "img" {
			country, _ = el.Attr("alt")
		} else {
			country = el.Text()
		}
		if country = strings.TrimSpace(country); country != "" {
			break
		}
	}

	code := ""
	if v, ok := row.Find(".country").First().Attr("data-code"); ok {
		code = strings.ToUpper(strings.TrimSpace(v))
	}
	if code == "" {
		code = knownCountryCodes[country]
	}

	ranking := rankFromText(row.Find(".rank").First().Text())
	if ranking == nil {
		if v, ok := row.Attr("data-rank"); ok {
			ranking = rankFromText(v)
		}
	}
	if ranking == nil {
		r := fallbackRank
		ranking = &r
	}

	website, _ := row.Find("a[href]").First().Attr("href")

	var research []string
	for _, area := range strings.Split(row.Find(".research-areas").First().Text(), ",") {
		if area = strings.TrimSpace(area); area != "" {
			research = append(research, area)
		}
	}

	return domain.University{
		Name:          name,
		Country:       country,
		CountryCode:   code,
		Ranking:       ranking,
		ResearchAreas: research,
		Website:       strings.TrimSpace(website),
	}, true
}

func firstText(row *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(row.Find(sel).First().Text()); len(text) > 3 {
			return text
		}
	}
	return ""
}

func buildPageURL(base string, page, pageSize int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid rankings url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func positiveOption(req ingest.Request, key string, fallback int) int {
	v, err := strconv.Atoi(req.Option(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
