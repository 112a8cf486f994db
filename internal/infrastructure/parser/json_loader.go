package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"UniRecommender/internal/domain"
	"UniRecommender/internal/ingest"
)

var (
	ordinalExpr = regexp.MustCompile(`\b\d{1,2}(st|nd|rd|th)\b`)
	digitsExpr  = regexp.MustCompile(`\d+`)
)

// knownCountryCodes backfills ISO codes for exports that omit them.
var knownCountryCodes = map[string]string{
	"Argentina": "AR", "Australia": "AU", "Austria": "AT", "Belgium": "BE", "Brazil": "BR",
	"Canada": "CA", "Chile": "CL", "China": "CN", "Colombia": "CO", "Czech Republic": "CZ",
	"Denmark": "DK", "Egypt": "EG", "Finland": "FI", "France": "FR", "Germany": "DE",
	"Greece": "GR", "Hong Kong": "HK", "India": "IN", "Indonesia": "ID", "Ireland": "IE",
	"Israel": "IL", "Italy": "IT", "Japan": "JP", "Malaysia": "MY", "Mexico": "MX",
	"Netherlands": "NL", "New Zealand": "NZ", "Nigeria": "NG", "Norway": "NO", "Poland": "PL",
	"Portugal": "PT", "Russia": "RU", "Saudi Arabia": "SA", "Singapore": "SG", "South Africa": "ZA",
	"South Korea": "KR", "Spain": "ES", "Sweden": "SE", "Switzerland": "CH", "Taiwan": "TW",
	"Thailand": "TH", "Turkey": "TR", "United Arab Emirates": "AE", "United Kingdom": "GB",
	"United States": "US", "Vietnam": "VN",
}

// JSONLoader reads university records from a JSON file or URL. It accepts a bare
// array, an object with a "universities" array, and rankings exports that use
// rank/web_address/subjects field names.
type JSONLoader struct {
	client *http.Client
}

// NewJSONLoader wires an HTTP client for remote locations.
func NewJSONLoader(client *http.Client) *JSONLoader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &JSONLoader{client: client}
}

// Name identifies the strategy inside the registry.
func (l *JSONLoader) Name() string {
	return "json"
}

type jsonRecord struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Country              string          `json:"country"`
	CountryCode          string          `json:"country_code"`
	Ranking              json.RawMessage `json:"ranking"`
	Rank                 json.RawMessage `json:"rank"`
	TuitionFee           *float64        `json:"tuition_fee"`
	ScholarshipAvailable bool            `json:"scholarship_available"`
	ResearchAreas        []string        `json:"research_areas"`
	Subjects             []string        `json:"subjects"`
	DegreeOfferings      []string        `json:"degree_offerings"`
	Type                 string          `json:"type"`
	Description          string          `json:"description"`
	AdmissionRate        string          `json:"admission_rate"`
	Website              string          `json:"website"`
	WebAddress           string          `json:"web_address"`
}

// Load decodes every record at req.Location.
func (l *JSONLoader) Load(ctx context.Context, req ingest.Request) ([]domain.University, error) {
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("no location provided for source %s", req.SourceName)
	}

	body, err := open(ctx, l.client, req.Location)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.Location, err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", req.Location, err)
	}

	out := make([]domain.University, 0, len(records))
	for _, r := range records {
		if u, ok := r.toUniversity(); ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func decodeRecords(raw []byte) ([]jsonRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []jsonRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var wrapped struct {
		Universities []jsonRecord `json:"universities"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Universities, nil
}

func (r jsonRecord) toUniversity() (domain.University, bool) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return domain.University{}, false
	}

	country := strings.TrimSpace(r.Country)
	code := strings.ToUpper(strings.TrimSpace(r.CountryCode))
	if code == "" {
		code = knownCountryCodes[country]
	}

	ranking := parseRank(r.Ranking)
	if ranking == nil {
		ranking = parseRank(r.Rank)
	}

	research := r.ResearchAreas
	if len(research) == 0 {
		research = cleanSubjects(r.Subjects)
	}

	website := r.Website
	if website == "" {
		website = r.WebAddress
	}

	return domain.University{
		ID:                   r.ID,
		Name:                 name,
		Country:              country,
		CountryCode:          code,
		Ranking:              ranking,
		TuitionFee:           r.TuitionFee,
		ScholarshipAvailable: r.ScholarshipAvailable,
		ResearchAreas:        research,
		DegreeOfferings:      r.DegreeOfferings,
		Type:                 r.Type,
		Description:          strings.TrimSpace(r.Description),
		AdmissionRate:        r.AdmissionRate,
		Website:              strings.TrimSpace(website),
	}, true
}

// parseRank accepts numbers and strings such as "=12" or "501-510" (lower bound).
func parseRank(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	return rankFromText(text)
}

func rankFromText(text string) *int {
	match := digitsExpr.FindString(text)
	if match == "" {
		return nil
	}
	v, err := strconv.Atoi(match)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// cleanSubjects strips ordinal rank markers, drops short entries and duplicates.
func cleanSubjects(subjects []string) []string {
	seen := make(map[string]struct{}, len(subjects))
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		cleaned := strings.Join(strings.Fields(ordinalExpr.ReplaceAllString(s, "")), " ")
		if len(cleaned) <= 2 {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}
