package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"UniRecommender/internal/domain"
	"UniRecommender/internal/metrics"
	"UniRecommender/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS universities (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	name                  TEXT    NOT NULL,
	country               TEXT    NOT NULL DEFAULT '',
	country_code          TEXT    NOT NULL DEFAULT '',
	ranking               INTEGER,
	tuition_fee           REAL,
	scholarship_available INTEGER NOT NULL DEFAULT 0,
	research_areas        TEXT    NOT NULL DEFAULT '',
	degree_offerings      TEXT    NOT NULL DEFAULT '',
	type                  TEXT    NOT NULL DEFAULT '',
	description           TEXT    NOT NULL DEFAULT '',
	admission_rate        TEXT    NOT NULL DEFAULT '',
	website               TEXT    NOT NULL DEFAULT '',
	UNIQUE (name, country)
);
CREATE INDEX IF NOT EXISTS idx_universities_country ON universities (country);
CREATE INDEX IF NOT EXISTS idx_universities_ranking ON universities (ranking);
`

const defaultSearchLimit = 10

var (
	columns = []string{
		"id", "name", "country", "country_code", "ranking", "tuition_fee", "scholarship_available",
		"research_areas", "degree_offerings", "type", "description", "admission_rate", "website",
	}
	countryCodeExpr = regexp.MustCompile(`^[A-Z]{2}$`)
	// consolidatedCountries folds catalog spellings of the same country.
	consolidatedCountries = map[string]string{
		"Hong Kong SAR":    "Hong Kong",
		"China (Mainland)": "China",
		"Macau SAR":        "Macau",
	}
)

// SQLiteCatalog stores university records in SQLite and serves catalog queries.
type SQLiteCatalog struct {
	db *sql.DB
}

var (
	_ ports.Catalog       = (*SQLiteCatalog)(nil)
	_ ports.CatalogWriter = (*SQLiteCatalog)(nil)
)

// OpenSQLiteCatalog opens (or creates) the database at dsn and applies the schema.
// Use ":memory:" for an ephemeral catalog.
func OpenSQLiteCatalog(ctx context.Context, dsn string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

// Close releases the database handle.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// AllUniversities returns every record ordered by ranking (unranked last), then name.
func (c *SQLiteCatalog) AllUniversities(ctx context.Context) ([]domain.University, error) {
	records, err := c.query(ctx, c.selectBase())
	metrics.CatalogQueries.WithLabelValues("all", metrics.StatusLabel(err)).Inc()
	return records, err
}

// Filter applies the non-zero criteria conjunctively. Records with unknown
// tuition or ranking pass the corresponding bound.
func (c *SQLiteCatalog) Filter(ctx context.Context, criteria domain.CatalogCriteria) ([]domain.University, error) {
	b := c.selectBase()

	if criteria.Country != "" {
		b = b.Where(sq.Eq{"country": criteria.Country})
	}
	if criteria.MaxTuition > 0 {
		b = b.Where(sq.Or{sq.Eq{"tuition_fee": nil}, sq.LtOrEq{"tuition_fee": criteria.MaxTuition}})
	}
	if criteria.MinRanking > 0 {
		b = b.Where(sq.Or{sq.Eq{"ranking": nil}, sq.GtOrEq{"ranking": criteria.MinRanking}})
	}
	if criteria.MaxRanking > 0 {
		b = b.Where(sq.Or{sq.Eq{"ranking": nil}, sq.LtOrEq{"ranking": criteria.MaxRanking}})
	}
	if criteria.ScholarshipAvailable != nil {
		b = b.Where(sq.Eq{"scholarship_available": boolToInt(*criteria.ScholarshipAvailable)})
	}
	if criteria.ResearchArea != "" {
		b = b.Where(sq.Like{"research_areas": "%" + criteria.ResearchArea + "%"})
	}
	if criteria.Limit > 0 {
		b = b.Limit(uint64(criteria.Limit))
	}

	records, err := c.query(ctx, b)
	metrics.CatalogQueries.WithLabelValues("filter", metrics.StatusLabel(err)).Inc()
	return records, err
}

// Search matches name, country or research areas. Name-prefix hits rank first,
// then country-prefix hits, then the rest.
func (c *SQLiteCatalog) Search(ctx context.Context, query string, limit int) ([]domain.University, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	contains := "%" + query + "%"
	prefix := query + "%"

	b := sq.Select(columns...).
		From("universities").
		Where(sq.Or{
			sq.Like{"name": contains},
			sq.Like{"country": contains},
			sq.Like{"research_areas": contains},
		}).
		OrderByClause("CASE WHEN name LIKE ? THEN 1 WHEN country LIKE ? THEN 2 ELSE 3 END", prefix, prefix).
		OrderBy("COALESCE(ranking, 9999)", "name").
		Limit(uint64(limit))

	records, err := c.query(ctx, b)
	metrics.CatalogQueries.WithLabelValues("search", metrics.StatusLabel(err)).Inc()
	return records, err
}

// Countries lists distinct catalog countries with regional spellings consolidated.
func (c *SQLiteCatalog) Countries(ctx context.Context) ([]domain.Country, error) {
	query, args, err := sq.Select("country_code", "country").
		Distinct().
		From("universities").
		Where(sq.NotEq{"country": ""}).
		OrderBy("country", "country_code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build countries query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.CatalogQueries.WithLabelValues("countries", "error").Inc()
		return nil, fmt.Errorf("query countries: %w", err)
	}
	defer rows.Close()

	var pairs []domain.Country
	for rows.Next() {
		var entry domain.Country
		if err := rows.Scan(&entry.Code, &entry.Name); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		pairs = append(pairs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues("countries", "ok").Inc()
	return consolidateCountries(pairs), nil
}

// Upsert inserts records or updates the existing row with the same name and country.
func (c *SQLiteCatalog) Upsert(ctx context.Context, records []domain.University) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	written := 0
	for _, r := range records {
		var id any
		if r.ID > 0 {
			id = r.ID
		}

		query, args, err := sq.Insert("universities").
			Columns(columns...).
			Values(
				id, r.Name, r.Country, r.CountryCode, nullableInt(r.Ranking), nullableFloat(r.TuitionFee),
				boolToInt(r.ScholarshipAvailable), joinList(r.ResearchAreas), joinList(r.DegreeOfferings),
				r.Type, r.Description, r.AdmissionRate, r.Website,
			).
			Suffix(`ON CONFLICT (name, country) DO UPDATE SET
				country_code = excluded.country_code,
				ranking = excluded.ranking,
				tuition_fee = excluded.tuition_fee,
				scholarship_available = excluded.scholarship_available,
				research_areas = excluded.research_areas,
				degree_offerings = excluded.degree_offerings,
				type = excluded.type,
				description = excluded.description,
				admission_rate = excluded.admission_rate,
				website = excluded.website`).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build upsert for %s: %w", r.Name, err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			metrics.CatalogQueries.WithLabelValues("upsert", "error").Inc()
			return 0, fmt.Errorf("upsert %s: %w", r.Name, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	metrics.CatalogQueries.WithLabelValues("upsert", "ok").Inc()
	return written, nil
}

func (c *SQLiteCatalog) selectBase() sq.SelectBuilder {
	return sq.Select(columns...).
		From("universities").
		OrderBy("COALESCE(ranking, 9999)", "name")
}

func (c *SQLiteCatalog) query(ctx context.Context, b sq.SelectBuilder) ([]domain.University, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query universities: %w", err)
	}
	defer rows.Close()

	records := make([]domain.University, 0)
	for rows.Next() {
		record, err := scanUniversity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

func scanUniversity(rows *sql.Rows) (domain.University, error) {
	var (
		u           domain.University
		ranking     sql.NullInt64
		tuition     sql.NullFloat64
		scholarship int64
		research    string
		degrees     string
	)
	err := rows.Scan(
		&u.ID, &u.Name, &u.Country, &u.CountryCode, &ranking, &tuition, &scholarship,
		&research, &degrees, &u.Type, &u.Description, &u.AdmissionRate, &u.Website,
	)
	if err != nil {
		return domain.University{}, fmt.Errorf("scan university: %w", err)
	}

	if ranking.Valid {
		v := int(ranking.Int64)
		u.Ranking = &v
	}
	if tuition.Valid {
		v := tuition.Float64
		u.TuitionFee = &v
	}
	u.ScholarshipAvailable = scholarship != 0
	u.ResearchAreas = splitList(research)
	u.DegreeOfferings = splitList(degrees)
	return u, nil
}

func consolidateCountries(pairs []domain.Country) []domain.Country {
	seen := make(map[string]int, len(pairs))
	out := make([]domain.Country, 0, len(pairs))
	for _, p := range pairs {
		name := strings.TrimSpace(p.Name)
		if name == "" || strings.EqualFold(name, "unknown") {
			continue
		}
		if folded, ok := consolidatedCountries[name]; ok {
			name = folded
		}
		code := strings.TrimSpace(p.Code)
		if !countryCodeExpr.MatchString(code) {
			code = ""
		}

		if i, ok := seen[name]; ok {
			if out[i].Code == "" {
				out[i].Code = code
			}
			continue
		}
		seen[name] = len(out)
		out = append(out, domain.Country{Code: code, Name: name})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
