package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"UniRecommender/internal/domain"
	"UniRecommender/internal/ports"
)

// MemoryCatalog keeps records in process. It mirrors SQLiteCatalog ordering and
// filter semantics and is used by tests and the "memory" catalog driver.
type MemoryCatalog struct {
	mu      sync.RWMutex
	records []domain.University
	nextID  int64
}

var (
	_ ports.Catalog       = (*MemoryCatalog)(nil)
	_ ports.CatalogWriter = (*MemoryCatalog)(nil)
)

// NewMemoryCatalog returns a catalog seeded with records.
func NewMemoryCatalog(records ...domain.University) *MemoryCatalog {
	c := &MemoryCatalog{}
	_, _ = c.Upsert(context.Background(), records)
	return c
}

func (c *MemoryCatalog) AllUniversities(_ context.Context) ([]domain.University, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sorted(func(domain.University) bool { return true }), nil
}

func (c *MemoryCatalog) Filter(_ context.Context, criteria domain.CatalogCriteria) ([]domain.University, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := c.sorted(func(u domain.University) bool {
		if criteria.Country != "" && u.Country != criteria.Country {
			return false
		}
		if criteria.MaxTuition > 0 && u.TuitionFee != nil && *u.TuitionFee > criteria.MaxTuition {
			return false
		}
		if criteria.MinRanking > 0 && u.Ranking != nil && *u.Ranking < criteria.MinRanking {
			return false
		}
		if criteria.MaxRanking > 0 && u.Ranking != nil && *u.Ranking > criteria.MaxRanking {
			return false
		}
		if criteria.ScholarshipAvailable != nil && u.ScholarshipAvailable != *criteria.ScholarshipAvailable {
			return false
		}
		if criteria.ResearchArea != "" && !containsFold(joinList(u.ResearchAreas), criteria.ResearchArea) {
			return false
		}
		return true
	})

	if criteria.Limit > 0 && len(out) > criteria.Limit {
		out = out[:criteria.Limit]
	}
	return out, nil
}

func (c *MemoryCatalog) Search(_ context.Context, query string, limit int) ([]domain.University, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := c.sorted(func(u domain.University) bool {
		return containsFold(u.Name, query) || containsFold(u.Country, query) || containsFold(joinList(u.ResearchAreas), query)
	})

	sort.SliceStable(out, func(i, j int) bool {
		return searchTier(out[i], query) < searchTier(out[j], query)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *MemoryCatalog) Countries(_ context.Context) ([]domain.Country, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pairs := make([]domain.Country, 0, len(c.records))
	for _, u := range c.records {
		pairs = append(pairs, domain.Country{Code: u.CountryCode, Name: u.Country})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return consolidateCountries(pairs), nil
}

// Upsert replaces records that share name and country and appends the rest.
// An explicit ID already held by a different name and country fails the whole
// batch and leaves the catalog unchanged.
func (c *MemoryCatalog) Upsert(_ context.Context, records []domain.University) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIDs(records); err != nil {
		return 0, err
	}

	for _, r := range records {
		r = cloneUniversity(r)
		if i := c.indexOf(r.Name, r.Country); i >= 0 {
			r.ID = c.records[i].ID
			c.records[i] = r
			continue
		}

		if r.ID <= 0 {
			c.nextID++
			r.ID = c.nextID
		} else if r.ID > c.nextID {
			c.nextID = r.ID
		}
		c.records = append(c.records, r)
	}
	return len(records), nil
}

func (c *MemoryCatalog) checkIDs(records []domain.University) error {
	owners := make(map[int64]string, len(c.records)+len(records))
	for _, u := range c.records {
		owners[u.ID] = identity(u)
	}
	for _, r := range records {
		if r.ID <= 0 {
			continue
		}
		if owner, ok := owners[r.ID]; ok && owner != identity(r) {
			return fmt.Errorf("upsert %s: id %d already used by another university", r.Name, r.ID)
		}
		owners[r.ID] = identity(r)
	}
	return nil
}

func (c *MemoryCatalog) indexOf(name, country string) int {
	for i, existing := range c.records {
		if existing.Name == name && existing.Country == country {
			return i
		}
	}
	return -1
}

func identity(u domain.University) string {
	return u.Name + "\x00" + u.Country
}

func (c *MemoryCatalog) sorted(keep func(domain.University) bool) []domain.University {
	out := make([]domain.University, 0, len(c.records))
	for _, u := range c.records {
		if keep(u) {
			out = append(out, cloneUniversity(u))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rankKey(out[i]), rankKey(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func rankKey(u domain.University) int {
	if u.Ranking == nil {
		return 9999
	}
	return *u.Ranking
}

func searchTier(u domain.University, query string) int {
	q := strings.ToLower(query)
	switch {
	case strings.HasPrefix(strings.ToLower(u.Name), q):
		return 1
	case strings.HasPrefix(strings.ToLower(u.Country), q):
		return 2
	default:
		return 3
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func cloneUniversity(u domain.University) domain.University {
	if u.Ranking != nil {
		v := *u.Ranking
		u.Ranking = &v
	}
	if u.TuitionFee != nil {
		v := *u.TuitionFee
		u.TuitionFee = &v
	}
	u.ResearchAreas = append([]string{}, u.ResearchAreas...)
	u.DegreeOfferings = append([]string{}, u.DegreeOfferings...)
	return u
}
