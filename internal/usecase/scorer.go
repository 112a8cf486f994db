package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"UniRecommender/internal/domain"
)

type scoreEntry struct {
	UniversityID *int64   `json:"university_id"`
	MatchScore   *float64 `json:"match_score"`
}

func (p *Pipeline) scoreMatches(ctx context.Context, st State, logger *slog.Logger) (State, error) {
	scored := p.scoreCandidates(ctx, st.Profile, st.Candidates, logger)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	if len(scored) > p.cfg.ScoringLimit {
		scored = scored[:p.cfg.ScoringLimit]
	}

	st.Ranked = scored
	return st, nil
}

// scoreCandidates sends the whole candidate list in one call and falls back to
// positional scores when the call fails or the answer violates the schema.
func (p *Pipeline) scoreCandidates(ctx context.Context, profile domain.StudentProfile, candidates []domain.University, logger *slog.Logger) []domain.ScoredUniversity {
	if len(candidates) == 0 {
		return []domain.ScoredUniversity{}
	}

	prompt, err := scoringUserPrompt(profile, candidates)
	if err == nil {
		var text string
		text, err = p.complete(ctx, p.cfg.Scoring, scoringSystemPrompt, prompt)
		if err == nil {
			var scores map[int64]float64
			scores, err = ParseScores(text, candidates)
			if err == nil {
				return applyScores(candidates, scores)
			}
		}
	}

	noteFallback(logger, "score_matches", err)
	return FallbackScores(candidates, p.cfg.ScoreStart, p.cfg.ScoreStep, p.cfg.ScoreFloor)
}

// ParseScores extracts the outermost JSON array from text and validates it against
// the candidate list. Any violation fails the whole response.
func ParseScores(text string, candidates []domain.University) (map[int64]float64, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no json array in response", domain.ErrResponseUnparseable)
	}

	var entries []scoreEntry
	if err := json.Unmarshal([]byte(text[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseUnparseable, err)
	}

	scores := make(map[int64]float64, len(entries))
	for i, entry := range entries {
		if entry.UniversityID == nil || entry.MatchScore == nil {
			return nil, fmt.Errorf("%w: entry %d misses university_id or match_score", domain.ErrResponseUnparseable, i)
		}
		score := *entry.MatchScore
		if math.IsNaN(score) || score < 0 || score > 100 {
			return nil, fmt.Errorf("%w: score %v out of range for university %d", domain.ErrResponseUnparseable, score, *entry.UniversityID)
		}
		if _, dup := scores[*entry.UniversityID]; dup {
			return nil, fmt.Errorf("%w: duplicate university %d", domain.ErrResponseUnparseable, *entry.UniversityID)
		}
		scores[*entry.UniversityID] = score
	}

	for _, c := range candidates {
		if _, ok := scores[c.ID]; !ok {
			return nil, fmt.Errorf("%w: missing score for university %d", domain.ErrResponseUnparseable, c.ID)
		}
	}
	return scores, nil
}

// FallbackScores assigns max(floor, start - step*index) by input order.
func FallbackScores(candidates []domain.University, start, step, floor float64) []domain.ScoredUniversity {
	out := make([]domain.ScoredUniversity, len(candidates))
	for i, c := range candidates {
		out[i] = domain.ScoredUniversity{
			University: c,
			MatchScore: math.Max(floor, start-step*float64(i)),
		}
	}
	return out
}

func applyScores(candidates []domain.University, scores map[int64]float64) []domain.ScoredUniversity {
	out := make([]domain.ScoredUniversity, len(candidates))
	for i, c := range candidates {
		out[i] = domain.ScoredUniversity{University: c, MatchScore: scores[c.ID]}
	}
	return out
}
