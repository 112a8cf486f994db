package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"UniRecommender/internal/domain"
)

// fallbackNarrativeSize is how many universities the templated narrative names.
const fallbackNarrativeSize = 3

func (p *Pipeline) generateAnalysis(ctx context.Context, st State, logger *slog.Logger) (State, error) {
	st.Narrative = p.narrative(ctx, st.Profile, st.Ranked, logger)
	return st, nil
}

func (p *Pipeline) narrative(ctx context.Context, profile domain.StudentProfile, ranked []domain.ScoredUniversity, logger *slog.Logger) string {
	if len(ranked) == 0 {
		return FallbackNarrative(ranked)
	}

	prompt, err := narrativeUserPrompt(profile, ranked)
	if err == nil {
		var text string
		text, err = p.complete(ctx, p.cfg.Narrative, narrativeSystemPrompt, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		if err == nil {
			err = fmt.Errorf("%w: empty narrative", domain.ErrResponseUnparseable)
		}
	}

	noteFallback(logger, "generate_analysis", err)
	return FallbackNarrative(ranked)
}

// FallbackNarrative renders the seven-section narrative naming the top-ranked universities.
func FallbackNarrative(ranked []domain.ScoredUniversity) string {
	if len(ranked) == 0 {
		return "**Profile Summary**: We reviewed your academic background and preferences.\n\n" +
			"**Recommendations**: No universities in the catalog match your current geographic and funding preferences. " +
			"Consider widening your preferred country or continent, or relaxing the funding requirement."
	}

	n := len(ranked)
	if n > fallbackNarrativeSize {
		n = fallbackNarrativeSize
	}
	names := make([]string, 0, n)
	for _, u := range ranked[:n] {
		names = append(names, u.Name)
	}
	top := strings.Join(names, ", ")

	sections := []string{
		"**Profile Summary**: Based on your academic background and research interests, you present a strong candidate profile for graduate programs.",
		"**Geographic Alignment**: Your preferences align well with top-tier institutions in your target regions.",
		"**Financial Considerations**: Consider exploring funding opportunities including research assistantships and fellowships.",
		fmt.Sprintf("**Research Fit**: Your research interests show strong alignment with the programs at %s.", top),
		"**Career Trajectory**: These programs will provide excellent preparation for your career goals.",
		"**Application Strategy**: Focus on highlighting your research experience and academic achievements in your applications.",
		fmt.Sprintf("**Recommendations**: We recommend applying to %s as they offer the best match for your profile and goals.", top),
	}
	return strings.Join(sections, "\n\n")
}
