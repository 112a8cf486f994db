package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"UniRecommender/internal/config"
	"UniRecommender/internal/domain"
	"UniRecommender/internal/logging"
	"UniRecommender/internal/metrics"
	"UniRecommender/internal/ports"
	"UniRecommender/internal/validation"
)

// PipelineDeps wires the driven adapters into the recommendation workflow.
type PipelineDeps struct {
	Catalog ports.Catalog
	Gateway ports.Gateway
	Config  config.PipelineConfig
	Logger  *slog.Logger
}

// Pipeline implements the recommendation workflow:
// analyze profile -> match universities -> score matches -> generate analysis -> finalize.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	catalog ports.Catalog
	gateway ports.Gateway
	cfg     config.PipelineConfig
	logger  *slog.Logger
}

// State is the per-request record threaded through the stages. Each stage
// receives the previous value and returns a new one with its fields added.
type State struct {
	RequestID  string
	Profile    domain.StudentProfile
	Insight    domain.AnalysisInsight
	Candidates []domain.University
	Ranked     []domain.ScoredUniversity
	Narrative  string
	Final      []domain.ScoredUniversity
	Step       domain.Step
}

type stage struct {
	name string
	done domain.Step
	run  func(ctx context.Context, st State, logger *slog.Logger) (State, error)
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{
		catalog: deps.Catalog,
		gateway: deps.Gateway,
		cfg:     withDefaults(deps.Config),
		logger:  logger,
	}
}

func withDefaults(cfg config.PipelineConfig) config.PipelineConfig {
	def := config.Default().Pipeline
	if cfg.ScoringLimit <= 0 {
		cfg.ScoringLimit = def.ScoringLimit
	}
	if cfg.FinalLimit <= 0 {
		cfg.FinalLimit = def.FinalLimit
	}
	if cfg.ScoreStart <= 0 {
		cfg.ScoreStart = def.ScoreStart
	}
	if cfg.ScoreStep <= 0 {
		cfg.ScoreStep = def.ScoreStep
	}
	if cfg.ScoreFloor <= 0 {
		cfg.ScoreFloor = def.ScoreFloor
	}
	if cfg.Analysis.MaxTokens <= 0 {
		cfg.Analysis = def.Analysis
	}
	if cfg.Scoring.MaxTokens <= 0 {
		cfg.Scoring = def.Scoring
	}
	if cfg.Narrative.MaxTokens <= 0 {
		cfg.Narrative = def.Narrative
	}
	return cfg
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{name: "analyze_profile", done: domain.StepProfileAnalyzed, run: p.analyzeProfile},
		{name: "match_universities", done: domain.StepUniversitiesMatched, run: p.matchUniversities},
		{name: "score_matches", done: domain.StepMatchesScored, run: p.scoreMatches},
		{name: "generate_analysis", done: domain.StepAnalysisGenerated, run: p.generateAnalysis},
		{name: "finalize_recommendations", done: domain.StepCompleted, run: p.finalize},
	}
}

// GenerateRecommendations runs every stage in order and returns the top matches
// with a narrative. It either completes or returns an error; partial results are never returned.
func (p *Pipeline) GenerateRecommendations(ctx context.Context, profile domain.StudentProfile) (domain.Recommendation, error) {
	if p.catalog == nil {
		return domain.Recommendation{}, fmt.Errorf("catalog is not configured")
	}
	if verr := validation.ValidateStruct(&profile); verr != nil {
		metrics.RecommendationsTotal.WithLabelValues("invalid").Inc()
		return domain.Recommendation{}, fmt.Errorf("%w: %s", domain.ErrInvalidProfile, verr.Error())
	}

	st, err := p.Run(ctx, profile)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("failure").Inc()
		return domain.Recommendation{}, err
	}

	metrics.RecommendationsTotal.WithLabelValues("success").Inc()
	return domain.Recommendation{
		Universities: st.Final,
		AISummary:    st.Narrative,
	}, nil
}

// Run executes the stages and returns the final state. On failure the returned
// state carries the last completed step.
func (p *Pipeline) Run(ctx context.Context, profile domain.StudentProfile) (State, error) {
	st := State{
		RequestID: uuid.NewString(),
		Profile:   profile,
		Step:      domain.StepStarted,
	}
	logger := p.logger.With("request_id", st.RequestID)
	logger.Debug("pipeline started")

	for _, s := range p.stages() {
		started := time.Now()
		next, err := runStage(ctx, s, st, logger)
		metrics.StageDuration.WithLabelValues(s.name).Observe(time.Since(started).Seconds())
		if err != nil {
			logger.Error("pipeline stage failed", "stage", s.name, "step", st.Step, "error", err)
			return st, &domain.StageError{Stage: s.name, Step: st.Step, Err: err}
		}

		next.Step = s.done
		st = next
		logger.Debug("pipeline step completed", "step", st.Step)
	}

	return st, nil
}

func runStage(ctx context.Context, s stage, st State, logger *slog.Logger) (next State, err error) {
	defer func() {
		if r := recover(); r != nil {
			next = st
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.run(ctx, st, logger)
}

func (p *Pipeline) finalize(_ context.Context, st State, _ *slog.Logger) (State, error) {
	limit := p.cfg.FinalLimit
	if limit > len(st.Ranked) {
		limit = len(st.Ranked)
	}
	final := make([]domain.ScoredUniversity, limit)
	copy(final, st.Ranked[:limit])
	st.Final = final
	return st, nil
}

// complete issues one gateway call. A nil gateway behaves like a degraded one.
func (p *Pipeline) complete(ctx context.Context, call config.CallConfig, system, user string) (string, error) {
	if p.gateway == nil {
		return "", domain.ErrGatewayUnavailable
	}
	return p.gateway.Complete(ctx, domain.Completion{
		SystemPrompt: system,
		UserPrompt:   user,
		Temperature:  call.Temperature,
		MaxTokens:    call.MaxTokens,
	})
}

// noteFallback records a degraded LLM stage. Degraded mode is the expected steady
// state without credentials and is never logged as an error.
func noteFallback(logger *slog.Logger, stageName string, err error) {
	switch {
	case errors.Is(err, domain.ErrGatewayUnavailable):
		metrics.StageFallbacks.WithLabelValues(stageName, "unavailable").Inc()
		logger.Debug("llm unavailable, using fallback", "stage", stageName)
	case errors.Is(err, domain.ErrResponseUnparseable):
		metrics.StageFallbacks.WithLabelValues(stageName, "unparseable").Inc()
		logger.Warn("llm response unparseable, using fallback", "stage", stageName, "error", err)
	default:
		metrics.StageFallbacks.WithLabelValues(stageName, "request_failed").Inc()
		logger.Warn("llm request failed, using fallback", "stage", stageName, "error", err)
	}
}
