package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"UniRecommender/internal/config"
	"UniRecommender/internal/domain"
	"UniRecommender/internal/metrics"
	"UniRecommender/internal/ports"
)

const breakerName = "llm-gateway"

// Gateway implements ports.Gateway on top of an OpenAI-compatible chat completions API.
// Without an API key it runs in degraded mode and never touches the network.
type Gateway struct {
	baseURL    string
	apiKey     string
	model      string
	referer    string
	title      string
	ceiling    int
	timeout    time.Duration
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[string]
	logger     *slog.Logger
}

var _ ports.Gateway = (*Gateway)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGateway builds a gateway from configuration.
func NewGateway(cfg config.LLMConfig, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	g := &Gateway{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		referer:    cfg.Referer,
		title:      cfg.Title,
		ceiling:    cfg.MaxTokensCeiling,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout + 5*time.Second},
		logger:     logger,
	}
	g.breaker = newBreaker(cfg.Breaker, logger)
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	if g.Degraded() {
		logger.Info("llm gateway running in degraded mode: no api key configured")
	}
	return g
}

// newBreaker returns nil unless MaxFailures is set; without a breaker every call
// reaches the upstream regardless of earlier outcomes.
func newBreaker(cfg config.BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[string] {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		return nil
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = time.Minute
	}

	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

// Degraded reports whether the gateway fails every call without network I/O.
func (g *Gateway) Degraded() bool {
	return g == nil || g.apiKey == ""
}

// Complete sends one chat completion and returns the trimmed assistant text.
func (g *Gateway) Complete(ctx context.Context, req domain.Completion) (string, error) {
	if g.Degraded() {
		metrics.GatewayRequests.WithLabelValues("unavailable").Inc()
		return "", domain.ErrGatewayUnavailable
	}
	if strings.TrimSpace(req.SystemPrompt) == "" || strings.TrimSpace(req.UserPrompt) == "" {
		metrics.GatewayRequests.WithLabelValues("invalid").Inc()
		return "", fmt.Errorf("%w: system and user prompts must be non-empty", domain.ErrInvalidCompletion)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.execute(ctx, req)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.GatewayRequests.WithLabelValues("rejected").Inc()
			return "", &domain.GatewayRequestError{Message: err.Error()}
		}
		metrics.GatewayRequests.WithLabelValues("failed").Inc()
		return "", err
	}

	metrics.GatewayRequests.WithLabelValues("success").Inc()
	return text, nil
}

func (g *Gateway) execute(ctx context.Context, req domain.Completion) (string, error) {
	if g.breaker == nil {
		return g.send(ctx, req)
	}
	return g.breaker.Execute(func() (string, error) {
		return g.send(ctx, req)
	})
}

func (g *Gateway) send(ctx context.Context, req domain.Completion) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   g.boundTokens(req.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if g.referer != "" {
		httpReq.Header.Set("HTTP-Referer", g.referer)
	}
	if g.title != "" {
		httpReq.Header.Set("X-Title", g.title)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", &domain.GatewayRequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", &domain.GatewayRequestError{Status: resp.StatusCode, Message: fmt.Sprintf("read body: %v", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &domain.GatewayRequestError{Status: resp.StatusCode, Message: snippet(payload)}
	}

	var decoded chatResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", &domain.GatewayRequestError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if decoded.Error != nil {
		return "", &domain.GatewayRequestError{Status: resp.StatusCode, Message: decoded.Error.Message}
	}
	if len(decoded.Choices) == 0 {
		return "", &domain.GatewayRequestError{Status: resp.StatusCode, Message: "empty completion"}
	}

	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

func (g *Gateway) boundTokens(requested int) int {
	if requested <= 0 {
		return g.ceiling
	}
	if g.ceiling > 0 && requested > g.ceiling {
		return g.ceiling
	}
	return requested
}

func snippet(payload []byte) string {
	text := strings.TrimSpace(string(payload))
	if len(text) > 1024 {
		text = text[:1024]
	}
	return text
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
