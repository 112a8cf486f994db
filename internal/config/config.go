package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "UNIRECOMMENDER_CONFIG"
	apiKeyEnv      = "OPENROUTER_API_KEY"
	modelEnv       = "LLM_MODEL"
	baseURLEnv     = "LLM_BASE_URL"
	catalogDSNEnv  = "CATALOG_DSN"
	logLevelEnv    = "LOG_LEVEL"
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openai/gpt-4"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Sources  []SourceConfig `yaml:"sources"`
	Batch    BatchConfig    `yaml:"batch"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LLMConfig defines how to contact the OpenAI-compatible completion API.
// An empty APIKey puts the gateway into degraded mode.
type LLMConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	APIKey           string        `yaml:"apiKey"`
	Model            string        `yaml:"model"`
	MaxTokensCeiling int           `yaml:"maxTokensCeiling"`
	Timeout          time.Duration `yaml:"timeout"`
	Referer          string        `yaml:"referer"`
	Title            string        `yaml:"title"`
	Breaker          BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the optional circuit breaker around upstream calls.
// MaxFailures of zero disables it so calls stay independent of each other.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"maxFailures"`
	OpenTimeout time.Duration `yaml:"openTimeout"`
}

// CallConfig is the per-call-site sampling budget.
type CallConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// PipelineConfig describes the recommendation workflow knobs.
type PipelineConfig struct {
	Analysis     CallConfig `yaml:"analysis"`
	Scoring      CallConfig `yaml:"scoring"`
	Narrative    CallConfig `yaml:"narrative"`
	ScoringLimit int        `yaml:"scoringLimit"`
	FinalLimit   int        `yaml:"finalLimit"`
	ScoreStart   float64    `yaml:"scoreStart"`
	ScoreStep    float64    `yaml:"scoreStep"`
	ScoreFloor   float64    `yaml:"scoreFloor"`
}

// CatalogConfig selects the catalog backend. RefreshInterval drives "seed -watch".
type CatalogConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

// SourceConfig describes one catalog source and the loader strategy that reads it.
type SourceConfig struct {
	Name     string            `yaml:"name"`
	Loader   string            `yaml:"loader"`
	Location string            `yaml:"location"`
	Options  map[string]string `yaml:"options"`
}

// BatchConfig bounds concurrent pipeline runs for batch requests.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Degraded reports whether the gateway should skip network calls.
func (c LLMConfig) Degraded() bool {
	return strings.TrimSpace(c.APIKey) == ""
}

// Load reads YAML configuration (if present) and applies environment overrides.
// Zero values in the file keep the defaults.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg, err := Parse(raw)
			if err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes raw YAML without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return defaultConfig()
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(modelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(baseURLEnv); v != "" {
		c.LLM.BaseURL = v
	}

	if v := os.Getenv(catalogDSNEnv); v != "" {
		c.Catalog.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.LLM.BaseURL != "" {
		base.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.MaxTokensCeiling > 0 {
		base.LLM.MaxTokensCeiling = override.LLM.MaxTokensCeiling
	}
	if override.LLM.Timeout > 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}
	if override.LLM.Referer != "" {
		base.LLM.Referer = override.LLM.Referer
	}
	if override.LLM.Title != "" {
		base.LLM.Title = override.LLM.Title
	}
	if override.LLM.Breaker.MaxFailures > 0 {
		base.LLM.Breaker.MaxFailures = override.LLM.Breaker.MaxFailures
	}
	if override.LLM.Breaker.OpenTimeout > 0 {
		base.LLM.Breaker.OpenTimeout = override.LLM.Breaker.OpenTimeout
	}

	base.Pipeline.Analysis = mergeCall(base.Pipeline.Analysis, override.Pipeline.Analysis)
	base.Pipeline.Scoring = mergeCall(base.Pipeline.Scoring, override.Pipeline.Scoring)
	base.Pipeline.Narrative = mergeCall(base.Pipeline.Narrative, override.Pipeline.Narrative)
	if override.Pipeline.ScoringLimit > 0 {
		base.Pipeline.ScoringLimit = override.Pipeline.ScoringLimit
	}
	if override.Pipeline.FinalLimit > 0 {
		base.Pipeline.FinalLimit = override.Pipeline.FinalLimit
	}
	if override.Pipeline.ScoreStart > 0 {
		base.Pipeline.ScoreStart = override.Pipeline.ScoreStart
	}
	if override.Pipeline.ScoreStep > 0 {
		base.Pipeline.ScoreStep = override.Pipeline.ScoreStep
	}
	if override.Pipeline.ScoreFloor > 0 {
		base.Pipeline.ScoreFloor = override.Pipeline.ScoreFloor
	}

	if override.Catalog.Driver != "" {
		base.Catalog.Driver = override.Catalog.Driver
	}
	if override.Catalog.DSN != "" {
		base.Catalog.DSN = override.Catalog.DSN
	}
	if override.Catalog.RefreshInterval > 0 {
		base.Catalog.RefreshInterval = override.Catalog.RefreshInterval
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	if override.Batch.Concurrency > 0 {
		base.Batch.Concurrency = override.Batch.Concurrency
	}

	return base
}

func mergeCall(base, override CallConfig) CallConfig {
	if override.Temperature > 0 {
		base.Temperature = override.Temperature
	}
	if override.MaxTokens > 0 {
		base.MaxTokens = override.MaxTokens
	}
	return base
}

func defaultConfig() Config {
	call := CallConfig{Temperature: 0.3, MaxTokens: 2000}
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		LLM: LLMConfig{
			BaseURL:          defaultBaseURL,
			Model:            defaultModel,
			MaxTokensCeiling: 4000,
			Timeout:          20 * time.Second,
			Referer:          "http://localhost:3000",
			Title:            "University Recommender",
			Breaker: BreakerConfig{
				MaxFailures: 5,
				OpenTimeout: time.Minute,
			},
		},
		Pipeline: PipelineConfig{
			Analysis:     call,
			Scoring:      call,
			Narrative:    call,
			ScoringLimit: 10,
			FinalLimit:   3,
			ScoreStart:   95,
			ScoreStep:    5,
			ScoreFloor:   60,
		},
		Catalog: CatalogConfig{Driver: "sqlite", DSN: "universities.db", RefreshInterval: 24 * time.Hour},
		Sources: []SourceConfig{
			{Name: "catalog-json", Loader: "json", Location: "data/universities.json"},
		},
		Batch: BatchConfig{Concurrency: 4},
	}
}
