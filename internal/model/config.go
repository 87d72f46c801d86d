package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete campusfaq configuration
type Config struct {
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Extract      ExtractConfig      `yaml:"extract" mapstructure:"extract"`
	Retrieval    RetrievalConfig    `yaml:"retrieval" mapstructure:"retrieval"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// StoreConfig configures the fact store
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // SQLite file, ":memory:" for a throwaway store
}

// ExtractConfig configures text extraction and fact mining
type ExtractConfig struct {
	MinTextLength      int    `yaml:"min_text_length" mapstructure:"min_text_length"`           // Documents below this are rejected
	MaxAnswerLength    int    `yaml:"max_answer_length" mapstructure:"max_answer_length"`       // Longer answers are truncated with "..."
	MinParagraphLength int    `yaml:"min_paragraph_length" mapstructure:"min_paragraph_length"` // Topic stage ignores shorter paragraphs
	MaxParagraphLength int    `yaml:"max_paragraph_length" mapstructure:"max_paragraph_length"` // Topic stage skips longer paragraphs
	ChunkSize          int    `yaml:"chunk_size" mapstructure:"chunk_size"`
	LanguageDetector   string `yaml:"language_detector" mapstructure:"language_detector"` // "whatlang" or "script"
}

// RetrievalConfig configures the knowledge lookup
type RetrievalConfig struct {
	CandidateLimit int           `yaml:"candidate_limit" mapstructure:"candidate_limit"` // Facts fetched from the store per query
	MinRelevance   float64       `yaml:"min_relevance" mapstructure:"min_relevance"`     // Best score must exceed this
	MaxAlternates  int           `yaml:"max_alternates" mapstructure:"max_alternates"`
	CacheTTL       time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // 0 disables the lookup cache
}

// HTTPConfig configures URL ingestion
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the fetched-document cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch ingestion
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // 1 keeps batches sequential
}

// RateLimitingConfig configures per-domain fetch rate limits
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LLMConfig configures the optional reply generator
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai", "ollama" or "" (template replies only)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Strict    bool   `yaml:"strict" mapstructure:"strict"` // Reject replies quoting numbers absent from the fact
}

// OutputConfig configures CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	JSON    bool `yaml:"json" mapstructure:"json"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".campusfaq")

	return &Config{
		Store: StoreConfig{
			Path: filepath.Join(base, "knowledge.db"),
		},
		Extract: ExtractConfig{
			MinTextLength:      100,
			MaxAnswerLength:    400,
			MinParagraphLength: 30,
			MaxParagraphLength: 500,
			ChunkSize:          500,
			LanguageDetector:   "whatlang",
		},
		Retrieval: RetrievalConfig{
			CandidateLimit: 20,
			MinRelevance:   0.2,
			MaxAlternates:  3,
			CacheTTL:       5 * time.Minute,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "campusfaq/0.1 (+https://github.com/ppiankov/campusfaq)",
			MaxBodyBytes:  20 << 20,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 300,
			Strict:    true,
		},
	}
}
