// Package config loads and validates the application configuration from a
// YAML file plus environment credentials. Validation happens at construction
// so a misconfigured process fails with a clear error instead of crashing on
// first use.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials marks required credentials absent at startup.
var ErrMissingCredentials = errors.New("missing required credentials")

// DocumentsConfig names the three knowledge-base sources.
type DocumentsConfig struct {
	GeneralSignal   string `yaml:"general_signal"`
	GeneralNoSignal string `yaml:"general_no_signal"`
	Expert          string `yaml:"expert"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	MaxTokens     int `yaml:"max_tokens"`
	OverlapTokens int `yaml:"overlap_tokens"`
}

// EmbedderConfig configures the embedding API client.
type EmbedderConfig struct {
	Model       string `yaml:"model"`
	Dimension   int    `yaml:"dimension"`
	Workers     int    `yaml:"workers"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// LLMConfig configures the generation API client.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries"`
}

// MilvusConfig contains connection details for the optional Milvus backend.
type MilvusConfig struct {
	Address          string `yaml:"address"`
	CollectionPrefix string `yaml:"collection_prefix"`
}

// IndexConfig selects and configures the vector index backend.
type IndexConfig struct {
	Backend string       `yaml:"backend"` // "memory" or "milvus"
	TopK    int          `yaml:"topk"`
	Milvus  MilvusConfig `yaml:"milvus"`
}

// HistoryConfig selects and configures the conversation history store.
type HistoryConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "memory"
	Path    string `yaml:"path"`
}

// EntitlementConfig selects the entitlement collaborator.
type EntitlementConfig struct {
	Backend string `yaml:"backend"` // "static" or "sqlite"
	Default bool   `yaml:"default"`
	Path    string `yaml:"path"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the root application configuration.
type Config struct {
	AnswerLanguage string            `yaml:"answer_language"`
	Documents      DocumentsConfig   `yaml:"documents"`
	Chunker        ChunkerConfig     `yaml:"chunker"`
	Embedder       EmbedderConfig    `yaml:"embedder"`
	LLM            LLMConfig         `yaml:"llm"`
	Index          IndexConfig       `yaml:"index"`
	History        HistoryConfig     `yaml:"history"`
	Entitlement    EntitlementConfig `yaml:"entitlement"`
	Server         ServerConfig      `yaml:"server"`
	MaxInflight    int               `yaml:"max_inflight"`
}

// Load reads a config from path. A missing file yields defaults; any other
// read or parse failure is an error. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AnswerLanguage: "Persian",
		Documents: DocumentsConfig{
			GeneralSignal:   "data/documents/qa.md",
			GeneralNoSignal: "data/documents/qa_no_signal.md",
			Expert:          "data/documents/scripts.md",
		},
		Chunker:     ChunkerConfig{MaxTokens: 300, OverlapTokens: 50},
		Embedder:    EmbedderConfig{Model: "text-embedding-3-small", Dimension: 1536, Workers: 4, TimeoutSecs: 30, MaxRetries: 2},
		LLM:         LLMConfig{Model: "gpt-4.1", MaxTokens: 2000, TimeoutSecs: 60, MaxRetries: 2},
		Index:       IndexConfig{Backend: "memory", TopK: 3, Milvus: MilvusConfig{Address: "localhost:19530", CollectionPrefix: "deskrag"}},
		History:     HistoryConfig{Backend: "sqlite", Path: "deskrag_history.db"},
		Entitlement: EntitlementConfig{Backend: "static", Default: false, Path: "deskrag_entitlements.db"},
		Server:      ServerConfig{Addr: ":8080"},
		MaxInflight: 8,
	}
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.AnswerLanguage == "" {
		cfg.AnswerLanguage = def.AnswerLanguage
	}
	if cfg.Chunker.MaxTokens == 0 {
		cfg.Chunker.MaxTokens = def.Chunker.MaxTokens
	}
	if cfg.Chunker.OverlapTokens == 0 {
		cfg.Chunker.OverlapTokens = def.Chunker.OverlapTokens
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = def.Embedder.Model
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = def.Embedder.Dimension
	}
	if cfg.Embedder.Workers == 0 {
		cfg.Embedder.Workers = def.Embedder.Workers
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = def.Embedder.TimeoutSecs
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = def.Index.Backend
	}
	if cfg.Index.TopK == 0 {
		cfg.Index.TopK = def.Index.TopK
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = def.History.Backend
	}
	if cfg.History.Path == "" {
		cfg.History.Path = def.History.Path
	}
	if cfg.Entitlement.Backend == "" {
		cfg.Entitlement.Backend = def.Entitlement.Backend
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.MaxInflight == 0 {
		cfg.MaxInflight = def.MaxInflight
	}
}

// Validate checks structural invariants and required credentials.
func (c *Config) Validate() error {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY must be set", ErrMissingCredentials)
	}
	if c.Chunker.MaxTokens <= 0 {
		return fmt.Errorf("chunker.max_tokens must be positive, got %d", c.Chunker.MaxTokens)
	}
	if c.Chunker.OverlapTokens < 0 {
		return fmt.Errorf("chunker.overlap_tokens must not be negative, got %d", c.Chunker.OverlapTokens)
	}
	if c.Embedder.Dimension <= 0 {
		return fmt.Errorf("embedder.dimension must be positive, got %d", c.Embedder.Dimension)
	}
	switch c.Index.Backend {
	case "memory", "milvus":
	default:
		return fmt.Errorf("index.backend must be memory or milvus, got %q", c.Index.Backend)
	}
	switch c.History.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("history.backend must be memory or sqlite, got %q", c.History.Backend)
	}
	switch c.Entitlement.Backend {
	case "static", "sqlite":
	default:
		return fmt.Errorf("entitlement.backend must be static or sqlite, got %q", c.Entitlement.Backend)
	}
	return nil
}
