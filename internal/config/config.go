// Package config loads application settings from a YAML file layered under
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/usecases"
)

// DefaultPath is read when no config file is named explicitly.
const DefaultPath = "hybridrag.yaml"

// MemoryDB selects the volatile in-memory vector store.
const MemoryDB = ":memory:"

// ChatConfig selects and configures the answer model.
type ChatConfig struct {
	Provider    string  `yaml:"provider"` // openai | ollama
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxRetries  int     `yaml:"max_retries"`
}

// APIKey reads the key from the configured environment variable.
func (c ChatConfig) APIKey() string { return os.Getenv(c.APIKeyEnv) }

// EmbeddingConfig selects and configures the embedder.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // ollama | openai
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// APIKey reads the key from the configured environment variable.
func (c EmbeddingConfig) APIKey() string { return os.Getenv(c.APIKeyEnv) }

// SearchConfig selects and configures the web searcher.
type SearchConfig struct {
	Provider  string `yaml:"provider"` // tavily | none
	APIKeyEnv string `yaml:"api_key_env"`
	Endpoint  string `yaml:"endpoint"`
}

// APIKey reads the key from the configured environment variable.
func (c SearchConfig) APIKey() string { return os.Getenv(c.APIKeyEnv) }

// IndexConfig locates documents and the persisted index.
type IndexConfig struct {
	DataDir      string `yaml:"data_dir"`
	DBPath       string `yaml:"db_path"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	// PDFServiceURL is the text extraction service used for PDFs.
	// Empty disables PDF support.
	PDFServiceURL string `yaml:"pdf_service_url"`
	// PDFServiceDir holds pdf_service.py; when set the service is started
	// as a subprocess.
	PDFServiceDir string `yaml:"pdf_service_dir"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the root application configuration.
type Config struct {
	RelevanceThreshold float64         `yaml:"relevance_threshold"`
	TopKLocal          int             `yaml:"top_k_local"`
	TopKWeb            int             `yaml:"top_k_web"`
	ResponseLanguage   string          `yaml:"response_language"`
	Chat               ChatConfig      `yaml:"chat"`
	Embedding          EmbeddingConfig `yaml:"embedding"`
	Search             SearchConfig    `yaml:"search"`
	Index              IndexConfig     `yaml:"index"`
	Server             ServerConfig    `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RelevanceThreshold: usecases.DefaultRelevanceThreshold,
		TopKLocal:          usecases.DefaultTopKLocal,
		TopKWeb:            usecases.DefaultTopKWeb,
		ResponseLanguage:   string(usecases.LanguageEnglish),
		Chat: ChatConfig{
			Provider:    "openai",
			Model:       "llama-3.3-70b-versatile",
			BaseURL:     "https://api.groq.com/openai/v1",
			APIKeyEnv:   "GROQ_API_KEY",
			Temperature: 0.7,
			MaxTokens:   2048,
			MaxRetries:  0,
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "nomic-embed-text",
			BaseURL:   "http://localhost:11434",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Search: SearchConfig{
			Provider:  "tavily",
			APIKeyEnv: "TAVILY_API_KEY",
		},
		Index: IndexConfig{
			DataDir:       "data",
			DBPath:        filepath.Join("index", "vectors.db"),
			ChunkSize:     usecases.DefaultChunkSize,
			ChunkOverlap:  usecases.DefaultChunkOverlap,
			PDFServiceURL: "http://localhost:8081",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults, then applies environment overrides and
// validates the result. An empty path reads DefaultPath when it exists. A
// named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ports.ErrInvalidConfig, path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Save writes cfg as YAML, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnv() {
	c.RelevanceThreshold = getEnvFloat("HYBRIDRAG_RELEVANCE_THRESHOLD", c.RelevanceThreshold)
	c.TopKLocal = getEnvInt("HYBRIDRAG_TOP_K_LOCAL", c.TopKLocal)
	c.TopKWeb = getEnvInt("HYBRIDRAG_TOP_K_WEB", c.TopKWeb)
	c.ResponseLanguage = getEnv("HYBRIDRAG_LANGUAGE", c.ResponseLanguage)
	c.Chat.Model = getEnv("HYBRIDRAG_CHAT_MODEL", c.Chat.Model)
	c.Index.DataDir = getEnv("HYBRIDRAG_DATA_DIR", c.Index.DataDir)
	c.Index.DBPath = getEnv("HYBRIDRAG_DB_PATH", c.Index.DBPath)
	c.Server.Addr = getEnv("HYBRIDRAG_ADDR", c.Server.Addr)
}

// Validate checks ranges and provider names.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	switch c.Chat.Provider {
	case "openai", "ollama":
	default:
		return invalid("chat.provider must be openai or ollama, got %q", c.Chat.Provider)
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return invalid("chat.temperature must be 0-2, got %v", c.Chat.Temperature)
	}
	if c.Chat.MaxTokens < 0 {
		return invalid("chat.max_tokens must not be negative, got %d", c.Chat.MaxTokens)
	}
	if c.Chat.MaxRetries < 0 || c.Chat.MaxRetries > 10 {
		return invalid("chat.max_retries must be 0-10, got %d", c.Chat.MaxRetries)
	}
	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		return invalid("embedding.provider must be ollama or openai, got %q", c.Embedding.Provider)
	}
	switch c.Search.Provider {
	case "tavily", "none":
	default:
		return invalid("search.provider must be tavily or none, got %q", c.Search.Provider)
	}
	if c.Index.DataDir == "" {
		return invalid("index.data_dir is required")
	}
	if c.Index.ChunkSize <= 0 {
		return invalid("index.chunk_size must be positive, got %d", c.Index.ChunkSize)
	}
	if c.Index.ChunkOverlap < 0 || c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return invalid("index.chunk_overlap must be in [0, chunk_size), got %d", c.Index.ChunkOverlap)
	}
	return nil
}

// Options converts the query settings for usecases.NewHybridUseCase.
func (c *Config) Options() (usecases.Options, error) {
	lang, err := usecases.ParseLanguage(c.ResponseLanguage)
	if err != nil {
		return usecases.Options{}, err
	}
	opts := usecases.Options{
		RelevanceThreshold: c.RelevanceThreshold,
		TopKLocal:          c.TopKLocal,
		TopKWeb:            c.TopKWeb,
		Language:           lang,
	}
	return opts, opts.Validate()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ports.ErrInvalidConfig}, args...)...)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
