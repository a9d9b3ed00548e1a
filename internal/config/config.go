package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PathsConfig locates the managed directories. Relative entries are resolved
// against BaseDir.
type PathsConfig struct {
	BaseDir   string `yaml:"base_dir"`
	PapersDir string `yaml:"papers_dir"`
	ImagesDir string `yaml:"images_dir"`
	DataDir   string `yaml:"data_dir"`
	OutputDir string `yaml:"output_dir"`
}

// EndpointConfig is one OpenAI-compatible server and the model used on it.
type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// LLMConfig holds the text, embedding and vision endpoints.
type LLMConfig struct {
	Text        EndpointConfig `yaml:"text"`
	Embed       EndpointConfig `yaml:"embed"`
	Vision      EndpointConfig `yaml:"vision"`
	APIKeyEnv   string         `yaml:"api_key_env"`
	TimeoutSecs int            `yaml:"timeout_secs"`
}

// EmbeddingConfig controls remote embedding and the local hash fallback.
type EmbeddingConfig struct {
	PreferRemote *bool `yaml:"prefer_remote,omitempty"`
	HashDims     int   `yaml:"hash_dims"`
}

// ChunkerConfig configures how pages are split into chunks.
type ChunkerConfig struct {
	ChunkSize       int `yaml:"chunk_size"`
	MaxChunksPerDoc int `yaml:"max_chunks_per_doc"`
}

// IndexConfig selects the index storage backend: "json" or "bolt".
type IndexConfig struct {
	Backend string `yaml:"backend"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	DefaultTopK int `yaml:"default_top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Paths     PathsConfig     `yaml:"paths"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Index     IndexConfig     `yaml:"index"`
	Search    SearchConfig    `yaml:"search"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/paperdex/config.yaml.
// If neither exists, it writes defaults to ~/.config/paperdex/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// APIKey returns the key from the configured environment variable, or
// "EMPTY" for local servers that ignore it.
func (c *AppConfig) APIKey() string {
	if v := os.Getenv(c.LLM.APIKeyEnv); v != "" {
		return v
	}
	return "EMPTY"
}

// PreferRemote reports whether remote embeddings should be tried first.
func (c *AppConfig) PreferRemote() bool {
	return c.Embedding.PreferRemote == nil || *c.Embedding.PreferRemote
}

// ResolvedPaths holds absolute directory paths.
type ResolvedPaths struct {
	Papers string
	Images string
	Data   string
	Output string
}

// Resolve turns every configured directory into an absolute path.
func (c *AppConfig) Resolve() (ResolvedPaths, error) {
	base, err := filepath.Abs(c.Paths.BaseDir)
	if err != nil {
		return ResolvedPaths{}, err
	}
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}
	return ResolvedPaths{
		Papers: resolve(c.Paths.PapersDir),
		Images: resolve(c.Paths.ImagesDir),
		Data:   resolve(c.Paths.DataDir),
		Output: resolve(c.Paths.OutputDir),
	}, nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "paperdex", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	p := &cfg.Paths
	if p.BaseDir == "" {
		p.BaseDir = "."
	}
	if p.PapersDir == "" {
		p.PapersDir = "papers"
	}
	if p.ImagesDir == "" {
		p.ImagesDir = "images"
	}
	if p.DataDir == "" {
		p.DataDir = "data"
	}
	if p.OutputDir == "" {
		p.OutputDir = "output"
	}

	l := &cfg.LLM
	if l.Text.BaseURL == "" {
		l.Text.BaseURL = "http://localhost:8789/v1"
	}
	if l.Text.Model == "" {
		l.Text.Model = "qwen"
	}
	if l.Embed.BaseURL == "" {
		l.Embed.BaseURL = l.Text.BaseURL
	}
	if l.Embed.Model == "" {
		l.Embed.Model = "qwen_emb"
	}
	if l.Vision.BaseURL == "" {
		l.Vision.BaseURL = "http://localhost:8790/v1"
	}
	if l.Vision.Model == "" {
		l.Vision.Model = "llava"
	}
	if l.APIKeyEnv == "" {
		l.APIKeyEnv = "OPENAI_API_KEY"
	}
	if l.TimeoutSecs == 0 {
		l.TimeoutSecs = 60
	}

	if cfg.Embedding.PreferRemote == nil {
		t := true
		cfg.Embedding.PreferRemote = &t
	}
	if cfg.Embedding.HashDims == 0 {
		cfg.Embedding.HashDims = 256
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 800
	}
	if cfg.Chunker.MaxChunksPerDoc == 0 {
		cfg.Chunker.MaxChunksPerDoc = 200
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "json"
	}
	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = 5
	}
}

// applyEnv lets the environment override endpoint settings.
func applyEnv(cfg *AppConfig) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	textURL := cfg.LLM.Text.BaseURL
	set(&cfg.LLM.Text.BaseURL, "TEXT_BASE_URL")
	// the embed endpoint follows the text endpoint unless configured apart
	if cfg.LLM.Embed.BaseURL == textURL {
		cfg.LLM.Embed.BaseURL = cfg.LLM.Text.BaseURL
	}
	set(&cfg.LLM.Embed.BaseURL, "TEXT_EMBED_BASE_URL")
	set(&cfg.LLM.Vision.BaseURL, "VISION_BASE_URL")
	set(&cfg.LLM.Text.Model, "TEXT_MODEL")
	set(&cfg.LLM.Embed.Model, "TEXT_EMBED_MODEL")
	set(&cfg.LLM.Vision.Model, "VISION_MODEL")

	// only "0" and "false" switch remote embedding off
	if v, ok := os.LookupEnv("PREFER_REMOTE_EMBEDDING"); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		on := v != "0" && v != "false"
		cfg.Embedding.PreferRemote = &on
	}
}
