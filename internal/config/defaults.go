package config

import "github.com/hyperjump/vecstore/internal/vector"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeoutSeconds == 0 {
		cfg.Server.RequestTimeoutSeconds = 60
	}
	if cfg.Index.Algorithm == "" {
		cfg.Index.Algorithm = string(vector.DefaultIndexType)
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Search.DefaultK == 0 {
		cfg.Search.DefaultK = 10
	}
	if cfg.Search.MaxK == 0 {
		cfg.Search.MaxK = 100
	}
	if cfg.Search.ChunkSize == 0 {
		cfg.Search.ChunkSize = 128
	}
	if cfg.Search.ChunkOverlap == 0 {
		cfg.Search.ChunkOverlap = 16
	}
	if cfg.Search.HybridCandidates == 0 {
		cfg.Search.HybridCandidates = 50
	}
	if cfg.Search.DefaultKeywordWeight == 0 && cfg.Search.DefaultSemanticWeight == 0 {
		cfg.Search.DefaultKeywordWeight = 0.5
		cfg.Search.DefaultSemanticWeight = 0.5
	}
	// KeywordEnabled defaults to true when unset (nil).
	if cfg.Search.KeywordEnabled == nil {
		t := true
		cfg.Search.KeywordEnabled = &t
	}
}

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}
