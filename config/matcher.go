package config

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// MatcherConfig - OCR correction data
type MatcherConfig struct {
	SimilarWordMap map[string]string `json:"similarWordMap"`
	MaxDistance    int               `json:"maxDistance"`
}

// LoadMatcherConfig reads matcher_config.json. A missing file yields an empty config.
func LoadMatcherConfig(path string) (MatcherConfig, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return MatcherConfig{}, nil
	}
	if err != nil {
		return MatcherConfig{}, fmt.Errorf("read matcher config: %w", err)
	}
	var cfg MatcherConfig
	if err := sonic.Unmarshal(raw, &cfg); err != nil {
		return MatcherConfig{}, fmt.Errorf("parse matcher config %s: %w", path, err)
	}
	if cfg.MaxDistance < 0 {
		return MatcherConfig{}, fmt.Errorf("matcher config %s: maxDistance must not be negative", path)
	}
	return cfg, nil
}
