package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RLCOACH_CONFIG is set
//  3. env (prefix RLCOACH_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RLCOACH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: RLCOACH_ADDR, RLCOACH_QUEUE_SIZE, ...
	// Map env keys like RLCOACH_QUEUE_SIZE -> queue_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RLCOACH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "rlcoach_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, errors.New("addr must not be empty")
	case cfg.DBPath == "":
		return nil, errors.New("db_path must not be empty")
	case cfg.DefaultTier == "":
		return nil, errors.New("default_tier must not be empty")
	case cfg.MaxUploadBytes < 1:
		return nil, errors.New("max_upload_bytes must be positive")
	}
	return &cfg, nil
}
