package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HASTAVIEW_"
	// EnvConfigFile names the YAML file when no path is passed to Load.
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. the YAML file at path, or at $HASTAVIEW_CONFIG when path is empty
//  3. HASTAVIEW_* environment variables, with "__" separating sections,
//     e.g. HASTAVIEW_GESTURE__ZOOM_GAIN=0.1 sets gesture.zoom_gain.
//
// Options are applied last, so command-line flags win over everything else.
// The result is validated.
func Load(_ context.Context, path string, opts ...Option) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoadConfig, path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoadConfig, err)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps HASTAVIEW_CAMERA__DEVICE_ID to camera.device_id. The config
// file variable itself is skipped.
func envKey(s string) string {
	if s == EnvConfigFile {
		return ""
	}
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}
