package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/greenledger/meatprint/internal/logging"
)

// ProjectConfigName is the per-directory overlay file.
const ProjectConfigName = projectConfigName

// FindProjectConfig walks up from startDir looking for .meatprint.yaml and
// returns its absolute path, or "" when none exists.
func FindProjectConfig(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, projectConfigName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProject builds the effective configuration: defaults, the user
// config file (or configPath when set), the project overlay found from
// startDir, and finally environment overrides. A broken overlay is logged
// and skipped; a broken explicit configPath is returned as an error.
func NewWithProject(ctx context.Context, configPath, startDir string) (*Config, error) {
	var cfg *Config
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, &ConfigError{Source: configPath, Err: err}
		}
		loaded, err := Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = Defaults()
		if path, err := ConfigPath(); err == nil {
			cfg.path = path
			if loadErr := cfg.loadFile(path); loadErr != nil {
				logging.FromContext(ctx).Warn().
					Ctx(ctx).
					Str("component", "config").
					Err(loadErr).
					Msg("ignoring unreadable user config")
				cfg = Defaults()
				cfg.path = path
			}
		}
	}

	if startDir != "" {
		if overlay := FindProjectConfig(startDir); overlay != "" {
			merged := *cfg
			if err := ShallowMergeYAML(&merged, overlay); err != nil {
				logging.FromContext(ctx).Warn().
					Ctx(ctx).
					Str("component", "config").
					Str("operation", "merge_project_config").
					Err(err).
					Str("overlay_path", overlay).
					Msg("failed to merge project config, using user config")
			} else {
				cfg = &merged
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}
