package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyOutput   = "output"
	keyLogging  = "logging"
	keyPipeline = "pipeline"
	keyCache    = "cache"
	keyRules    = "rules"
	keyMetrics  = "metrics"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyOutput:   true,
	keyLogging:  true,
	keyPipeline: true,
	keyCache:    true,
	keyRules:    true,
	keyMetrics:  true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return &ConfigError{Source: overlayPath, Err: fmt.Errorf("parsing overlay YAML: %w", err)}
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so it can be decoded onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return &ConfigError{Source: overlayPath, Err: fmt.Errorf("applying overlay section %q: %w", key, err)}
		}
	}

	return nil
}

// unmarshalSection decodes raw YAML into the field of target named by key.
// Each section is decoded into a fresh zero value so that it is replaced
// as a whole.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyOutput:
		var v OutputConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		var v LoggingConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
	case keyPipeline:
		var v PipelineConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Pipeline = v
	case keyCache:
		var v CacheConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Cache = v
	case keyRules:
		var v RulesConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Rules = v
	case keyMetrics:
		var v MetricsConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Metrics = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
