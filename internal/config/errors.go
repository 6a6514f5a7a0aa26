package config

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks every configuration problem so callers can map
// them to a distinct exit status with errors.Is.
var ErrConfiguration = errors.New("configuration error")

// Rules errors.
var (
	ErrUnsupportedSchema = errors.New("unsupported rules schema version")
	ErrDuplicateCategory = errors.New("category listed more than once")
)

// ConfigError reports a problem in one configuration source: a file path,
// an environment variable or a dotted key.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap exposes both ErrConfiguration and the underlying cause.
func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}

// IsConfigError reports whether err is a configuration problem.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
