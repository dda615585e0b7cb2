package lti

import (
	"errors"
	"fmt"
)

// Kind tags the subsystem a ConfigurationError originated from.
type Kind string

// KindToolProvider is raised for every invalid tool provider setting.
const KindToolProvider Kind = "ToolProvider"

// ErrToolProvider is the sentinel wrapped by ToolProvider configuration errors.
// Use errors.Is() to check against it.
var ErrToolProvider = errors.New("invalid tool provider configuration")

// ConfigurationError reports a rejected configuration value.
// Implements error interface and supports unwrapping.
type ConfigurationError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates an error of the given kind.
func NewConfigurationError(message string, kind Kind) *ConfigurationError {
	err := &ConfigurationError{
		Kind:    kind,
		Message: message,
	}
	if kind == KindToolProvider {
		err.Err = ErrToolProvider
	}
	return err
}

func toolProviderError(format string, args ...any) *ConfigurationError {
	return NewConfigurationError(fmt.Sprintf(format, args...), KindToolProvider)
}
