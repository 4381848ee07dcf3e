package model

import (
	"errors"
	"fmt"
)

// ErrUnknownAction matches any *UnknownActionError via errors.Is.
var ErrUnknownAction = errors.New("unknown action")

// UnknownActionError is returned when an action name is not declared for
// the requested target. No request is sent.
type UnknownActionError struct {
	Model  string
	Action string
	On     Target
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("model %q has no %s action %q", e.Model, e.On, e.Action)
}

// Is reports whether target is ErrUnknownAction.
func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// ConfigError is returned when a Config fails validation.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid model config: %s: %s", e.Field, e.Message)
	}
	return "invalid model config: " + e.Message
}
