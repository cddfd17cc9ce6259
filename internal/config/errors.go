package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFile  = errors.New("configuration file not found")
	ErrMissingKey   = errors.New("configuration key not found")
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Error is the configuration failure type. It is never recoverable: every fixture
// depends on the values it guards.
type Error struct {
	Path    string
	Section string
	Key     string
	Err     error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config %s: [%s] %s: %v", e.Path, e.Section, e.Key, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
