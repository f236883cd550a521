package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsolvable is reported when the board still has no legal move after
	// the reshuffle budget is spent.
	ErrUnsolvable = errors.New("board has no legal move after reshuffling")

	// ErrInvalidLevel is reported when a level configuration cannot be played.
	ErrInvalidLevel = errors.New("invalid level configuration")
)

// ConfigError is a fatal configuration problem. It is never recovered locally.
type ConfigError struct {
	Op  string
	Err error
	Msg string
}

func (e *ConfigError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("core: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("core: %s: %v: %s", e.Op, e.Err, e.Msg)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ConfigError) Unwrap() error { return e.Err }

func invalidLevel(format string, args ...any) *ConfigError {
	return &ConfigError{Op: "new session", Err: ErrInvalidLevel, Msg: fmt.Sprintf(format, args...)}
}

// InvariantError is the panic value used when the engine detects a defect.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("core: invariant violated in %s: %s", e.Op, e.Detail)
}
