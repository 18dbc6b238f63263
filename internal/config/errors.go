package config

import (
	"errors"
	"fmt"
)

// ErrDuplicatePlatform is returned when an init collides with a live platform
// name. The store is left unchanged.
var ErrDuplicatePlatform = errors.New("platform already configured")

// ErrNotFound is returned when an operation names an unknown platform.
var ErrNotFound = errors.New("platform not found")

// CorruptError means the persisted configuration could not be fully parsed.
// There is no partial load: the process refuses to proceed rather than guess.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("glue configuration %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
