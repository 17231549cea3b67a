package config

import (
	"errors"
	"fmt"
)

// Domain errors for the config package.
var (
	// ErrInvalidConfig is the sentinel wrapped by every ValidationError.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrRoomNotFound is returned by editing operations when the named
	// room does not exist.
	ErrRoomNotFound = errors.New("config: room not found")

	// ErrCardIndexOutOfRange is returned by MoveCard when an index does
	// not address a card in the room.
	ErrCardIndexOutOfRange = errors.New("config: card index out of range")
)

// ValidationError describes a structural violation in the input
// configuration. Path locates the offending value, e.g. "rooms[2].layout".
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration at %s: %s", e.Path, e.Message)
}

// Unwrap allows errors.Is(err, ErrInvalidConfig) checks.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }
