package plugin

import "errors"

var (
	// ErrInvalidPlugin is returned when registering a nameless or nil
	// transform.
	ErrInvalidPlugin = errors.New("plugin: invalid registration")

	// ErrDuplicatePlugin is returned when a name is registered twice.
	ErrDuplicatePlugin = errors.New("plugin: name already registered")
)
