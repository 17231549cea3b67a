package inventory

import "errors"

var (
	// ErrUnknownSource is returned for an unrecognised inventory.source
	// setting.
	ErrUnknownSource = errors.New("inventory: unknown source")

	// ErrRequestFailed is returned when a remote API request fails.
	ErrRequestFailed = errors.New("inventory: request failed")

	// ErrAuthFailed is returned when the remote API rejects the token.
	ErrAuthFailed = errors.New("inventory: authentication failed")
)
