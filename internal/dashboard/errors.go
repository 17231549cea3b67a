package dashboard

import "errors"

var (
	// ErrSerialize indicates the document could not be encoded to YAML.
	ErrSerialize = errors.New("dashboard: serialization failed")

	// ErrWrite indicates the serialized document could not be written out.
	ErrWrite = errors.New("dashboard: write failed")
)
