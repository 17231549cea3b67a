// Package config defines the dashboard configuration model and validator.
//
// A configuration describes rooms (named groups of cards), sidebar
// shortcuts, header/theme/layout options and external resources. The schema
// is deliberately open: cards accept arbitrary keys beyond the required
// "type", and unknown keys at the document root or on rooms are preserved
// in opaque passthrough bags rather than rejected. Closing the schema would
// break compatibility with the unbounded catalogue of external card types.
//
// Load validates and normalizes raw YAML input, injecting defaults for
// omitted optional fields. Any structural violation (wrong type, missing
// required field, invalid enum value) fails with a ValidationError carrying
// a path-qualified message; no partial result is returned.
//
// The Card type preserves authored key order through a YAML round-trip so
// the generated document matches what was written. Deduplication uses
// Card.CanonicalKey, a key-order-independent structural fingerprint.
//
// Editing operations (MoveCard, SetRoomHidden, AddShortcut) back the
// smartdash edit CLI and persist via Save.
package config
