// Package translation provides the localized strings used in generated
// dashboards (view titles, device counts, placeholder text).
//
// Tables are JSON key-value files, one per language code, embedded in the
// binary and optionally overridden from a directory on disk. Loading is
// lazy and cached per language for the lifetime of a Catalog; lookups after
// the first load are synchronous map hits. Missing languages or keys fall
// back to a caller-supplied default string, never an error.
package translation
