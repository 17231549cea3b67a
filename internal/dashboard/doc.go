// Package dashboard turns a processed room configuration into the final
// layout document and serializes it to YAML.
//
// The package owns the last three stages of a generation run: entity
// filtering and structural deduplication (FilterExistingEntities,
// DeduplicateCards), view synthesis (Build), and output (WriteFile).
// Build is pure and deterministic; identical input always produces an
// identical document, which makes generated output diffable across runs.
//
// Views are synthesized in a fixed shape: an overview page with one
// navigation tile per room, a devices page grouping all cards by device
// category, and one page per room. When every room is hidden or empty a
// single fallback page is emitted so the document never renders blank.
package dashboard
