// Package generator orchestrates a complete generation run.
//
// A run is a straight pipeline: load and validate the dashboard
// configuration, query the entity inventory, optionally append
// discovered rooms, run the plugin pipeline, apply visibility
// conditions, drop cards for unknown entities, deduplicate, synthesize
// views and write the document atomically.
//
// The failure policy lives here, not in the stages. Configuration and
// output errors abort the run; inventory, discovery and plugin errors
// degrade it to whatever can still be produced from the authored
// configuration.
package generator
