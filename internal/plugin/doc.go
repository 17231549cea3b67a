// Package plugin runs the configuration transformation pipeline.
//
// Transforms are small named functions that rewrite the dashboard
// configuration between loading and view synthesis. They run in
// lexicographic name order, so the pipeline is deterministic regardless
// of registration order, and each one is isolated: a failing or
// panicking transform loses only its own effect.
//
// Four transforms ship built in: blueprint_loader pulls rooms from
// standalone YAML files, dwains_style applies a house style with a
// per-room sidebar, header_card gives each room a heading card, and
// lovelace_cards_loader imports an existing hand-built dashboard.
package plugin
