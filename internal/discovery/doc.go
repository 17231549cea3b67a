// Package discovery turns an entity inventory into dashboard rooms.
//
// Each registry area becomes one room whose cards cover the entities
// assigned to it, directly or through their device. Entities that cannot
// be attributed to an area, and every entity when the registries are
// unreachable, collect in a localized fallback room so nothing silently
// disappears from the generated dashboard.
package discovery
