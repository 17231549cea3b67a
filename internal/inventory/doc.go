// Package inventory answers one question for the rest of the tool: which
// entities exist, and where do they live?
//
// Three interchangeable backends implement the Source interface. The
// remote backend queries a live Home Assistant instance (states over
// REST, registries over the WebSocket API). The registry backend reads a
// SQLite export for air-gapped use. The MQTT backend reconstructs the
// inventory from retained discovery announcements on a broker.
//
// Callers hold the degradation policy, not the backends: a source that
// cannot serve States makes discovery impossible, while registry lookups
// are allowed to fail and merely cost area attribution.
package inventory
