// Package mqtt provides a subscribe-only MQTT client for collecting
// retained discovery announcements from a broker.
//
// Integrations that follow the MQTT discovery convention publish one
// retained JSON config message per entity under the discovery prefix.
// Because the messages are retained, a fresh connection receives the
// complete entity inventory within moments of subscribing, which lets a
// one-shot generation run treat the broker as a queryable inventory.
//
// The client handles connection lifecycle, automatic re-subscription on
// reconnect, and panic isolation around message handlers. Topic layout
// helpers live in Topics.
package mqtt
