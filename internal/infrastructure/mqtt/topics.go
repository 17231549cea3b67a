package mqtt

import (
	"fmt"
	"strings"
)

// Discovery topic layout.
//
// Integrations announce entities by publishing a retained JSON config to
//
//	<prefix>/<component>/[<node_id>/]<object_id>/config
//
// where prefix defaults to "homeassistant" and node_id is optional. The
// component segment is the entity domain (light, sensor, climate, ...).

// Topics builds and parses discovery topic names for a given prefix.
type Topics struct {
	// Prefix is the discovery prefix, "homeassistant" by default.
	Prefix string
}

// prefix returns the configured prefix or the conventional default.
func (t Topics) prefix() string {
	if t.Prefix == "" {
		return "homeassistant"
	}
	return t.Prefix
}

// ConfigWildcards returns the subscription patterns covering every
// discovery config topic, with and without a node_id segment.
func (t Topics) ConfigWildcards() []string {
	return []string{
		fmt.Sprintf("%s/+/+/config", t.prefix()),
		fmt.Sprintf("%s/+/+/+/config", t.prefix()),
	}
}

// ParseConfig splits a discovery config topic into its component (entity
// domain) and object ID. ok is false for topics outside the discovery
// layout.
func (t Topics) ParseConfig(topic string) (component, objectID string, ok bool) {
	rest, found := strings.CutPrefix(topic, t.prefix()+"/")
	if !found {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	switch len(parts) {
	case 3: // component/object_id/config
		if parts[2] != "config" {
			return "", "", false
		}
		return parts[0], parts[1], true
	case 4: // component/node_id/object_id/config
		if parts[3] != "config" {
			return "", "", false
		}
		return parts[0], parts[2], true
	default:
		return "", "", false
	}
}
