package config

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Card is a single dashboard card definition. The schema is open: a card
// requires a "type" but accepts any additional keys, because the universe of
// card types supported by external renderers is unbounded. Keys keep their
// authored order through a YAML round-trip so the emitted document matches
// what the user (or a plugin) constructed.
//
// A Card normally behaves like an ordered string-keyed mapping. Malformed
// input (a scalar or sequence where a card was expected) is retained as an
// opaque raw node: such entries pass through filtering and serialization
// untouched and are never deduplicated.
type Card struct {
	keys   []string
	values map[string]any

	// raw holds a non-mapping card entry verbatim. When set, keys/values
	// are empty and the card is opaque to every pipeline stage.
	raw *yaml.Node
}

// NewCard returns an empty mapping card.
func NewCard() *Card {
	return &Card{values: make(map[string]any)}
}

// NewCardFrom builds a card from alternating key/value pairs, preserving the
// given order. It panics on an odd number of arguments or a non-string key;
// it is intended for fixed literal construction in builders and tests.
func NewCardFrom(pairs ...any) *Card {
	if len(pairs)%2 != 0 {
		panic("config: NewCardFrom requires key/value pairs")
	}
	c := NewCard()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("config: NewCardFrom key %d is not a string", i/2))
		}
		c.Set(key, pairs[i+1])
	}
	return c
}

// IsMapping reports whether the card is a well-formed mapping.
func (c *Card) IsMapping() bool {
	return c != nil && c.raw == nil
}

// Len returns the number of keys.
func (c *Card) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns the card's keys in authored order.
func (c *Card) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Get returns the value for key and whether it was present.
func (c *Card) Get(key string) (any, bool) {
	if c == nil || c.raw != nil {
		return nil, false
	}
	v, ok := c.values[key]
	return v, ok
}

// GetString returns the string value for key, or "" if absent or not a string.
func (c *Card) GetString(key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Type returns the card's "type" value.
func (c *Card) Type() string { return c.GetString("type") }

// Entity returns the card's "entity" value. Cards without an entity return
// the empty string; they are never entity-filtered or counted as devices.
func (c *Card) Entity() string { return c.GetString("entity") }

// Set stores a value, appending the key if new and keeping its position if
// it already exists.
func (c *Card) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Delete removes a key, preserving the order of the remaining keys.
func (c *Card) Delete(key string) {
	if _, exists := c.values[key]; !exists {
		return
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// CanonicalKey returns a key-order-independent structural fingerprint of the
// card, used for deduplication. Two cards with the same keys and values are
// duplicates regardless of key order. Raw (non-mapping) entries return ""
// and must not be deduplicated by callers.
func (c *Card) CanonicalKey() string {
	if !c.IsMapping() {
		return ""
	}
	data, err := json.Marshal(c.values)
	if err != nil {
		// Values that cannot round-trip through JSON still need a stable
		// fingerprint; fall back to a sorted formatted dump.
		return c.fallbackKey()
	}
	return string(data)
}

func (c *Card) fallbackKey() string {
	keys := c.Keys()
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += fmt.Sprintf("%s=%#v;", k, c.values[k])
	}
	return out
}

// DeepCopy returns an independent copy of the card. Nested maps, slices and
// cards are cloned so mutations of the copy cannot affect the original.
func (c *Card) DeepCopy() *Card {
	if c == nil {
		return nil
	}
	if c.raw != nil {
		return &Card{raw: c.raw}
	}
	cpy := NewCard()
	for _, k := range c.keys {
		cpy.Set(k, deepCopyValue(c.values[k]))
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps, slices
// and cards. Primitives are safe to copy by value.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		cpy := make(map[string]any, len(val))
		for k, elem := range val {
			cpy[k] = deepCopyValue(elem)
		}
		return cpy
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	case []*Card:
		cpy := make([]*Card, len(val))
		for i, card := range val {
			cpy[i] = card.DeepCopy()
		}
		return cpy
	case *Card:
		return val.DeepCopy()
	default:
		return v
	}
}

// MarshalJSON emits the card with sorted keys. Used only for structural
// fingerprints; document serialization goes through YAML.
func (c *Card) MarshalJSON() ([]byte, error) {
	if !c.IsMapping() {
		return json.Marshal(nil)
	}
	return json.Marshal(c.values)
}

// MarshalYAML emits the card as a mapping node with keys in authored order.
func (c *Card) MarshalYAML() (any, error) {
	if c == nil {
		return nil, nil
	}
	if c.raw != nil {
		return c.raw, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range c.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if err := valNode.Encode(c.values[k]); err != nil {
			return nil, fmt.Errorf("encoding card key %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML decodes a card from a YAML node. Mapping nodes become
// ordered cards; anything else is retained verbatim as a raw entry.
func (c *Card) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		c.raw = value
		return nil
	}
	c.values = make(map[string]any, len(value.Content)/2)
	c.keys = c.keys[:0]
	for i := 0; i < len(value.Content)-1; i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]
		var v any
		if err := valNode.Decode(&v); err != nil {
			return fmt.Errorf("decoding card key %q: %w", keyNode.Value, err)
		}
		c.Set(keyNode.Value, v)
	}
	return nil
}
