package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCard_KeyOrderRoundTrip(t *testing.T) {
	input := "type: custom:button-card\nentity: light.kitchen\nname: Kitchen\nicon: mdi:lightbulb\n"

	card := NewCard()
	if err := yaml.Unmarshal([]byte(input), card); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	out, err := yaml.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != input {
		t.Errorf("round trip = %q, want %q", out, input)
	}
}

func TestCard_SetPreservesPosition(t *testing.T) {
	card := NewCardFrom("type", "light", "entity", "light.a", "name", "A")
	card.Set("type", "sensor")

	want := []string{"type", "entity", "name"}
	got := card.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if card.Type() != "sensor" {
		t.Errorf("Type() = %q, want %q", card.Type(), "sensor")
	}
}

func TestCard_CanonicalKeyOrderIndependent(t *testing.T) {
	a := NewCardFrom("type", "light", "entity", "light.a")
	b := NewCardFrom("entity", "light.a", "type", "light")
	c := NewCardFrom("type", "light", "entity", "light.b")

	if a.CanonicalKey() != b.CanonicalKey() {
		t.Errorf("cards with reordered keys should share a canonical key")
	}
	if a.CanonicalKey() == c.CanonicalKey() {
		t.Errorf("structurally distinct cards should not share a canonical key")
	}
}

func TestCard_NonMappingRetainedRaw(t *testing.T) {
	card := NewCard()
	if err := yaml.Unmarshal([]byte(`"just a string"`), card); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if card.IsMapping() {
		t.Fatal("scalar card entry should not be a mapping")
	}
	if card.CanonicalKey() != "" {
		t.Errorf("raw cards must not produce a canonical key")
	}

	out, err := yaml.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "just a string") {
		t.Errorf("raw card not preserved: %q", out)
	}
}

func TestCard_DeepCopyIsolation(t *testing.T) {
	card := NewCardFrom(
		"type", "grid",
		"options", map[string]any{"columns": 2},
		"cards", []*Card{NewCardFrom("type", "light")},
	)

	cpy := card.DeepCopy()
	opts, _ := cpy.Get("options")
	opts.(map[string]any)["columns"] = 99
	nested, _ := cpy.Get("cards")
	nested.([]*Card)[0].Set("type", "sensor")

	origOpts, _ := card.Get("options")
	if origOpts.(map[string]any)["columns"] != 2 {
		t.Error("DeepCopy() shares nested maps with original")
	}
	origNested, _ := card.Get("cards")
	if origNested.([]*Card)[0].Type() != "light" {
		t.Error("DeepCopy() shares nested cards with original")
	}
}

func TestCard_Delete(t *testing.T) {
	card := NewCardFrom("type", "light", "condition", "user == 'admin'", "name", "A")
	card.Delete("condition")

	if _, ok := card.Get("condition"); ok {
		t.Error("Delete() left the key in place")
	}
	got := card.Keys()
	if len(got) != 2 || got[0] != "type" || got[1] != "name" {
		t.Errorf("Keys() after delete = %v, want [type name]", got)
	}
}
