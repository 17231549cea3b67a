package mqtt

import "testing"

func TestTopics_ConfigWildcards(t *testing.T) {
	got := Topics{}.ConfigWildcards()
	want := []string{"homeassistant/+/+/config", "homeassistant/+/+/+/config"}
	if len(got) != len(want) {
		t.Fatalf("got %d wildcards, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("wildcard[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	custom := Topics{Prefix: "custom"}.ConfigWildcards()
	if custom[0] != "custom/+/+/config" {
		t.Errorf("custom prefix wildcard = %q", custom[0])
	}
}

func TestTopics_ParseConfig(t *testing.T) {
	tests := []struct {
		name          string
		topic         string
		wantComponent string
		wantObjectID  string
		wantOK        bool
	}{
		{
			name:          "without node id",
			topic:         "homeassistant/light/kitchen_main/config",
			wantComponent: "light",
			wantObjectID:  "kitchen_main",
			wantOK:        true,
		},
		{
			name:          "with node id",
			topic:         "homeassistant/sensor/bridge01/temp_living/config",
			wantComponent: "sensor",
			wantObjectID:  "temp_living",
			wantOK:        true,
		},
		{
			name:   "wrong prefix",
			topic:  "zigbee2mqtt/light/kitchen/config",
			wantOK: false,
		},
		{
			name:   "state topic",
			topic:  "homeassistant/light/kitchen_main/state",
			wantOK: false,
		},
		{
			name:   "too deep",
			topic:  "homeassistant/light/a/b/c/config",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			component, objectID, ok := Topics{}.ParseConfig(tt.topic)
			if ok != tt.wantOK {
				t.Fatalf("ParseConfig(%q) ok = %v, want %v", tt.topic, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if component != tt.wantComponent {
				t.Errorf("component = %q, want %q", component, tt.wantComponent)
			}
			if objectID != tt.wantObjectID {
				t.Errorf("objectID = %q, want %q", objectID, tt.wantObjectID)
			}
		})
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	handler := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); err != ErrInvalidTopic {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("a/b", 3, handler); err != ErrInvalidQoS {
		t.Errorf("bad qos error = %v, want ErrInvalidQoS", err)
	}
}
