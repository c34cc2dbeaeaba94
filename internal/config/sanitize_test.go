package config

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return v
}

func TestSanitizeNonObjectReturnsDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"string", "hello"},
		{"number", 42.0},
		{"array", []any{1.0, 2.0}},
		{"bool", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Sanitize(tc.in)
			if !reflect.DeepEqual(got, Default()) {
				t.Errorf("Sanitize(%v) != Default()", tc.in)
			}
		})
	}
}

func TestSanitizeAlwaysFullyPopulated(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"enabled": "yes", "volume": "loud", "cooldown": null}`,
		`{"notifications": 7}`,
		`{"notifications": {"idle_prompt": {"mode": "shout", "voice": 3}}}`,
		`{"notifications": {"permission_prompt": null}}`,
	}
	for _, in := range inputs {
		cfg := Sanitize(decode(t, in))
		if len(cfg.Notifications) != len(Kinds) {
			t.Fatalf("input %s: got %d kinds, want %d", in, len(cfg.Notifications), len(Kinds))
		}
		for _, kind := range Kinds {
			s, ok := cfg.Notifications[kind]
			if !ok {
				t.Fatalf("input %s: missing kind %s", in, kind)
			}
			if s.Mode != ModeTalk && s.Mode != ModeSound {
				t.Errorf("input %s: kind %s has mode %q", in, kind, s.Mode)
			}
		}
	}
}

func TestSanitizeFieldRules(t *testing.T) {
	in := decode(t, `{
		"enabled": false,
		"volume": 80,
		"cooldown": "bogus",
		"notifications": {
			"idle_prompt": {
				"enabled": false,
				"mode": "sound",
				"voice": "",
				"text": 42,
				"sound": "Ping"
			}
		}
	}`)
	cfg := Sanitize(in)

	if cfg.Enabled {
		t.Error("enabled: want false")
	}
	if cfg.Volume != 80 {
		t.Errorf("volume = %v, want 80", cfg.Volume)
	}
	// Wrong-typed cooldown falls back to the default.
	if cfg.Cooldown != Default().Cooldown {
		t.Errorf("cooldown = %v, want default %v", cfg.Cooldown, Default().Cooldown)
	}

	s := cfg.Notifications[KindIdlePrompt]
	if s.Enabled {
		t.Error("idle_prompt.enabled: want false")
	}
	if s.Mode != ModeSound {
		t.Errorf("mode = %q, want sound", s.Mode)
	}
	// Empty string is a string and is kept.
	if s.Voice != "" {
		t.Errorf("voice = %q, want empty", s.Voice)
	}
	// Wrong-typed text falls back.
	if s.Text != Default().Notifications[KindIdlePrompt].Text {
		t.Errorf("text = %q, want default", s.Text)
	}
	if s.Sound != "Ping" {
		t.Errorf("sound = %q, want Ping", s.Sound)
	}
}

func TestSanitizeModeRejectsUnknown(t *testing.T) {
	for _, mode := range []string{"shout", "TALK", "Sound", ""} {
		in := decode(t, `{"notifications": {"idle_prompt": {"mode": "`+mode+`"}}}`)
		cfg := Sanitize(in)
		if got := cfg.Notifications[KindIdlePrompt].Mode; got != ModeTalk {
			t.Errorf("mode %q: sanitized to %q, want default talk", mode, got)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	in := decode(t, `{"enabled": false, "volume": 12, "notifications": {"stop": {}}}`)
	once := Sanitize(in)

	// Re-encode and sanitize again; nothing may change.
	data, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	twice := Sanitize(decode(t, string(data)))
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Sanitize not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestNormalizeFillsMissingKinds(t *testing.T) {
	cfg := Config{Enabled: true, Volume: 30, Cooldown: 1, Notifications: map[Kind]Setting{
		KindIdlePrompt: {Enabled: true, Mode: "bogus", Voice: "Fred", Text: "hi", Sound: "Glass"},
	}}
	out := Normalize(cfg)
	if len(out.Notifications) != len(Kinds) {
		t.Fatalf("got %d kinds, want %d", len(out.Notifications), len(Kinds))
	}
	if out.Notifications[KindIdlePrompt].Mode != ModeTalk {
		t.Errorf("invalid mode not reset: %q", out.Notifications[KindIdlePrompt].Mode)
	}
	if out.Notifications[KindIdlePrompt].Voice != "Fred" {
		t.Error("valid fields must survive Normalize")
	}

	// Normalize of a sanitized config is a no-op.
	again := Normalize(out)
	if !reflect.DeepEqual(out, again) {
		t.Error("Normalize not idempotent")
	}
}
