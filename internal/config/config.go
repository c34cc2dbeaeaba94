// Package config defines the notification configuration model and its
// on-disk store.
//
// The config lives at ~/.claude/notify.json (override with the
// CLAUDE_NOTIFY_CONFIG environment variable). Loading tolerates comments
// and trailing commas; writing emits plain indented JSON. Malformed
// content never fails a load — every field degrades to its default
// independently.
package config

import (
	"os"
	"path/filepath"
)

// Kind names a notification event category. The set is closed: these
// four values map one-to-one onto the hook events the Claude CLI raises.
type Kind string

const (
	KindPermissionPrompt  Kind = "permission_prompt"
	KindIdlePrompt        Kind = "idle_prompt"
	KindElicitationDialog Kind = "elicitation_dialog"
	KindResponseComplete  Kind = "response_complete"
)

// Kinds lists every notification kind in display order.
var Kinds = []Kind{
	KindPermissionPrompt,
	KindIdlePrompt,
	KindElicitationDialog,
	KindResponseComplete,
}

// Mode selects how a notification is delivered.
const (
	ModeTalk  = "talk"
	ModeSound = "sound"
)

// Setting holds the per-kind notification behavior. After Sanitize
// every field is populated; Mode is always "talk" or "sound".
type Setting struct {
	Enabled bool   `json:"enabled"`
	Mode    string `json:"mode"`
	Voice   string `json:"voice"`
	Text    string `json:"text"`
	Sound   string `json:"sound"`
}

// Config is the full notification configuration.
type Config struct {
	Enabled       bool             `json:"enabled"`
	Volume        float64          `json:"volume"`   // 0..100
	Cooldown      float64          `json:"cooldown"` // seconds, 0..30
	Notifications map[Kind]Setting `json:"notifications"`
}

// Default returns the hard-coded default configuration.
func Default() Config {
	return Config{
		Enabled:  true,
		Volume:   50,
		Cooldown: 2,
		Notifications: map[Kind]Setting{
			KindPermissionPrompt: {
				Enabled: true,
				Mode:    ModeTalk,
				Voice:   "Samantha",
				Text:    "Claude needs permission",
				Sound:   "Glass",
			},
			KindIdlePrompt: {
				Enabled: true,
				Mode:    ModeTalk,
				Voice:   "Samantha",
				Text:    "Claude is waiting for input",
				Sound:   "Glass",
			},
			KindElicitationDialog: {
				Enabled: true,
				Mode:    ModeTalk,
				Voice:   "Samantha",
				Text:    "Claude has a question",
				Sound:   "Glass",
			},
			KindResponseComplete: {
				Enabled: true,
				Mode:    ModeTalk,
				Voice:   "Samantha",
				Text:    "Response complete",
				Sound:   "Glass",
			},
		},
	}
}

// Path returns the config file location. CLAUDE_NOTIFY_CONFIG overrides
// the default of ~/.claude/notify.json.
func Path() (string, error) {
	if p := os.Getenv("CLAUDE_NOTIFY_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "notify.json"), nil
}
