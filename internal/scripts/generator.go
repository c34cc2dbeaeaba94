// Package scripts renders the notification hook scripts.
//
// Generation is a pure function from a sanitized config to shell text:
// the scripts embed the configuration as literals and never read the
// config file at fire time. Three variants exist — the main notify
// script (dispatches on the notification_type field read from stdin),
// and single-purpose stop and permission scripts. Each variant keeps
// its own cooldown stamp file so the three hook triggers rate-limit
// independently.
package scripts

import (
	"fmt"
	"strings"

	"github.com/claudenotify/claude-notify-go/internal/config"
)

// Signature marks a script as generated by this tool. The installer
// checks for it before overwriting an existing file: a script without
// the signature is assumed hand-authored and is backed up first.
const Signature = "# Generated by claude-notify - do not edit"

// Cooldown stamp file per variant. Distinct paths keep the three hook
// triggers from suppressing each other.
const (
	notifyCooldownFile     = "/tmp/claude-notify-cooldown"
	stopCooldownFile       = "/tmp/claude-notify-stop-cooldown"
	permissionCooldownFile = "/tmp/claude-notify-permission-cooldown"
)

const systemSoundDir = "/System/Library/Sounds"

// Notify renders the main hook script. It reads one line of JSON from
// stdin, extracts notification_type, and dispatches to the per-kind
// behavior. Unknown kinds are ignored.
func Notify(cfg config.Config) string {
	var b strings.Builder
	writeHeader(&b, cfg, notifyCooldownFile)

	b.WriteString(`INPUT=$(head -n 1)
NOTIFICATION_TYPE=$(printf '%s' "$INPUT" | sed -n 's/.*"notification_type"[[:space:]]*:[[:space:]]*"\([^"]*\)".*/\1/p')

case "$NOTIFICATION_TYPE" in
`)
	for _, kind := range []config.Kind{
		config.KindPermissionPrompt,
		config.KindIdlePrompt,
		config.KindElicitationDialog,
	} {
		fmt.Fprintf(&b, "  %s)\n", kind)
		writeKindBody(&b, "    ", cfg.Notifications[kind])
		b.WriteString("    ;;\n")
	}
	b.WriteString(`  *)
    :
    ;;
esac
`)
	return b.String()
}

// Stop renders the Stop-hook script: a single-branch variant fixed to
// the response_complete kind.
func Stop(cfg config.Config) string {
	return singleKind(cfg, cfg.Notifications[config.KindResponseComplete], stopCooldownFile)
}

// Permission renders the PermissionRequest-hook script, fixed to the
// permission_prompt kind.
func Permission(cfg config.Config) string {
	return singleKind(cfg, cfg.Notifications[config.KindPermissionPrompt], permissionCooldownFile)
}

func singleKind(cfg config.Config, setting config.Setting, cooldownFile string) string {
	var b strings.Builder
	writeHeader(&b, cfg, cooldownFile)
	writeKindBody(&b, "", setting)
	return b.String()
}

// writeHeader emits the shebang, signature, embedded globals, the
// global enabled gate, and the cooldown gate. The stamp file is only
// updated after the gate passes, so a suppressed invocation does not
// extend the window.
func writeHeader(b *strings.Builder, cfg config.Config, cooldownFile string) {
	fmt.Fprintf(b, "#!/bin/bash\n%s\n\n", Signature)
	fmt.Fprintf(b, "ENABLED=%t\n", cfg.Enabled)
	fmt.Fprintf(b, "VOLUME=%s\n", VolumeFraction(cfg.Volume))
	fmt.Fprintf(b, "COOLDOWN=%d\n", CooldownSeconds(cfg.Cooldown))
	fmt.Fprintf(b, "COOLDOWN_FILE=%q\n\n", cooldownFile)

	b.WriteString(`if [ "$ENABLED" != "true" ]; then
  exit 0
fi

if [ "$COOLDOWN" -gt 0 ] && [ -f "$COOLDOWN_FILE" ]; then
  LAST=$(cat "$COOLDOWN_FILE" 2>/dev/null || echo 0)
  NOW=$(date +%s)
  if [ $((NOW - LAST)) -lt "$COOLDOWN" ]; then
    exit 0
  fi
fi
date +%s > "$COOLDOWN_FILE"

`)
}

// writeKindBody emits the playback commands for one notification kind.
// Playback is backgrounded so the invoking hook never blocks on audio
// duration; the synthesized temp file is removed even when playback
// fails.
func writeKindBody(b *strings.Builder, indent string, s config.Setting) {
	if !s.Enabled {
		b.WriteString(indent + ":\n")
		return
	}
	switch s.Mode {
	case config.ModeSound:
		sound := SanitizeSoundName(s.Sound)
		fmt.Fprintf(b, "%safplay -v \"$VOLUME\" %q >/dev/null 2>&1 &\n",
			indent, systemSoundDir+"/"+sound+".aiff")
	default: // talk
		voice := EscapeShellText(s.Voice)
		text := EscapeShellText(s.Text)
		fmt.Fprintf(b, "%sTMPFILE=\"/tmp/claude-notify-say-$$-$RANDOM.aiff\"\n", indent)
		fmt.Fprintf(b, "%ssay -v \"%s\" -o \"$TMPFILE\" \"%s\" 2>/dev/null\n", indent, voice, text)
		fmt.Fprintf(b, "%s( afplay -v \"$VOLUME\" \"$TMPFILE\"; rm -f \"$TMPFILE\" ) >/dev/null 2>&1 &\n", indent)
	}
}

// EscapeShellText escapes the five characters that are special inside
// a shell double-quoted string, so user-supplied voice names and
// spoken text cannot break out of the quoting.
func EscapeShellText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '$', '`', '\\', '"', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizeSoundName strips every character that is not alphanumeric,
// space, hyphen, or underscore. The result is interpolated into a
// filesystem path, so anything else (slashes, dots) must go. An input
// with nothing left falls back to "Glass".
func SanitizeSoundName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Glass"
	}
	return b.String()
}

// VolumeFraction clamps a 0..100 volume to range and renders it as the
// 0..1 playback level afplay expects.
func VolumeFraction(volume float64) string {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	return fmt.Sprintf("%.2f", volume/100)
}

// CooldownSeconds clamps the cooldown to 0..30 whole seconds. Zero
// disables the gate entirely.
func CooldownSeconds(cooldown float64) int {
	if cooldown < 0 {
		cooldown = 0
	}
	if cooldown > 30 {
		cooldown = 30
	}
	return int(cooldown)
}
