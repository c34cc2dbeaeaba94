// Package audio wraps the OS speech-synthesis and playback commands
// and enumerates the voices and sounds they can use.
//
// The commands (`say`, `afplay`) are opaque collaborators: enumeration
// failures degrade to empty lists, preview failures surface as errors
// for that one preview.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/claudenotify/claude-notify-go/internal/config"
	"github.com/claudenotify/claude-notify-go/internal/scripts"
)

const systemSoundDir = "/System/Library/Sounds"

// Voice is one installed synthesis voice.
type Voice struct {
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// System queries and drives the OS audio commands.
type System struct {
	log *slog.Logger
}

// NewSystem creates a System. A nil logger falls back to slog.Default().
func NewSystem(log *slog.Logger) *System {
	if log == nil {
		log = slog.Default()
	}
	return &System{log: log}
}

// Voices lists the installed synthesis voices. On any failure it logs
// and returns an empty list.
func (s *System) Voices(ctx context.Context) []Voice {
	out, err := exec.CommandContext(ctx, "say", "-v", "?").Output()
	if err != nil {
		s.log.Warn("listing voices failed", "error", err)
		return nil
	}
	return parseVoices(string(out))
}

// parseVoices decodes `say -v ?` output: one voice per line, name
// columns followed by a locale token, then a '#' demo sentence.
func parseVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		locale := fields[len(fields)-1]
		if !strings.ContainsAny(locale, "_-") {
			continue
		}
		voices = append(voices, Voice{
			Name:   strings.Join(fields[:len(fields)-1], " "),
			Locale: locale,
		})
	}
	return voices
}

// Sounds lists the available system sound names (file names without
// extension), system sounds first, user sounds merged in. Failures
// degrade to an empty list.
func (s *System) Sounds() []string {
	dirs := []string{systemSoundDir}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Library", "Sounds"))
	}

	seen := make(map[string]bool)
	var names []string
	for _, dir := range dirs {
		matches, err := doublestar.FilepathGlob(filepath.Join(dir, "*.{aiff,wav,caf,m4a}"))
		if err != nil {
			s.log.Warn("listing sounds failed", "dir", dir, "error", err)
			continue
		}
		for _, m := range matches {
			base := filepath.Base(m)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Speak synthesizes text with the given voice into a temp file and
// plays it at the 0..100 volume. The temp file is removed even when
// playback fails.
func (s *System) Speak(ctx context.Context, voice, text string, volume float64) error {
	tmp, err := os.CreateTemp("", "claude-notify-say-*.aiff")
	if err != nil {
		return fmt.Errorf("creating temp audio file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if out, err := exec.CommandContext(ctx, "say", "-v", voice, "-o", tmpPath, text).CombinedOutput(); err != nil {
		return fmt.Errorf("speech synthesis failed: %s", firstLine(out, err))
	}
	return s.play(ctx, tmpPath, volume)
}

// PlaySound plays a named system sound at the 0..100 volume. The name
// is sanitized the same way the generated scripts sanitize it.
func (s *System) PlaySound(ctx context.Context, name string, volume float64) error {
	path := filepath.Join(systemSoundDir, scripts.SanitizeSoundName(name)+".aiff")
	return s.play(ctx, path, volume)
}

// Preview fires one notification setting the way its generated script
// would, synchronously.
func (s *System) Preview(ctx context.Context, setting config.Setting, volume float64) error {
	if setting.Mode == config.ModeSound {
		return s.PlaySound(ctx, setting.Sound, volume)
	}
	return s.Speak(ctx, setting.Voice, setting.Text, volume)
}

func (s *System) play(ctx context.Context, path string, volume float64) error {
	if out, err := exec.CommandContext(ctx, "afplay", "-v", scripts.VolumeFraction(volume), path).CombinedOutput(); err != nil {
		return fmt.Errorf("playback failed: %s", firstLine(out, err))
	}
	return nil
}

// firstLine extracts a short message from command output, falling back
// to the exec error.
func firstLine(out []byte, err error) string {
	msg := strings.TrimSpace(string(out))
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if msg == "" {
		return err.Error()
	}
	return msg
}
