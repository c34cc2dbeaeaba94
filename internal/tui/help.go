package tui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# claude-notify

Configure voice and sound notifications for Claude Code events.

## Rows

- **Notifications enabled** — master switch baked into the generated
  scripts; saving while off generates scripts that exit immediately.
- **Volume** — playback level, 0–100.
- **Cooldown** — minimum seconds between two firings of the same hook;
  0 plays every time.
- Per event: enable it, pick *talk* (spoken text with the chosen
  voice) or *sound* (a system sound), and set the voice, text, or
  sound accordingly.

## Keys

| Key | Action |
| --- | --- |
| enter / ← / → | toggle, cycle, or edit the selected row |
| p | preview the selected event's notification |
| s | save (and refresh installed hook scripts) |
| q | quit |

Saving only writes the config file. Run ` + "`claude-notify install-hook`" + `
to register the hooks with Claude Code.
`

// helpView renders the help screen, degrading to plain markdown when
// the renderer cannot be built.
func helpView(width int) string {
	if width <= 0 || width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
