// Package claudesettings models the shared Claude CLI settings file
// (~/.claude/settings.json) for hook registration.
//
// The file is owned by the Claude CLI and edited by other tools, so
// everything this package does not understand is carried as raw JSON
// and written back byte-for-byte: unknown top-level keys, unknown hook
// events, and hook matchers belonging to other tools all round-trip
// untouched. Ownership of a matcher is decided solely by exact string
// equality of an entry's command path against one of our script paths.
package claudesettings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Hook event keys this tool registers under.
const (
	EventNotification      = "Notification"
	EventStop              = "Stop"
	EventPermissionRequest = "PermissionRequest"
)

// ErrCorrupt reports that the settings file exists but cannot be
// parsed. Callers surface this as a user-actionable message; it is
// deliberately distinct from a missing file, which loads as an empty
// document.
var ErrCorrupt = errors.New("settings file is not valid JSON")

// Entry is one hook action inside a matcher.
type Entry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// Matcher scopes a list of hook entries to an event pattern.
type Matcher struct {
	Matcher string  `json:"matcher"`
	Hooks   []Entry `json:"hooks"`
}

// CommandMatcher builds the matcher shape this tool installs: a single
// command entry under the given pattern.
func CommandMatcher(pattern, command string) Matcher {
	return Matcher{
		Matcher: pattern,
		Hooks:   []Entry{{Type: "command", Command: command}},
	}
}

// Document is a loaded settings file. Top-level keys other than
// "hooks" stay raw; within "hooks", event values stay raw except where
// a mutation touches them.
type Document struct {
	top   map[string]json.RawMessage
	hooks map[string]json.RawMessage
}

// Load reads the settings file at path. A missing file yields an empty
// document. A parse failure yields an error wrapping ErrCorrupt that
// names the file so the user can repair it by hand.
func Load(path string) (*Document, error) {
	doc := &Document{
		top:   make(map[string]json.RawMessage),
		hooks: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	if err := json.Unmarshal(data, &doc.top); err != nil {
		return nil, fmt.Errorf("%w: %s: fix or remove the file and retry", ErrCorrupt, path)
	}
	if doc.top == nil {
		// A bare null parses fine but nils the map. Same as empty.
		doc.top = make(map[string]json.RawMessage)
	}
	if raw, ok := doc.top["hooks"]; ok {
		if err := json.Unmarshal(raw, &doc.hooks); err != nil {
			return nil, fmt.Errorf("%w: %s: \"hooks\" is not an object", ErrCorrupt, path)
		}
		if doc.hooks == nil {
			doc.hooks = make(map[string]json.RawMessage)
		}
	}
	return doc, nil
}

// Save writes the document atomically: serialize to a sibling .tmp
// path, then rename over the real file. A failed write removes the
// temp file best-effort, so the real file is never seen half-written.
func (d *Document) Save(path string) error {
	if len(d.hooks) > 0 {
		raw, err := json.Marshal(d.hooks)
		if err != nil {
			return fmt.Errorf("marshaling hooks: %w", err)
		}
		d.top["hooks"] = raw
	} else {
		delete(d.top, "hooks")
	}

	out, err := json.MarshalIndent(d.top, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	out = append(out, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing settings temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}

// HasOwned reports whether the event's matcher list contains at least
// one matcher owned by commandPaths.
func (d *Document) HasOwned(event string, commandPaths []string) bool {
	matchers, _ := d.eventMatchers(event)
	for _, raw := range matchers {
		if isOwned(raw, commandPaths) {
			return true
		}
	}
	return false
}

// RemoveOwned strips every owned matcher from the event's list.
// Matchers that are not ours — including ones this package cannot even
// decode — are kept with their original bytes. A list emptied by the
// removal is deleted outright.
func (d *Document) RemoveOwned(event string, commandPaths []string) {
	matchers, ok := d.eventMatchers(event)
	if !ok || len(matchers) == 0 {
		return
	}

	kept := matchers[:0]
	for _, raw := range matchers {
		if !isOwned(raw, commandPaths) {
			kept = append(kept, raw)
		}
	}

	if len(kept) == 0 {
		delete(d.hooks, event)
		return
	}
	d.setEventMatchers(event, kept)
}

// Append adds a matcher to the end of the event's list. An event key
// holding something other than an array is left untouched, matching
// how RemoveOwned treats it: a value we cannot decode stays opaque.
func (d *Document) Append(event string, m Matcher) {
	matchers, ok := d.eventMatchers(event)
	if !ok {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	d.setEventMatchers(event, append(matchers, raw))
}

// eventMatchers decodes the event's matcher list, element bytes
// preserved. An absent key decodes as an empty list; a value that is
// not an array is opaque, reported as !ok so mutators leave it alone.
func (d *Document) eventMatchers(event string) ([]json.RawMessage, bool) {
	raw, ok := d.hooks[event]
	if !ok {
		return nil, true
	}
	var matchers []json.RawMessage
	if err := json.Unmarshal(raw, &matchers); err != nil {
		return nil, false
	}
	return matchers, true
}

func (d *Document) setEventMatchers(event string, matchers []json.RawMessage) {
	raw, err := json.Marshal(matchers)
	if err != nil {
		return
	}
	d.hooks[event] = raw
}

// isOwned is the single ownership predicate used by install, remove,
// and the installed check: a matcher is ours iff any of its command
// entries equals one of our script paths exactly. Matcher patterns and
// positions never participate.
func isOwned(raw json.RawMessage, commandPaths []string) bool {
	var m Matcher
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	for _, entry := range m.Hooks {
		for _, path := range commandPaths {
			if entry.Command == path {
				return true
			}
		}
	}
	return false
}
