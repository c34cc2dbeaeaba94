package config

// Sanitize turns an arbitrary decoded JSON value into a fully-populated
// Config. Each field is accepted only when it has exactly the right
// type; anything else falls back to the default for that field. Input
// that is not a JSON object yields the defaults verbatim. Sanitize
// never fails.
//
// This is the single funnel between untrusted input (disk, panel) and
// the script generator / settings mutator: nothing downstream has to
// re-check types or ranges beyond clamping.
func Sanitize(raw any) Config {
	def := Default()

	obj, ok := raw.(map[string]any)
	if !ok {
		return def
	}

	cfg := Config{
		Enabled:       boolOr(obj["enabled"], def.Enabled),
		Volume:        numberOr(obj["volume"], def.Volume),
		Cooldown:      numberOr(obj["cooldown"], def.Cooldown),
		Notifications: make(map[Kind]Setting, len(Kinds)),
	}

	notifs, _ := obj["notifications"].(map[string]any)
	for _, kind := range Kinds {
		cfg.Notifications[kind] = sanitizeSetting(notifs[string(kind)], def.Notifications[kind])
	}
	return cfg
}

// Normalize repairs an already-typed Config in place of full
// sanitization: missing notification kinds are filled from defaults
// and invalid modes reset. Used on configs arriving through typed APIs
// rather than raw JSON. Normalizing a sanitized config changes
// nothing.
func Normalize(cfg Config) Config {
	def := Default()
	out := cfg
	out.Notifications = make(map[Kind]Setting, len(Kinds))
	for _, kind := range Kinds {
		s, ok := cfg.Notifications[kind]
		if !ok {
			s = def.Notifications[kind]
		}
		if s.Mode != ModeTalk && s.Mode != ModeSound {
			s.Mode = def.Notifications[kind].Mode
		}
		out.Notifications[kind] = s
	}
	return out
}

// sanitizeSetting repairs one per-kind block against its defaults.
func sanitizeSetting(raw any, def Setting) Setting {
	obj, ok := raw.(map[string]any)
	if !ok {
		return def
	}
	return Setting{
		Enabled: boolOr(obj["enabled"], def.Enabled),
		Mode:    modeOr(obj["mode"], def.Mode),
		Voice:   stringOr(obj["voice"], def.Voice),
		Text:    stringOr(obj["text"], def.Text),
		Sound:   stringOr(obj["sound"], def.Sound),
	}
}

func boolOr(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// numberOr accepts any JSON number. Range clamping happens at script
// generation time, not here.
func numberOr(v any, def float64) float64 {
	if n, ok := v.(float64); ok {
		return n
	}
	return def
}

// stringOr accepts any string, including the empty string.
func stringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func modeOr(v any, def string) string {
	if s, ok := v.(string); ok && (s == ModeTalk || s == ModeSound) {
		return s
	}
	return def
}
