// Package main is the entry point for the claude-notify CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/claudenotify/claude-notify-go/internal/audio"
	"github.com/claudenotify/claude-notify-go/internal/config"
	"github.com/claudenotify/claude-notify-go/internal/installer"
	"github.com/claudenotify/claude-notify-go/internal/logging"
	"github.com/claudenotify/claude-notify-go/internal/tui"
)

var version = "dev"

const usage = `Usage: claude-notify [flags] [command]

Commands:
  panel               Interactive settings panel (default on a terminal)
  install-hook        Generate hook scripts and register them with Claude Code
  remove-hook         Unregister the hooks and delete the scripts
  status              Show install state and config summary
  test-all-notifications  Play every enabled notification once
  voices              List available synthesis voices
  sounds              List available system sounds
  version             Print version
  help                Show this help

Flags:
      --config string         Config file (default ~/.claude/notify.json)
      --settings string       Claude settings file (default ~/.claude/settings.json)
      --hooks-dir string      Directory for generated scripts (default ~/.claude/claude-notify)
      --lock-timeout duration Wait for the settings lock (default 5s)
      --json                  Machine-readable output for status/voices/sounds
`

func main() {
	flags := pflag.NewFlagSet("claude-notify", pflag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := flags.String("config", "", "config file path")
	settingsPath := flags.String("settings", "", "Claude settings file path")
	hooksDir := flags.String("hooks-dir", "", "directory for generated scripts")
	lockTimeout := flags.Duration("lock-timeout", installer.DefaultLockTimeout, "wait for the settings lock")
	jsonOut := flags.Bool("json", false, "machine-readable output")
	versionFlag := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if *versionFlag {
		fmt.Printf("claude-notify %s\n", version)
		os.Exit(0)
	}

	cmd := ""
	if args := flags.Args(); len(args) > 0 {
		cmd = args[0]
	}
	if cmd == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			cmd = "panel"
		} else {
			cmd = "help"
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()

	run := logging.New()
	defer run.Close()
	log := run.Logger

	app, err := newApp(*configPath, *settingsPath, *hooksDir, *lockTimeout, run)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "panel":
		err = app.runPanel()
	case "install-hook":
		err = app.installHook()
	case "remove-hook":
		err = app.removeHook()
	case "status":
		err = app.status(*jsonOut)
	case "test-all-notifications":
		err = app.testNotifications(ctx)
	case "voices":
		err = app.voices(ctx, *jsonOut)
	case "sounds":
		err = app.sounds(*jsonOut)
	case "version":
		fmt.Printf("claude-notify %s\n", version)
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error("command failed", "command", cmd, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		notifyDesktop("claude-notify", err.Error())
		os.Exit(1)
	}
}

// app wires the services behind the subcommands.
type app struct {
	store *config.Store
	inst  *installer.Installer
	audio *audio.System
}

func newApp(configPath, settingsPath, hooksDir string, lockTimeout time.Duration, run logging.Runtime) (*app, error) {
	if configPath == "" {
		p, err := config.Path()
		if err != nil {
			return nil, fmt.Errorf("cannot determine config path: %w", err)
		}
		configPath = p
	}

	paths, err := installer.DefaultPaths()
	if err != nil {
		return nil, err
	}
	if settingsPath != "" {
		paths.Settings = settingsPath
	}
	if hooksDir != "" {
		paths.HooksDir = hooksDir
	}

	inst := installer.New(paths, run.Logger)
	inst.SetLockTimeout(lockTimeout)

	return &app{
		store: config.NewStore(configPath, run.Logger),
		inst:  inst,
		audio: audio.NewSystem(run.Logger),
	}, nil
}

func (a *app) runPanel() error {
	cfg, err := a.store.Load()
	if err != nil {
		return err
	}
	return tui.Run(cfg, tui.Deps{Store: a.store, Installer: a.inst, Audio: a.audio})
}

func (a *app) installHook() error {
	cfg, err := a.store.Load()
	if err != nil {
		return err
	}
	if err := a.inst.Install(cfg); err != nil {
		return err
	}
	fmt.Println("Hooks installed.")
	notifyDesktop("claude-notify", "Notification hooks installed")
	return nil
}

func (a *app) removeHook() error {
	if err := a.inst.Remove(); err != nil {
		return err
	}
	fmt.Println("Hooks removed.")
	notifyDesktop("claude-notify", "Notification hooks removed")
	return nil
}

func (a *app) status(jsonOut bool) error {
	cfg, err := a.store.Load()
	if err != nil {
		return err
	}
	installed := a.inst.IsInstalled()

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"installed": installed,
			"config":    cfg,
			"script":    a.inst.NotifyScript(),
		})
	}

	state := "not installed"
	if installed {
		state = "installed"
	}
	fmt.Printf("Hooks: %s\n", state)
	fmt.Printf("Config: %s\n", a.store.Path())
	fmt.Printf("Scripts: %s\n", a.inst.NotifyScript())
	fmt.Printf("Enabled: %v, volume %.0f, cooldown %.0fs\n", cfg.Enabled, cfg.Volume, cfg.Cooldown)
	for _, kind := range config.Kinds {
		s := cfg.Notifications[kind]
		detail := s.Voice
		if s.Mode == config.ModeSound {
			detail = s.Sound
		}
		fmt.Printf("  %-20s enabled=%-5v mode=%-5s %s\n", kind, s.Enabled, s.Mode, detail)
	}
	return nil
}

// testNotifications plays each enabled kind once, in order. The first
// failure aborts: if one preview cannot play, the rest will not either.
func (a *app) testNotifications(ctx context.Context) error {
	cfg, err := a.store.Load()
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		fmt.Println("Notifications are disabled; testing anyway.")
	}
	played := 0
	for _, kind := range config.Kinds {
		s := cfg.Notifications[kind]
		if !s.Enabled {
			continue
		}
		fmt.Printf("Playing %s...\n", kind)
		if err := a.audio.Preview(ctx, s, cfg.Volume); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		played++
	}
	if played == 0 {
		fmt.Println("No notification kinds are enabled.")
		return nil
	}
	notifyDesktop("claude-notify", fmt.Sprintf("Played %d test notification(s)", played))
	return nil
}

func (a *app) voices(ctx context.Context, jsonOut bool) error {
	voices := a.audio.Voices(ctx)
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(voices)
	}
	for _, v := range voices {
		fmt.Printf("%-24s %s\n", v.Name, v.Locale)
	}
	return nil
}

func (a *app) sounds(jsonOut bool) error {
	sounds := a.audio.Sounds()
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(sounds)
	}
	for _, s := range sounds {
		fmt.Println(s)
	}
	return nil
}

// notifyDesktop surfaces an outcome as a desktop notification.
// Best-effort: the terminal output already carries the result.
func notifyDesktop(title, message string) {
	_ = beeep.Notify(title, message, "")
}
