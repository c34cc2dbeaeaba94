// Package installer writes the notification hook scripts and registers
// them in the shared Claude settings file.
//
// The settings file is the one resource contended between processes
// (two editor windows, or this tool and a manual edit), so every
// mutation of it runs inside a lockfile-protected read-modify-write.
// Script files are written outside the lock; they have a single writer
// by convention.
package installer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claudenotify/claude-notify-go/internal/claudesettings"
	"github.com/claudenotify/claude-notify-go/internal/config"
	"github.com/claudenotify/claude-notify-go/internal/scripts"
)

// Script file names inside the hooks directory.
const (
	notifyScriptName     = "claude-notify.sh"
	stopScriptName       = "claude-notify-stop.sh"
	permissionScriptName = "claude-notify-permission.sh"
)

// notificationMatcher scopes the Notification hook to the kinds the
// CLI actually raises on that channel; response_complete arrives via
// the Stop hook instead.
const notificationMatcher = "permission_prompt|idle_prompt|elicitation_dialog"

// Paths locates the two filesystem roots the installer touches.
type Paths struct {
	HooksDir string // directory holding the generated scripts
	Settings string // the shared Claude settings file
}

// DefaultPaths returns the standard layout under ~/.claude.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	return Paths{
		HooksDir: filepath.Join(home, ".claude", "claude-notify"),
		Settings: filepath.Join(home, ".claude", "settings.json"),
	}, nil
}

// Installer manages hook installation for one Paths layout.
type Installer struct {
	paths       Paths
	lockTimeout time.Duration
	log         *slog.Logger
}

// New creates an Installer. A nil logger falls back to slog.Default().
func New(paths Paths, log *slog.Logger) *Installer {
	if log == nil {
		log = slog.Default()
	}
	return &Installer{paths: paths, lockTimeout: DefaultLockTimeout, log: log}
}

// SetLockTimeout overrides the bounded wait for the settings lock.
func (in *Installer) SetLockTimeout(d time.Duration) {
	in.lockTimeout = d
}

// NotifyScript returns the main hook script path.
func (in *Installer) NotifyScript() string {
	return filepath.Join(in.paths.HooksDir, notifyScriptName)
}

// StopScript returns the Stop hook script path.
func (in *Installer) StopScript() string {
	return filepath.Join(in.paths.HooksDir, stopScriptName)
}

// PermissionScript returns the PermissionRequest hook script path.
func (in *Installer) PermissionScript() string {
	return filepath.Join(in.paths.HooksDir, permissionScriptName)
}

// BackupPath is where a foreign file found at the main script path is
// copied before being overwritten.
func (in *Installer) BackupPath() string {
	return in.NotifyScript() + ".backup"
}

func (in *Installer) lockPath() string {
	return in.paths.Settings + ".lock"
}

// scriptPaths lists every script path this tool has ever registered;
// ownership checks match against all of them.
func (in *Installer) scriptPaths() []string {
	return []string{in.NotifyScript(), in.StopScript(), in.PermissionScript()}
}

// IsInstalled reports whether the main script exists on disk and the
// settings file registers it under the Notification hook. Any error on
// the way — unreadable settings, corrupt JSON — reads as "not
// installed"; this is a status probe, not a health check.
func (in *Installer) IsInstalled() bool {
	if _, err := os.Stat(in.NotifyScript()); err != nil {
		return false
	}
	doc, err := claudesettings.Load(in.paths.Settings)
	if err != nil {
		return false
	}
	return doc.HasOwned(claudesettings.EventNotification, []string{in.NotifyScript()})
}

// Install writes the three scripts and registers them in the settings
// file. Idempotent: a prior installation's matchers are stripped
// before the fresh ones are appended, so repeat installs never
// accumulate duplicates. Matchers owned by other tools are untouched.
func (in *Installer) Install(cfg config.Config) error {
	cfg = config.Normalize(cfg)

	if err := os.MkdirAll(in.paths.HooksDir, 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := in.backupForeignScript(); err != nil {
		return err
	}
	if err := in.writeScripts(cfg); err != nil {
		return err
	}

	lock, err := acquireLock(in.lockPath(), in.lockTimeout)
	if err != nil {
		return err
	}
	defer lock.Release()

	doc, err := claudesettings.Load(in.paths.Settings)
	if err != nil {
		return err
	}

	owned := in.scriptPaths()
	doc.RemoveOwned(claudesettings.EventNotification, owned)
	doc.RemoveOwned(claudesettings.EventStop, owned)
	doc.RemoveOwned(claudesettings.EventPermissionRequest, owned)

	doc.Append(claudesettings.EventNotification,
		claudesettings.CommandMatcher(notificationMatcher, in.NotifyScript()))
	doc.Append(claudesettings.EventStop,
		claudesettings.CommandMatcher("*", in.StopScript()))
	doc.Append(claudesettings.EventPermissionRequest,
		claudesettings.CommandMatcher("*", in.PermissionScript()))

	if err := doc.Save(in.paths.Settings); err != nil {
		return err
	}

	in.log.Info("hooks installed", "hooksDir", in.paths.HooksDir, "settings", in.paths.Settings)
	return nil
}

// Remove strips this tool's matchers from the settings file and then
// deletes the script files. Script deletion is best-effort and happens
// outside the lock; a missing script is not an error.
func (in *Installer) Remove() error {
	lock, err := acquireLock(in.lockPath(), in.lockTimeout)
	if err != nil {
		return err
	}

	err = func() error {
		defer lock.Release()

		doc, err := claudesettings.Load(in.paths.Settings)
		if err != nil {
			return err
		}
		owned := in.scriptPaths()
		doc.RemoveOwned(claudesettings.EventNotification, owned)
		doc.RemoveOwned(claudesettings.EventStop, owned)
		doc.RemoveOwned(claudesettings.EventPermissionRequest, owned)
		return doc.Save(in.paths.Settings)
	}()
	if err != nil {
		return err
	}

	for _, path := range in.scriptPaths() {
		os.Remove(path)
	}

	in.log.Info("hooks removed", "settings", in.paths.Settings)
	return nil
}

// RegenerateScripts re-renders the script files from cfg without
// touching the settings file. Called after every config save while
// installed, so live scripts always match the saved config.
func (in *Installer) RegenerateScripts(cfg config.Config) error {
	cfg = config.Normalize(cfg)
	if err := os.MkdirAll(in.paths.HooksDir, 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	return in.writeScripts(cfg)
}

func (in *Installer) writeScripts(cfg config.Config) error {
	files := []struct {
		path string
		text string
	}{
		{in.NotifyScript(), scripts.Notify(cfg)},
		{in.StopScript(), scripts.Stop(cfg)},
		{in.PermissionScript(), scripts.Permission(cfg)},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.text), 0o755); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(f.path), err)
		}
	}
	return nil
}

// backupForeignScript copies an existing main script to the backup
// path when it lacks the generated-by signature: a hand-authored hook
// script should survive being displaced. Our own scripts are simply
// overwritten.
func (in *Installer) backupForeignScript() error {
	data, err := os.ReadFile(in.NotifyScript())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("inspecting existing script: %w", err)
	}
	if strings.Contains(string(data), scripts.Signature) {
		return nil
	}
	if err := os.WriteFile(in.BackupPath(), data, 0o755); err != nil {
		return fmt.Errorf("backing up existing script: %w", err)
	}
	in.log.Warn("existing hook script was not generated by claude-notify, backed up",
		"script", in.NotifyScript(), "backup", in.BackupPath())
	return nil
}
