package installer

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Lock protocol constants. The lockfile is advisory and shared with
// any other process that edits the settings file, so the protocol is
// plain exclusive-create plus mtime staleness rather than flock: a
// crashed holder leaves a file behind, and its age is the only signal
// a stranger can read.
const (
	// DefaultLockTimeout bounds the total wait for the settings lock.
	DefaultLockTimeout = 5 * time.Second

	lockPollInterval = 100 * time.Millisecond
	lockStaleAfter   = 30 * time.Second
)

// ErrLockTimeout reports that the settings lock could not be acquired
// within the bounded wait.
var ErrLockTimeout = errors.New("timed out waiting for settings lock")

// settingsLock holds the acquired lockfile. Release is always safe to
// defer, including on a zero value.
type settingsLock struct {
	path string
}

// acquireLock takes the settings lock by exclusive-create of the
// lockfile. On contention it polls; a lockfile older than the
// staleness threshold is presumed abandoned by a crashed holder and is
// force-removed. After timeout the caller gets ErrLockTimeout with a
// hint at who might be holding the file.
func acquireLock(path string, timeout time.Duration) (*settingsLock, error) {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	owner := fmt.Sprintf("%d %s\n", os.Getpid(), uuid.NewString())
	deadline := time.Now().Add(timeout)

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, werr := f.WriteString(owner)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("writing lock file: %w", errors.Join(werr, cerr))
			}
			return &settingsLock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lock file: %w", err)
		}

		info, statErr := os.Stat(path)
		if statErr != nil {
			// Holder released between create and stat; try again.
			continue
		}
		if time.Since(info.ModTime()) > lockStaleAfter {
			// Abandoned lock. Removal races with other waiters are
			// fine: whoever wins the next exclusive-create owns it.
			os.Remove(path)
			continue
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w after %s: another process may be editing the Claude settings file (lock: %s)",
				ErrLockTimeout, timeout, path)
		}
		time.Sleep(lockPollInterval)
	}
}

// Release removes the lockfile. Best-effort: a failed removal only
// delays other waiters until the staleness threshold clears it.
func (l *settingsLock) Release() {
	if l == nil || l.path == "" {
		return
	}
	os.Remove(l.path)
}
