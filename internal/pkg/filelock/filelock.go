// Package filelock serialises load-modify-write cycles on a file across
// processes with an advisory lock on a sibling ".lock" file.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when the lock could not be acquired in time.
var ErrLocked = errors.New("filelock: lock is held by another process")

const retryDelay = 25 * time.Millisecond

// Locker hands out shared and exclusive locks for one target file.
type Locker struct {
	path    string
	timeout time.Duration
}

// New returns a Locker guarding target. A non-positive timeout waits until
// ctx is done.
func New(target string, timeout time.Duration) *Locker {
	return &Locker{path: target + ".lock", timeout: timeout}
}

// Path returns the lock file location.
func (l *Locker) Path() string {
	return l.path
}

// Lock acquires an exclusive lock. The returned function releases it.
func (l *Locker) Lock(ctx context.Context) (func() error, error) {
	return l.acquire(ctx, false)
}

// RLock acquires a shared lock. The returned function releases it.
//
// RLock never creates directories. When the target's directory does not
// exist, or the lock file cannot be created there, it succeeds without locking.
func (l *Locker) RLock(ctx context.Context) (func() error, error) {
	if _, err := os.Stat(filepath.Dir(l.path)); errors.Is(err, fs.ErrNotExist) {
		return noUnlock, nil
	}

	unlock, err := l.acquire(ctx, true)
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS) {
		return noUnlock, nil
	}

	return unlock, err
}

func noUnlock() error { return nil }

func (l *Locker) acquire(ctx context.Context, shared bool) (func() error, error) {
	if !shared {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
			return nil, fmt.Errorf("filelock: create directory: %w", err)
		}
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	fl := flock.New(l.path)
	try := fl.TryLockContext
	if shared {
		try = fl.TryRLockContext
	}

	ok, err := try(ctx, retryDelay)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("filelock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, l.path)
	}

	return fl.Unlock, nil
}
