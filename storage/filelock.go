package storage

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock guards a namespace file against concurrent access from other
// processes. The in-process RWMutex in LockManager does not help when a
// second billfold session has the same data directory open.
type FileLock interface {
	// TryLockContext attempts to acquire an exclusive lock, retrying at
	// the given interval until the context is done
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)

	// Unlock releases the lock
	Unlock() error
}

// FileLockFactory creates FileLock instances for lock file paths
type FileLockFactory interface {
	New(path string) FileLock
}

// flockWrapper adapts github.com/gofrs/flock to the FileLock interface
type flockWrapper struct {
	flock *flock.Flock
}

func (f *flockWrapper) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	return f.flock.TryLockContext(ctx, retryInterval)
}

func (f *flockWrapper) Unlock() error {
	return f.flock.Unlock()
}

// FlockFactory is the default factory, producing flock-based locks
type FlockFactory struct{}

func (FlockFactory) New(path string) FileLock {
	return &flockWrapper{flock: flock.New(path)}
}
