package storage

import (
	"context"
	"sync"
	"time"
)

// MockFileLock is an in-process stand-in for a cross-process file lock.
// LockError forces acquisition failures; FailToLock makes TryLockContext
// report the lock as held elsewhere.
type MockFileLock struct {
	mu         sync.Mutex
	LockError  error
	FailToLock bool
}

func (m *MockFileLock) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	if m.LockError != nil {
		return false, m.LockError
	}
	if m.FailToLock {
		return false, nil
	}
	m.mu.Lock()
	return true, nil
}

func (m *MockFileLock) Unlock() error {
	m.mu.Unlock()
	return nil
}

// MockFileLockFactory hands out MockFileLocks and remembers them by path
// so tests can tweak their behavior after construction.
type MockFileLockFactory struct {
	mu    sync.Mutex
	Locks map[string]*MockFileLock

	// Applied to locks created after these are set
	LockError  error
	FailToLock bool
}

func NewMockFileLockFactory() *MockFileLockFactory {
	return &MockFileLockFactory{Locks: make(map[string]*MockFileLock)}
}

func (f *MockFileLockFactory) New(path string) FileLock {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock := &MockFileLock{LockError: f.LockError, FailToLock: f.FailToLock}
	f.Locks[path] = lock
	return lock
}
