package storage

import "sync"

// OperationType distinguishes read operations, which may proceed
// concurrently, from exclusive write operations.
type OperationType int

const (
	ReadOperation OperationType = iota
	WriteOperation
)

// LockManager centralizes in-process locking for a namespace. Keeping
// the lock/unlock pairing in one place avoids the relock bugs that come
// from spreading mutex calls across every method.
type LockManager struct {
	mu sync.RWMutex
}

func NewLockManager() *LockManager {
	return &LockManager{}
}

// Execute runs fn while holding the appropriate lock for opType. The
// lock is released when fn returns, panic included.
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}
