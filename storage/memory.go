package storage

import "sort"

// MemoryKV is a map-backed KV for tests and fixtures. It implements the
// same contract as FileKV without touching the filesystem. The optional
// error fields force failures for exercising error paths.
type MemoryKV struct {
	locks   *LockManager
	entries map[string][]byte

	// When set, the corresponding operation fails with this error
	GetError    error
	SetError    error
	DeleteError error
	KeysError   error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		locks:   NewLockManager(),
		entries: make(map[string][]byte),
	}
}

func (s *MemoryKV) Get(key string) ([]byte, bool, error) {
	if s.GetError != nil {
		return nil, false, s.GetError
	}
	var value []byte
	var ok bool
	_ = s.locks.Execute(ReadOperation, func() error {
		raw, exists := s.entries[key]
		if exists {
			value = append([]byte(nil), raw...)
			ok = true
		}
		return nil
	})
	return value, ok, nil
}

func (s *MemoryKV) Set(key string, value []byte) error {
	if s.SetError != nil {
		return s.SetError
	}
	return s.locks.Execute(WriteOperation, func() error {
		s.entries[key] = append([]byte(nil), value...)
		return nil
	})
}

func (s *MemoryKV) Delete(key string) error {
	if s.DeleteError != nil {
		return s.DeleteError
	}
	return s.locks.Execute(WriteOperation, func() error {
		delete(s.entries, key)
		return nil
	})
}

func (s *MemoryKV) Keys() ([]string, error) {
	if s.KeysError != nil {
		return nil, s.KeysError
	}
	var keys []string
	_ = s.locks.Execute(ReadOperation, func() error {
		keys = make([]string, 0, len(s.entries))
		for k := range s.entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil
	})
	return keys, nil
}

func (s *MemoryKV) Close() error { return nil }

// Len reports the number of stored entries, for test assertions
func (s *MemoryKV) Len() int {
	n := 0
	_ = s.locks.Execute(ReadOperation, func() error {
		n = len(s.entries)
		return nil
	})
	return n
}
