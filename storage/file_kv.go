package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// fileData is the on-disk shape of one namespace file
type fileData struct {
	Entries  map[string]json.RawMessage `json:"entries"`
	Metadata metadata                   `json:"metadata"`
}

// metadata describes the namespace file itself, not any document
type metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	fileDataVersion = "1.0"

	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// FileKV is a KV namespace persisted as a single JSON file. Every read
// reloads from disk and every write is load-modify-save under a
// cross-process file lock, so two sessions sharing a data directory
// observe each other's writes (though not atomically across
// read-compute-write sequences; see the service's numbering notes).
// Writes are atomic: data goes to a temp file which is renamed over the
// real one.
type FileKV struct {
	filePath    string
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock
	locks       *LockManager
	timeFunc    func() time.Time
}

// NewFileKV opens (or lazily creates) the namespace file at path. The
// parent directory is created if missing. A missing or empty file reads
// as an empty namespace; the file appears on the first write.
func NewFileKV(path string, opts ...FileKVOption) (*FileKV, error) {
	s := &FileKV{
		filePath: path,
		locks:    NewLockManager(),
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = OSFileSystem{}
	}
	if s.lockFactory == nil {
		s.lockFactory = FlockFactory{}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	s.fileLock = s.lockFactory.New(path + ".lock")

	// Fail fast on unreadable or corrupt files rather than at first use
	if err := s.locks.Execute(ReadOperation, func() error {
		_, err := s.loadWithLock()
		return err
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value stored under key
func (s *FileKV) Get(key string) ([]byte, bool, error) {
	var value []byte
	var ok bool
	err := s.locks.Execute(ReadOperation, func() error {
		data, err := s.loadWithLock()
		if err != nil {
			return err
		}
		raw, exists := data.Entries[key]
		if exists {
			value = append([]byte(nil), raw...)
			ok = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, ok, nil
}

// Set writes value under key, replacing any existing value
func (s *FileKV) Set(key string, value []byte) error {
	return s.locks.Execute(WriteOperation, func() error {
		return s.mutateWithLock(func(data *fileData) {
			data.Entries[key] = append(json.RawMessage(nil), value...)
		})
	})
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *FileKV) Delete(key string) error {
	return s.locks.Execute(WriteOperation, func() error {
		return s.mutateWithLock(func(data *fileData) {
			delete(data.Entries, key)
		})
	})
}

// Keys returns every key in the namespace, sorted
func (s *FileKV) Keys() ([]string, error) {
	var keys []string
	err := s.locks.Execute(ReadOperation, func() error {
		data, err := s.loadWithLock()
		if err != nil {
			return err
		}
		keys = make([]string, 0, len(data.Entries))
		for k := range data.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Close removes the lock file. The namespace file itself stays.
func (s *FileKV) Close() error {
	_ = s.fs.Remove(s.filePath + ".lock")
	return nil
}

// acquireLock takes the cross-process file lock with retries
func (s *FileKV) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

// loadWithLock reads the namespace file under the file lock
func (s *FileKV) loadWithLock() (*fileData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	if err := s.acquireLock(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = s.fileLock.Unlock() }()
	return s.load()
}

// mutateWithLock applies fn to the loaded data and saves the result,
// holding the file lock across the whole load-modify-save.
func (s *FileKV) mutateWithLock(fn func(*fileData)) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()

	data, err := s.load()
	if err != nil {
		return err
	}
	fn(data)
	data.Metadata.UpdatedAt = s.timeFunc()
	return s.save(data)
}

// load reads and parses the file; the caller holds the file lock
func (s *FileKV) load() (*fileData, error) {
	empty := func() *fileData {
		now := s.timeFunc()
		return &fileData{
			Entries: make(map[string]json.RawMessage),
			Metadata: metadata{
				Version:   fileDataVersion,
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
	}

	if _, err := s.fs.Stat(s.filePath); errors.Is(err, os.ErrNotExist) {
		return empty(), nil
	}
	raw, err := s.fs.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(raw) == 0 {
		return empty(), nil
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if data.Entries == nil {
		data.Entries = make(map[string]json.RawMessage)
	}
	return &data, nil
}

// save writes the file atomically; the caller holds the file lock
func (s *FileKV) save(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	tmpFile := s.filePath + ".tmp"
	if err := s.fs.WriteFile(tmpFile, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := s.fs.Rename(tmpFile, s.filePath); err != nil {
		_ = s.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
