package storage

import "time"

// FileKVOption modifies FileKV construction
type FileKVOption func(*FileKV)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) FileKVOption {
	return func(s *FileKV) {
		s.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) FileKVOption {
	return func(s *FileKV) {
		s.lockFactory = factory
	}
}

// WithTimeFunc sets the clock used for file metadata timestamps,
// letting tests produce deterministic output
func WithTimeFunc(fn func() time.Time) FileKVOption {
	return func(s *FileKV) {
		s.timeFunc = fn
	}
}
