// Package editor holds the in-memory editing workflow: a Session wraps
// one document, applies field and line item mutations, keeps derived
// totals fresh, and autosaves through the persistence service on a
// debounce timer so only the latest state is ever persisted.
package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/billfold/billfold/service"
	"github.com/billfold/billfold/types"
)

// DefaultDebounce is the autosave delay after the last edit
const DefaultDebounce = 700 * time.Millisecond

// ErrInvalidInput reports a malformed field value rejected before it
// reaches the persistence service (negative cost, empty number, ...).
var ErrInvalidInput = errors.New("invalid input")

// Status is the save indicator the UI shows next to the document
type Status int

const (
	StatusIdle Status = iota
	StatusSaving
	StatusSaved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Session edits a single document. Mutations take effect in memory
// immediately and arm a debounce timer; when it fires, a snapshot of the
// current state is saved. A mutation while a timer is pending cancels
// and re-arms it, so intermediate states are never persisted. Saves for
// one session are serialized; a failed autosave flips the status to
// StatusError without blocking further edits.
type Session struct {
	svc *service.Service

	mu    sync.Mutex // guards doc, timer, status
	doc   *types.Document
	timer *time.Timer

	saveMu sync.Mutex // serializes saves

	debounce time.Duration
	onStatus func(Status)
	status   Status
	lastErr  error
}

// SessionOption modifies Session construction
type SessionOption func(*Session)

// WithDebounce sets the autosave delay. Zero disables autosave entirely;
// the caller then saves via Flush.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithStatusFunc registers a callback for save status transitions. The
// callback runs outside the session's document lock but must not call
// back into the session's mutators.
func WithStatusFunc(fn func(Status)) SessionOption {
	return func(s *Session) {
		s.onStatus = fn
	}
}

// NewSession starts editing the given in-memory document
func NewSession(svc *service.Service, doc *types.Document, opts ...SessionOption) *Session {
	s := &Session{
		svc:      svc,
		doc:      doc,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc.Normalize()
	return s
}

// NewDocument creates a fresh document of the given type with the next
// allocated number and opens a session on it. The document is not
// persisted until the first save fires.
func NewDocument(svc *service.Service, t types.DocType, opts ...SessionOption) (*Session, error) {
	number, err := svc.NextNumber(t)
	if err != nil {
		return nil, err
	}
	doc := types.New(t, number, time.Now())
	return NewSession(svc, doc, opts...), nil
}

// Load opens a session on a stored document
func Load(svc *service.Service, id string, opts ...SessionOption) (*Session, error) {
	doc, err := svc.Get(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("load %s: %w", id, service.ErrNotFound)
	}
	return NewSession(svc, doc, opts...), nil
}

// Document returns a snapshot of the current document state
func (s *Session) Document() *types.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Status returns the current save indicator and the last save error
func (s *Session) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastErr
}

// Flush cancels any pending autosave and saves the current state now
func (s *Session) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	snapshot := s.doc.Clone()
	s.mu.Unlock()
	return s.save(snapshot)
}

// Close flushes and ends the session
func (s *Session) Close() error {
	return s.Flush()
}

// mutate applies fn under the document lock, rederives totals and arms
// the autosave timer. Mutators return ErrInvalidInput without touching
// the document when validation fails inside fn.
func (s *Session) mutate(fn func(doc *types.Document) error) error {
	s.mu.Lock()
	if err := fn(s.doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc.RecomputeTotals()
	changed := s.setStatusLocked(StatusSaving)
	if s.debounce > 0 {
		if s.timer != nil {
			s.timer.Stop()
		}
		s.timer = time.AfterFunc(s.debounce, s.autosave)
	}
	s.mu.Unlock()
	s.notify(changed, StatusSaving)
	return nil
}

// autosave runs on the debounce timer's goroutine
func (s *Session) autosave() {
	s.mu.Lock()
	s.timer = nil
	snapshot := s.doc.Clone()
	s.mu.Unlock()
	_ = s.save(snapshot)
}

// save persists a snapshot. Saves are serialized per session so a slow
// write can never land after a newer one.
func (s *Session) save(snapshot *types.Document) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	err := s.svc.Save(snapshot)

	status := StatusSaved
	if err != nil {
		status = StatusError
	}
	s.mu.Lock()
	if err != nil {
		s.lastErr = err
	} else {
		s.lastErr = nil
		s.doc.UpdatedAt = snapshot.UpdatedAt
	}
	changed := s.setStatusLocked(status)
	s.mu.Unlock()
	s.notify(changed, status)
	return err
}

// setStatusLocked records a transition; the caller holds s.mu and must
// deliver the notification after releasing it
func (s *Session) setStatusLocked(status Status) bool {
	if s.status == status {
		return false
	}
	s.status = status
	return true
}

// notify delivers a status transition outside the document lock, so the
// callback may query the session (but not mutate it)
func (s *Session) notify(changed bool, status Status) {
	if changed && s.onStatus != nil {
		s.onStatus(status)
	}
}
