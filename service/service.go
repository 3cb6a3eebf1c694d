// Package service coordinates the per-type document stores and the
// listing index. It is the only layer that enforces the business
// invariants: at most one stored document per (type, number), and an
// index that agrees with the stores after every mutating operation.
package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/storage"
	"github.com/billfold/billfold/types"
)

// indexKey is the single slot in the index namespace holding the
// denormalized summary array.
const indexKey = "doc-index"

// Service is the persistence context for one data directory (or one set
// of injected namespaces). Construct one per process and pass it to the
// editor and library workflows; there is deliberately no package-level
// singleton, so tests can substitute in-memory namespaces.
type Service struct {
	stores   map[types.DocType]storage.KV
	index    storage.KV
	timeFunc func() time.Time
	logger   *slog.Logger
}

// Option modifies Service construction
type Option func(*Service)

// WithTimeFunc sets the clock used for UpdatedAt stamps and numbering
// years. Tests use it for deterministic output.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *Service) {
		s.timeFunc = fn
	}
}

// WithLogger sets the logger for evictions, fallbacks and removals
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New builds a Service over explicit namespaces: one KV per document
// type plus the index namespace.
func New(stores map[types.DocType]storage.KV, index storage.KV, opts ...Option) *Service {
	s := &Service{
		stores:   stores,
		index:    index,
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Open builds a Service over file-backed namespaces in dir: one JSON
// file per document type plus index.json.
func Open(dir string, opts ...Option) (*Service, error) {
	stores := make(map[types.DocType]storage.KV, len(types.AllDocTypes()))
	for _, t := range types.AllDocTypes() {
		kv, err := storage.NewFileKV(filepath.Join(dir, string(t)+".json"))
		if err != nil {
			return nil, storageErr("open "+string(t)+" store", err)
		}
		stores[t] = kv
	}
	index, err := storage.NewFileKV(filepath.Join(dir, "index.json"))
	if err != nil {
		return nil, storageErr("open index store", err)
	}
	return New(stores, index, opts...), nil
}

// Close releases every namespace
func (s *Service) Close() error {
	var firstErr error
	for _, kv := range s.stores {
		if err := kv.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.index.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Save persists doc and reconciles the index. Any stored document with
// the same (type, number) but a different id (left over from a numbering
// race or a manual number edit) is evicted from its store and the index
// first. UpdatedAt is refreshed; totals are rederived so a caller can
// never persist a hand-authored total.
func (s *Service) Save(doc *types.Document) error {
	if !doc.Type.Valid() {
		return fmt.Errorf("invalid document type %q", doc.Type)
	}
	store, ok := s.stores[doc.Type]
	if !ok {
		return fmt.Errorf("no store for document type %q", doc.Type)
	}

	doc.Normalize()
	doc.UpdatedAt = s.timeFunc()

	index, err := s.loadIndex()
	if err != nil {
		return err
	}

	// Evict stale duplicates: same type and number, different id
	kept := index[:0]
	for _, entry := range index {
		if entry.Type == doc.Type && entry.Number == doc.Number && entry.ID != doc.ID {
			s.logger.Warn("evicting duplicate document",
				"type", entry.Type, "number", entry.Number, "id", entry.ID, "kept_id", doc.ID)
			if dupStore, ok := s.stores[entry.Type]; ok {
				if err := dupStore.Delete(entry.ID); err != nil {
					return storageErr("evict duplicate", err)
				}
			}
			continue
		}
		kept = append(kept, entry)
	}
	index = kept

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := store.Set(doc.ID, raw); err != nil {
		return storageErr("write document", err)
	}

	// Upsert the summary: drop any same-id entry, append the fresh one
	kept = index[:0]
	for _, entry := range index {
		if entry.ID != doc.ID {
			kept = append(kept, entry)
		}
	}
	index = append(kept, doc.Summary())

	return s.saveIndex(index)
}

// Get loads the full document for id, probing each type's store in
// order. A missing id returns (nil, nil); absence is not an error here
// because callers routinely probe before creating.
func (s *Service) Get(id string) (*types.Document, error) {
	for _, t := range types.AllDocTypes() {
		raw, ok, err := s.stores[t].Get(id)
		if err != nil {
			return nil, storageErr("read document", err)
		}
		if !ok {
			continue
		}
		var doc types.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		doc.Normalize()
		return &doc, nil
	}
	return nil, nil
}

// List returns document summaries, newest first. An empty docType means
// every type; a non-empty query keeps only documents matching it
// case-insensitively (number, bill-to, for-what, tags). Entries sharing
// a (type, number) are collapsed to the most recently updated one, which
// tolerates index drift from a crash between the steps of Save.
func (s *Service) List(docType types.DocType, query string) ([]types.Document, error) {
	index, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	unique := make(map[string]types.Document)
	for _, entry := range index {
		if docType != "" && entry.Type != docType {
			continue
		}
		key := string(entry.Type) + "\x00" + entry.Number
		if prev, ok := unique[key]; ok && !entry.UpdatedAt.After(prev.UpdatedAt) {
			continue
		}
		unique[key] = entry
	}

	out := make([]types.Document, 0, len(unique))
	for _, entry := range unique {
		if entry.MatchesQuery(query) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].Number > out[j].Number
	})
	return out, nil
}

// Remove deletes id from every per-type store (a no-op where absent) and
// drops its index entry. Removing an unknown id succeeds silently.
func (s *Service) Remove(id string) error {
	for _, t := range types.AllDocTypes() {
		if err := s.stores[t].Delete(id); err != nil {
			return storageErr("delete document", err)
		}
	}
	index, err := s.loadIndex()
	if err != nil {
		return err
	}
	kept := index[:0]
	for _, entry := range index {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	s.logger.Debug("removed document", "id", id)
	return s.saveIndex(kept)
}

// Duplicate copies the document for id under a fresh id and a freshly
// allocated number, persists the copy and returns it. The copy's
// lifecycle is fully independent of the original's.
func (s *Service) Duplicate(id string) (*types.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("duplicate %s: %w", id, ErrNotFound)
	}
	number, err := s.NextNumber(doc.Type)
	if err != nil {
		return nil, err
	}
	dup := doc.Clone()
	dup.ID = uuid.New().String()
	dup.Number = number
	if err := s.Save(dup); err != nil {
		return nil, err
	}
	return dup, nil
}

func (s *Service) loadIndex() ([]types.Document, error) {
	raw, ok, err := s.index.Get(indexKey)
	if err != nil {
		return nil, storageErr("load index", err)
	}
	if !ok {
		return nil, nil
	}
	var index []types.Document
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return index, nil
}

func (s *Service) saveIndex(index []types.Document) error {
	raw, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := s.index.Set(indexKey, raw); err != nil {
		return storageErr("write index", err)
	}
	return nil
}
