package service_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/service"
	"github.com/billfold/billfold/storage"
	"github.com/billfold/billfold/testutil"
	"github.com/billfold/billfold/types"
)

// newMemoryService builds a service over in-memory namespaces with a
// clock that advances one second per call, starting 2025-03-10.
func newMemoryService(t *testing.T) (*service.Service, map[types.DocType]*storage.MemoryKV, *storage.MemoryKV) {
	t.Helper()
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	tick := 0
	stores := map[types.DocType]*storage.MemoryKV{
		types.Invoice:  storage.NewMemoryKV(),
		types.Proposal: storage.NewMemoryKV(),
	}
	index := storage.NewMemoryKV()
	svc := service.New(
		map[types.DocType]storage.KV{
			types.Invoice:  stores[types.Invoice],
			types.Proposal: stores[types.Proposal],
		},
		index,
		service.WithTimeFunc(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
	)
	return svc, stores, index
}

func TestSaveRoundTrip(t *testing.T) {
	svc, _, _ := newMemoryService(t)

	doc := types.New(types.Invoice, "I25001", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	doc.BillTo = "Acme Co"
	doc.Tables[0].Items = []types.LineItem{{ID: "a", Description: "Labor", Cost: 100}}

	before := doc.UpdatedAt
	require.NoError(t, svc.Save(doc))
	assert.True(t, doc.UpdatedAt.After(before), "save must refresh UpdatedAt")

	got, err := svc.Get(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Number, got.Number)
	assert.Equal(t, doc.BillTo, got.BillTo)
	assert.Equal(t, doc.Tables, got.Tables)
	assert.Equal(t, 100.0, got.Total)
	assert.True(t, got.UpdatedAt.Equal(doc.UpdatedAt))
}

func TestSaveDerivesTotals(t *testing.T) {
	svc, _, _ := newMemoryService(t)

	doc := types.New(types.Invoice, "I25001", time.Now().UTC())
	doc.Tables[0].Items = []types.LineItem{
		{ID: "a", Description: "Labor", Cost: 100},
	}
	doc.Total = 9999 // hand-authored totals never survive a save
	require.NoError(t, svc.Save(doc))
	assert.Equal(t, 100.0, doc.Total)

	// A second item with a cost but no description stays out of the total
	doc.Tables[0].Items = append(doc.Tables[0].Items, types.LineItem{ID: "b", Cost: 50})
	require.NoError(t, svc.Save(doc))
	assert.Equal(t, 100.0, doc.Total)
}

func TestSaveEvictsDuplicateNumbers(t *testing.T) {
	svc, stores, _ := newMemoryService(t)

	older := types.New(types.Invoice, "I25001", time.Now().UTC())
	require.NoError(t, svc.Save(older))

	newer := types.New(types.Invoice, "I25001", time.Now().UTC())
	require.NoError(t, svc.Save(newer))

	// The older document is gone from its store and from the index
	got, err := svc.Get(older.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "older duplicate must be evicted from the store")
	assert.Equal(t, 1, stores[types.Invoice].Len())

	docs, err := svc.List(types.Invoice, "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, newer.ID, docs[0].ID)
}

func TestSaveUniquenessSettles(t *testing.T) {
	svc, _, _ := newMemoryService(t)

	// Same number per type across several saves; separate types may share
	// the numeric part
	docs := []*types.Document{
		types.New(types.Invoice, "I25001", time.Now().UTC()),
		types.New(types.Invoice, "I25001", time.Now().UTC()),
		types.New(types.Proposal, "P25001", time.Now().UTC()),
		types.New(types.Invoice, "I25001", time.Now().UTC()),
	}
	for _, doc := range docs {
		require.NoError(t, svc.Save(doc))
	}

	all, err := svc.List("", "")
	require.NoError(t, err)
	seen := make(map[string]int)
	for _, doc := range all {
		seen[string(doc.Type)+doc.Number]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "duplicate survived for %s", key)
	}
	assert.Len(t, all, 2)
}

func TestGetAbsent(t *testing.T) {
	svc, _, _ := newMemoryService(t)
	got, err := svc.Get("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListFiltering(t *testing.T) {
	svc, _ := testutil.NewService(t)

	t.Run("type filter", func(t *testing.T) {
		docs, err := svc.List(types.Invoice, "")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		for _, doc := range docs {
			assert.Equal(t, types.Invoice, doc.Type)
		}
	})

	t.Run("query matches bill-to case-insensitively", func(t *testing.T) {
		docs, err := svc.List("", "acme")
		require.NoError(t, err)
		require.Len(t, docs, 2) // Acme invoice and Acme proposal
		for _, doc := range docs {
			assert.True(t, doc.MatchesQuery("acme"))
		}
	})

	t.Run("query matches tags", func(t *testing.T) {
		docs, err := svc.List("", "hvac")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "I25001", docs[0].Number)
	})

	t.Run("sorted newest first", func(t *testing.T) {
		docs, err := svc.List("", "")
		require.NoError(t, err)
		require.Len(t, docs, 3)
		for i := 1; i < len(docs); i++ {
			assert.False(t, docs[i].UpdatedAt.After(docs[i-1].UpdatedAt),
				"expected descending UpdatedAt order")
		}
		assert.Equal(t, "P25001", docs[0].Number, "fixture saves the proposal last")
	})

	t.Run("no match", func(t *testing.T) {
		docs, err := svc.List("", "initech")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestListDeduplicatesByRecency(t *testing.T) {
	svc, _, index := newMemoryService(t)

	// Simulate index drift from a crash between Save's steps: two entries
	// share (type, number) under different ids
	stale := types.New(types.Invoice, "I25001", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	stale.UpdatedAt = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fresh := types.New(types.Invoice, "I25001", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	fresh.UpdatedAt = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	writeIndex(t, index, []types.Document{*stale, *fresh})

	docs, err := svc.List(types.Invoice, "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, fresh.ID, docs[0].ID, "dedup must keep the most recently updated entry")
}

func TestRemove(t *testing.T) {
	svc, u := testutil.NewService(t)

	require.NoError(t, svc.Remove(u.AcmeInvoice.ID))

	got, err := svc.Get(u.AcmeInvoice.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	docs, err := svc.List("", "")
	require.NoError(t, err)
	for _, doc := range docs {
		assert.NotEqual(t, u.AcmeInvoice.ID, doc.ID)
	}

	// Removing an unknown id is a silent no-op
	assert.NoError(t, svc.Remove("no-such-id"))
}

func TestDuplicate(t *testing.T) {
	svc, u := testutil.NewService(t)

	t.Run("copies under fresh id and number", func(t *testing.T) {
		dup, err := svc.Duplicate(u.GlobexInvoice.ID)
		require.NoError(t, err)
		assert.NotEqual(t, u.GlobexInvoice.ID, dup.ID)
		assert.Equal(t, "I25004", dup.Number, "next after I25003")
		assert.Equal(t, u.GlobexInvoice.BillTo, dup.BillTo)
		assert.Equal(t, u.GlobexInvoice.Total, dup.Total)

		// Independent lifecycle: removing the copy leaves the original
		require.NoError(t, svc.Remove(dup.ID))
		got, err := svc.Get(u.GlobexInvoice.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("unknown id is NotFound", func(t *testing.T) {
		_, err := svc.Duplicate("no-such-id")
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestStorageUnavailable(t *testing.T) {
	svc, stores, index := newMemoryService(t)
	doc := types.New(types.Invoice, "I25001", time.Now().UTC())

	t.Run("index write failure", func(t *testing.T) {
		index.SetError = errors.New("quota exceeded")
		defer func() { index.SetError = nil }()
		err := svc.Save(doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrStorageUnavailable)
	})

	t.Run("store read failure", func(t *testing.T) {
		require.NoError(t, svc.Save(doc))
		stores[types.Invoice].GetError = errors.New("permission denied")
		defer func() { stores[types.Invoice].GetError = nil }()
		_, err := svc.Get(doc.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrStorageUnavailable)
	})

	t.Run("index read failure on list", func(t *testing.T) {
		index.GetError = errors.New("corrupted")
		defer func() { index.GetError = nil }()
		_, err := svc.List("", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrStorageUnavailable)
	})
}

// writeIndex plants raw index contents, bypassing Save's reconciliation
func writeIndex(t *testing.T, index storage.KV, docs []types.Document) {
	t.Helper()
	raw, err := json.Marshal(docs)
	require.NoError(t, err)
	require.NoError(t, index.Set("doc-index", raw))
}
