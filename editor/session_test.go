package editor_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/editor"
	"github.com/billfold/billfold/service"
	"github.com/billfold/billfold/storage"
	"github.com/billfold/billfold/testutil"
	"github.com/billfold/billfold/types"
)

// countingKV wraps a MemoryKV to count writes, so tests can assert that
// a burst of edits collapses into a single persisted save.
type countingKV struct {
	*storage.MemoryKV
	sets atomic.Int32
}

func (c *countingKV) Set(key string, value []byte) error {
	c.sets.Add(1)
	return c.MemoryKV.Set(key, value)
}

func newEditorService(t *testing.T) (*service.Service, *countingKV, *storage.MemoryKV) {
	t.Helper()
	invoices := &countingKV{MemoryKV: storage.NewMemoryKV()}
	index := storage.NewMemoryKV()
	svc := service.New(
		map[types.DocType]storage.KV{
			types.Invoice:  invoices,
			types.Proposal: storage.NewMemoryKV(),
		},
		index,
	)
	return svc, invoices, index
}

func TestDebounceCollapsesEdits(t *testing.T) {
	svc, invoices, _ := newEditorService(t)

	doc := types.New(types.Invoice, "I25001", time.Now())
	sess := editor.NewSession(svc, doc, editor.WithDebounce(20*time.Millisecond))

	// A burst of edits inside the debounce window persists once, with the
	// final state only
	require.NoError(t, sess.SetBillTo("Acme"))
	require.NoError(t, sess.SetBillTo("Acme Co"))
	require.NoError(t, sess.SetForWhat("Furnace replacement"))
	require.NoError(t, sess.UpdateItem(0, 0, "Labor", 100))

	require.Eventually(t, func() bool {
		status, _ := sess.Status()
		return status == editor.StatusSaved
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(1), invoices.sets.Load(), "burst must persist exactly once")

	got, err := svc.Get(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Co", got.BillTo)
	assert.Equal(t, 100.0, got.Total)
}

func TestEditRearmsPendingSave(t *testing.T) {
	svc, invoices, _ := newEditorService(t)

	doc := types.New(types.Invoice, "I25001", time.Now())
	sess := editor.NewSession(svc, doc, editor.WithDebounce(40*time.Millisecond))

	require.NoError(t, sess.SetBillTo("draft"))
	time.Sleep(20 * time.Millisecond) // inside the window; timer re-arms
	require.NoError(t, sess.SetBillTo("final"))

	require.Eventually(t, func() bool {
		status, _ := sess.Status()
		return status == editor.StatusSaved
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(1), invoices.sets.Load())
	got, err := svc.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.BillTo)
}

func TestStatusTransitions(t *testing.T) {
	svc, _, _ := newEditorService(t)

	var mu sync.Mutex
	var seen []editor.Status
	doc := types.New(types.Invoice, "I25001", time.Now())
	sess := editor.NewSession(svc, doc,
		editor.WithDebounce(10*time.Millisecond),
		editor.WithStatusFunc(func(s editor.Status) {
			mu.Lock()
			seen = append(seen, s)
			mu.Unlock()
		}),
	)

	require.NoError(t, sess.SetBillTo("Acme"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []editor.Status{editor.StatusSaving, editor.StatusSaved}, seen)
}

func TestAutosaveFailureAndRecovery(t *testing.T) {
	svc, _, index := newEditorService(t)

	doc := types.New(types.Invoice, "I25001", time.Now())
	sess := editor.NewSession(svc, doc, editor.WithDebounce(0))

	index.SetError = errors.New("disk full")
	require.NoError(t, sess.SetBillTo("Acme"))
	err := sess.Flush()
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrStorageUnavailable)

	status, lastErr := sess.Status()
	assert.Equal(t, editor.StatusError, status)
	assert.ErrorIs(t, lastErr, service.ErrStorageUnavailable)

	// Edits keep working while persistence is down; the next successful
	// save clears the error
	require.NoError(t, sess.SetForWhat("Furnace replacement"))
	index.SetError = nil
	require.NoError(t, sess.Flush())

	status, lastErr = sess.Status()
	assert.Equal(t, editor.StatusSaved, status)
	assert.NoError(t, lastErr)
}

func TestFlushSavesWithoutDebounce(t *testing.T) {
	svc, _, _ := newEditorService(t)

	doc := types.New(types.Invoice, "I25001", time.Now())
	sess := editor.NewSession(svc, doc, editor.WithDebounce(0))
	require.NoError(t, sess.SetBillTo("Acme"))

	// Autosave is disabled, so nothing is persisted yet
	got, err := svc.Get(doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, sess.Flush())
	got, err = svc.Get(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.BillTo)
}

func TestMutationValidation(t *testing.T) {
	svc, _, _ := newEditorService(t)
	doc := types.New(types.Invoice, "I25001", time.Now())
	sess := editor.NewSession(svc, doc, editor.WithDebounce(0))

	t.Run("empty number", func(t *testing.T) {
		assert.ErrorIs(t, sess.SetNumber(""), editor.ErrInvalidInput)
	})

	t.Run("negative cost", func(t *testing.T) {
		assert.ErrorIs(t, sess.UpdateItem(0, 0, "Labor", -1), editor.ErrInvalidInput)
		_, err := sess.AppendItem(0, "Labor", -1)
		assert.ErrorIs(t, err, editor.ErrInvalidInput)
	})

	t.Run("disclaimer on an invoice", func(t *testing.T) {
		assert.ErrorIs(t, sess.SetDisclaimer("terms"), editor.ErrInvalidInput)
	})

	t.Run("removing the last item", func(t *testing.T) {
		assert.ErrorIs(t, sess.RemoveItem(0, 0), editor.ErrInvalidInput)
	})

	t.Run("removing the last table", func(t *testing.T) {
		assert.ErrorIs(t, sess.RemoveTable(0), editor.ErrInvalidInput)
	})

	t.Run("out of range indexes", func(t *testing.T) {
		_, err := sess.AddItem(3)
		assert.ErrorIs(t, err, editor.ErrInvalidInput)
		assert.ErrorIs(t, sess.UpdateItem(0, 9, "x", 1), editor.ErrInvalidInput)
		assert.ErrorIs(t, sess.SetTableTitle(-1, "x"), editor.ErrInvalidInput)
	})

	t.Run("rejected mutations leave the document untouched", func(t *testing.T) {
		before := sess.Document()
		_ = sess.RemoveItem(0, 0)
		assert.Equal(t, before, sess.Document())
	})
}

func TestTableMutations(t *testing.T) {
	svc, _, _ := newEditorService(t)
	doc := types.New(types.Proposal, "P25001", time.Now())
	sess := editor.NewSession(svc, doc, editor.WithDebounce(0))

	require.NoError(t, sess.UpdateItem(0, 0, "Replace unit", 4800))

	id, err := sess.AddTable()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, sess.SetTableTitle(1, "Repair only"))
	require.NoError(t, sess.UpdateItem(1, 0, "Repair", 1900))

	snapshot := sess.Document()
	require.Len(t, snapshot.Tables, 2)
	assert.Equal(t, "Repair only", snapshot.Tables[1].Title)
	assert.Equal(t, 6700.0, snapshot.Total)
	assert.Equal(t, 4800.0, snapshot.Tables[0].Total)

	require.NoError(t, sess.RemoveTable(1))
	snapshot = sess.Document()
	require.Len(t, snapshot.Tables, 1)
	assert.Equal(t, 4800.0, snapshot.Total)
}

func TestLoad(t *testing.T) {
	svc, u := testutil.NewService(t)

	t.Run("opens a stored document", func(t *testing.T) {
		sess, err := editor.Load(svc, u.AcmeInvoice.ID, editor.WithDebounce(0))
		require.NoError(t, err)
		doc := sess.Document()
		assert.Equal(t, u.AcmeInvoice.Number, doc.Number)
	})

	t.Run("unknown id is NotFound", func(t *testing.T) {
		_, err := editor.Load(svc, "no-such-id", editor.WithDebounce(0))
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestNewDocument(t *testing.T) {
	svc, _ := testutil.NewService(t)

	sess, err := editor.NewDocument(svc, types.Invoice, editor.WithDebounce(0))
	require.NoError(t, err)
	doc := sess.Document()
	assert.Equal(t, "I25004", doc.Number, "next after the fixture's I25003")
	assert.Equal(t, types.Invoice, doc.Type)

	// Not persisted until the first save
	got, err := svc.Get(doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, sess.Close())
	got, err = svc.Get(doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}
