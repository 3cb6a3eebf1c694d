// Package testutil provides a seeded in-memory persistence service for
// tests that need a realistic universe of documents without touching
// the filesystem.
package testutil

import (
	"testing"
	"time"

	"github.com/billfold/billfold/service"
	"github.com/billfold/billfold/storage"
	"github.com/billfold/billfold/types"
)

// Universe gives typed access to the fixture documents
type Universe struct {
	// Invoices, numbered I25001 and I25003 (I25002 was deleted in the
	// story the fixture tells, so numbering tests see a gap)
	AcmeInvoice   types.Document // I25001, "Acme Co", tagged "hvac"
	GlobexInvoice types.Document // I25003, "Globex LLC", most recently updated invoice

	// Proposals
	AcmeProposal types.Document // P25001, "Acme Co", two tables, tagged "acme", "boiler"

	// Clock is the fixed time the fixture was "saved" at; the service's
	// clock starts just after it
	Clock time.Time

	// ByID holds every fixture document
	ByID map[string]types.Document
}

// NewService returns a memory-backed service seeded with the fixture
// universe and a deterministic clock that advances one second per call.
func NewService(t *testing.T) (*service.Service, *Universe) {
	t.Helper()

	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	stores := map[types.DocType]storage.KV{
		types.Invoice:  storage.NewMemoryKV(),
		types.Proposal: storage.NewMemoryKV(),
	}
	svc := service.New(stores, storage.NewMemoryKV(), service.WithTimeFunc(clock))

	u := &Universe{Clock: base, ByID: make(map[string]types.Document)}

	acmeInv := types.New(types.Invoice, "I25001", base)
	acmeInv.BillTo = "Acme Co\n12 Main St"
	acmeInv.ForWhat = "Furnace replacement"
	acmeInv.Tags = []string{"hvac"}
	acmeInv.Tables[0].Items = []types.LineItem{
		{ID: "item-labor", Description: "Labor", Cost: 100},
		{ID: "item-parts", Description: "Parts", Cost: 250.50},
	}

	globexInv := types.New(types.Invoice, "I25003", base)
	globexInv.BillTo = "Globex LLC"
	globexInv.ForWhat = "Quarterly maintenance"
	globexInv.Tables[0].Items = []types.LineItem{
		{ID: "item-visit", Description: "Site visit", Cost: 75},
	}

	acmeProp := types.New(types.Proposal, "P25001", base)
	acmeProp.BillTo = "Acme Co\n12 Main St"
	acmeProp.ForWhat = "Boiler room refit"
	acmeProp.Tags = []string{"acme", "boiler"}
	acmeProp.Tables[0].Title = "Option 1"
	acmeProp.Tables[0].Items = []types.LineItem{
		{ID: "item-opt1", Description: "Replace boiler", Cost: 4800},
	}
	acmeProp.Tables = append(acmeProp.Tables, types.TableBlock{
		ID:    "table-opt2",
		Title: "Option 2",
		Items: []types.LineItem{
			{ID: "item-opt2", Description: "Repair boiler", Cost: 1900},
		},
	})

	// Save order fixes the relative UpdatedAt ordering: the Globex
	// invoice is the freshest invoice, the proposal freshest overall
	for _, doc := range []*types.Document{acmeInv, globexInv, acmeProp} {
		if err := svc.Save(doc); err != nil {
			t.Fatalf("seeding fixture: %v", err)
		}
	}

	u.AcmeInvoice = *acmeInv
	u.GlobexInvoice = *globexInv
	u.AcmeProposal = *acmeProp
	for _, doc := range []types.Document{*acmeInv, *globexInv, *acmeProp} {
		u.ByID[doc.ID] = doc
	}
	return svc, u
}
