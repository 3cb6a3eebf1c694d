// Package types defines the invoice/proposal document model: line items,
// table blocks, the document itself and the helpers that keep its derived
// fields (totals, the legacy flat item list) consistent.
package types

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberPattern is the business number format: type prefix, two-digit
// year, then a sequence of at least three digits, e.g. I25001 or P25014.
var NumberPattern = regexp.MustCompile(`^[IP]\d{2}\d{3,}$`)

// MaxTableTitleLen caps table titles for display purposes
const MaxTableTitleLen = 30

// SchemaVersion is the current document schema marker
const SchemaVersion = 1

// LineItem is a single billable row. Items with an empty description are
// placeholders and never contribute to totals, whatever their cost.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// NewLineItem returns an empty item with a fresh id
func NewLineItem() LineItem {
	return LineItem{ID: uuid.New().String()}
}

// TableBlock groups line items into a named section for multi-option
// documents. A table always holds at least one item; Total is derived
// from the items and cached by RecomputeTotals.
type TableBlock struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

// NewTableBlock returns a table with the default title for position pos
// and a single empty item.
func NewTableBlock(pos int) TableBlock {
	return TableBlock{
		ID:    uuid.New().String(),
		Title: DefaultTableTitle(pos),
		Items: []LineItem{NewLineItem()},
	}
}

// DefaultTableTitle names the table at zero-based position pos
func DefaultTableTitle(pos int) string {
	return "Option " + strconv.Itoa(pos+1)
}

// TruncateTitle enforces the display cap on table titles
func TruncateTitle(title string) string {
	if len(title) > MaxTableTitleLen {
		return title[:MaxTableTitleLen]
	}
	return title
}

// Document is an invoice or proposal record. The two variants share every
// field except Disclaimer, which only carries meaning when Type is
// Proposal; code that applies type-specific defaults or rendering must
// switch on Type rather than probe for the field.
//
// Tables is the authoritative line item structure. Items and Total are a
// flat mirror kept for records written before tables existed and for
// listing surfaces that only know the flat shape: Items mirrors
// Tables[0].Items and Total mirrors the sum of all table totals.
type Document struct {
	ID         string       `json:"id"`
	Type       DocType      `json:"type"`
	Number     string       `json:"number"`
	Date       time.Time    `json:"dateISO"`
	BillTo     string       `json:"billTo"`
	ForWhat    string       `json:"forWhat"`
	Items      []LineItem   `json:"items"`
	Total      float64      `json:"total"`
	Tables     []TableBlock `json:"tables,omitempty"`
	Endnote    string       `json:"endnote,omitempty"`
	Disclaimer string       `json:"disclaimer,omitempty"`
	Tags       []string     `json:"tags,omitempty"`
	UpdatedAt  time.Time    `json:"updatedAtISO"`
	Version    int          `json:"version"`
}

// New creates a fresh in-memory document of the given type. The caller
// supplies the business number (normally from the persistence service's
// NextNumber) and the creation time. The document starts with one table
// holding one empty item and the per-type default endnote; proposals also
// get the default disclaimer.
func New(t DocType, number string, now time.Time) *Document {
	doc := &Document{
		ID:        uuid.New().String(),
		Type:      t,
		Number:    number,
		Date:      now,
		Tables:    []TableBlock{NewTableBlock(0)},
		Endnote:   DefaultEndnote(t),
		UpdatedAt: now,
		Version:   SchemaVersion,
	}
	if t == Proposal {
		doc.Disclaimer = DefaultDisclaimer
	}
	doc.RecomputeTotals()
	return doc
}

// Normalize repairs the document shape after a load. Records written
// before tables existed carry only the flat Items list; those get a
// single synthesized table. Every table is guaranteed at least one item
// and a title, and the derived fields are refreshed. Normalize is
// idempotent.
func (d *Document) Normalize() {
	if len(d.Tables) == 0 {
		items := d.Items
		if len(items) == 0 {
			items = []LineItem{NewLineItem()}
		}
		d.Tables = []TableBlock{{
			ID:    uuid.New().String(),
			Title: DefaultTableTitle(0),
			Items: items,
		}}
	}
	for i := range d.Tables {
		if len(d.Tables[i].Items) == 0 {
			d.Tables[i].Items = []LineItem{NewLineItem()}
		}
		if d.Tables[i].Title == "" {
			d.Tables[i].Title = DefaultTableTitle(i)
		}
		d.Tables[i].Title = TruncateTitle(d.Tables[i].Title)
	}
	if d.Version == 0 {
		d.Version = SchemaVersion
	}
	d.RecomputeTotals()
}

// RecomputeTotals rederives every cached total. A table's total is the
// sum of costs over its items with a non-empty description; the document
// total is the sum of table totals. The flat Items mirror is refreshed
// from the first table. Idempotent: totals are never independently
// authored.
func (d *Document) RecomputeTotals() {
	var total float64
	for i := range d.Tables {
		t := &d.Tables[i]
		t.Total = 0
		for _, item := range t.Items {
			if item.Description != "" {
				t.Total += item.Cost
			}
		}
		total += t.Total
	}
	d.Total = total
	if len(d.Tables) > 0 {
		d.Items = d.Tables[0].Items
	}
}

// Summary returns the entry stored in the listing index for this
// document. The index carries the full document shape in practice, but
// consumers must only rely on the fields a listing needs (type, number,
// bill-to, for-what, tags, total, timestamps); the per-type store stays
// authoritative for document content.
func (d *Document) Summary() Document {
	return *d
}

// MatchesQuery reports whether q occurs, case-insensitively, in the
// document number, bill-to, for-what, or any tag. An empty query matches
// everything.
func (d *Document) MatchesQuery(q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(d.Number), q) ||
		strings.Contains(strings.ToLower(d.BillTo), q) ||
		strings.Contains(strings.ToLower(d.ForWhat), q) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the document. Item and table ids are
// preserved; the copy shares no slices with the original.
func (d *Document) Clone() *Document {
	out := *d
	out.Items = append([]LineItem(nil), d.Items...)
	out.Tables = make([]TableBlock, len(d.Tables))
	for i, t := range d.Tables {
		out.Tables[i] = t
		out.Tables[i].Items = append([]LineItem(nil), t.Items...)
	}
	if d.Tags != nil {
		out.Tags = append([]string(nil), d.Tags...)
	}
	// The flat mirror must alias the first table after a deep copy
	out.RecomputeTotals()
	return &out
}
