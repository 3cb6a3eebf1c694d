package editor

import (
	"fmt"
	"time"

	"github.com/billfold/billfold/types"
)

// SetNumber overwrites the business number. The editor allows free-form
// numbers (the service evicts any collision on save), but not empty
// ones.
func (s *Session) SetNumber(number string) error {
	if number == "" {
		return fmt.Errorf("%w: number must not be empty", ErrInvalidInput)
	}
	return s.mutate(func(doc *types.Document) error {
		doc.Number = number
		return nil
	})
}

// SetDate sets the document date
func (s *Session) SetDate(date time.Time) error {
	return s.mutate(func(doc *types.Document) error {
		doc.Date = date
		return nil
	})
}

// SetBillTo sets the billing address block
func (s *Session) SetBillTo(billTo string) error {
	return s.mutate(func(doc *types.Document) error {
		doc.BillTo = billTo
		return nil
	})
}

// SetForWhat sets the work description block
func (s *Session) SetForWhat(forWhat string) error {
	return s.mutate(func(doc *types.Document) error {
		doc.ForWhat = forWhat
		return nil
	})
}

// SetEndnote sets the closing boilerplate
func (s *Session) SetEndnote(endnote string) error {
	return s.mutate(func(doc *types.Document) error {
		doc.Endnote = endnote
		return nil
	})
}

// SetDisclaimer sets the proposal disclaimer. Rejected on invoices,
// which have no disclaimer field in their rendered form.
func (s *Session) SetDisclaimer(disclaimer string) error {
	return s.mutate(func(doc *types.Document) error {
		if doc.Type != types.Proposal {
			return fmt.Errorf("%w: disclaimer applies to proposals only", ErrInvalidInput)
		}
		doc.Disclaimer = disclaimer
		return nil
	})
}

// SetTags replaces the tag set
func (s *Session) SetTags(tags []string) error {
	return s.mutate(func(doc *types.Document) error {
		doc.Tags = append([]string(nil), tags...)
		return nil
	})
}

// AddItem appends an empty line item to the table at tableIdx and
// returns its id.
func (s *Session) AddItem(tableIdx int) (string, error) {
	item := types.NewLineItem()
	err := s.mutate(func(doc *types.Document) error {
		if tableIdx < 0 || tableIdx >= len(doc.Tables) {
			return fmt.Errorf("%w: no table at position %d", ErrInvalidInput, tableIdx)
		}
		doc.Tables[tableIdx].Items = append(doc.Tables[tableIdx].Items, item)
		return nil
	})
	if err != nil {
		return "", err
	}
	return item.ID, nil
}

// AppendItem appends a populated line item to the table at tableIdx and
// returns its id. Negative costs are rejected.
func (s *Session) AppendItem(tableIdx int, description string, cost float64) (string, error) {
	if cost < 0 {
		return "", fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	item := types.NewLineItem()
	item.Description = description
	item.Cost = cost
	err := s.mutate(func(doc *types.Document) error {
		if tableIdx < 0 || tableIdx >= len(doc.Tables) {
			return fmt.Errorf("%w: no table at position %d", ErrInvalidInput, tableIdx)
		}
		doc.Tables[tableIdx].Items = append(doc.Tables[tableIdx].Items, item)
		return nil
	})
	if err != nil {
		return "", err
	}
	return item.ID, nil
}

// UpdateItem sets the description and cost of the item at itemIdx in the
// table at tableIdx. Negative costs are rejected.
func (s *Session) UpdateItem(tableIdx, itemIdx int, description string, cost float64) error {
	if cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	return s.mutate(func(doc *types.Document) error {
		if tableIdx < 0 || tableIdx >= len(doc.Tables) {
			return fmt.Errorf("%w: no table at position %d", ErrInvalidInput, tableIdx)
		}
		items := doc.Tables[tableIdx].Items
		if itemIdx < 0 || itemIdx >= len(items) {
			return fmt.Errorf("%w: no item at position %d", ErrInvalidInput, itemIdx)
		}
		items[itemIdx].Description = description
		items[itemIdx].Cost = cost
		return nil
	})
}

// RemoveItem deletes the item at itemIdx from the table at tableIdx. A
// table always keeps at least one item; removing the last one fails.
func (s *Session) RemoveItem(tableIdx, itemIdx int) error {
	return s.mutate(func(doc *types.Document) error {
		if tableIdx < 0 || tableIdx >= len(doc.Tables) {
			return fmt.Errorf("%w: no table at position %d", ErrInvalidInput, tableIdx)
		}
		table := &doc.Tables[tableIdx]
		if itemIdx < 0 || itemIdx >= len(table.Items) {
			return fmt.Errorf("%w: no item at position %d", ErrInvalidInput, itemIdx)
		}
		if len(table.Items) == 1 {
			return fmt.Errorf("%w: a table keeps at least one item", ErrInvalidInput)
		}
		table.Items = append(table.Items[:itemIdx], table.Items[itemIdx+1:]...)
		return nil
	})
}

// AddTable appends a new table block with a default title and one empty
// item, returning its id.
func (s *Session) AddTable() (string, error) {
	var id string
	err := s.mutate(func(doc *types.Document) error {
		table := types.NewTableBlock(len(doc.Tables))
		id = table.ID
		doc.Tables = append(doc.Tables, table)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RemoveTable deletes the table at tableIdx. A document always keeps at
// least one table.
func (s *Session) RemoveTable(tableIdx int) error {
	return s.mutate(func(doc *types.Document) error {
		if tableIdx < 0 || tableIdx >= len(doc.Tables) {
			return fmt.Errorf("%w: no table at position %d", ErrInvalidInput, tableIdx)
		}
		if len(doc.Tables) == 1 {
			return fmt.Errorf("%w: a document keeps at least one table", ErrInvalidInput)
		}
		doc.Tables = append(doc.Tables[:tableIdx], doc.Tables[tableIdx+1:]...)
		return nil
	})
}

// SetTableTitle renames the table at tableIdx, truncating to the
// display cap.
func (s *Session) SetTableTitle(tableIdx int, title string) error {
	return s.mutate(func(doc *types.Document) error {
		if tableIdx < 0 || tableIdx >= len(doc.Tables) {
			return fmt.Errorf("%w: no table at position %d", ErrInvalidInput, tableIdx)
		}
		doc.Tables[tableIdx].Title = types.TruncateTitle(title)
		return nil
	})
}
