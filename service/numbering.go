package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/billfold/billfold/types"
)

// NextNumber allocates the next business number for a document type:
// the type prefix (I/P), the current two-digit year, then the highest
// existing sequence for that prefix plus one, zero-padded to at least
// three digits (it grows past 999 untruncated).
//
// The index is the primary source for the scan, but the full per-type
// store is rescanned as a cross-check against an index that has drifted.
// The rescan trades accuracy for availability: its own failures are
// logged and ignored, falling back to the index-derived maximum.
//
// Allocation is not race-free across processes: two sessions can both
// read the same maximum and coin the same number. Save resolves such a
// collision by evicting the earlier document, last writer wins.
func (s *Service) NextNumber(docType types.DocType) (string, error) {
	if !docType.Valid() {
		return "", fmt.Errorf("invalid document type %q", docType)
	}

	year := s.timeFunc().Year() % 100
	prefix := fmt.Sprintf("%s%02d", docType.NumberPrefix(), year)
	pattern, err := regexp.Compile("^" + prefix + `(\d+)$`)
	if err != nil {
		return "", fmt.Errorf("compile number pattern: %w", err)
	}

	maxSeq := 0
	collect := func(number string) {
		m := pattern.FindStringSubmatch(number)
		if m == nil {
			return
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxSeq {
			maxSeq = n
		}
	}

	index, err := s.loadIndex()
	if err != nil {
		return "", err
	}
	for _, entry := range index {
		if entry.Type == docType {
			collect(entry.Number)
		}
	}

	if err := s.scanStoreNumbers(docType, collect); err != nil {
		s.logger.Warn("store rescan failed, falling back to index maximum",
			"type", docType, "error", err)
	}

	return fmt.Sprintf("%s%03d", prefix, maxSeq+1), nil
}

// scanStoreNumbers feeds every stored number of the given type to
// collect. Used only as a defensive cross-check by NextNumber.
func (s *Service) scanStoreNumbers(docType types.DocType, collect func(string)) error {
	store, ok := s.stores[docType]
	if !ok {
		return fmt.Errorf("no store for document type %q", docType)
	}
	keys, err := store.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		raw, ok, err := store.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		var doc types.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		collect(doc.Number)
	}
	return nil
}
