package types

import "fmt"

// DocType discriminates the two document variants. The zero value is not
// a valid type; use ParseDocType for user-supplied strings.
type DocType string

const (
	Invoice  DocType = "invoice"
	Proposal DocType = "proposal"
)

// AllDocTypes returns the document types in probe order. Get and Remove
// walk the per-type stores in this order.
func AllDocTypes() []DocType {
	return []DocType{Invoice, Proposal}
}

// ParseDocType converts a user-supplied string into a DocType
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case Invoice:
		return Invoice, nil
	case Proposal:
		return Proposal, nil
	}
	return "", fmt.Errorf("unknown document type %q (want invoice or proposal)", s)
}

// Valid reports whether t is one of the known document types
func (t DocType) Valid() bool {
	return t == Invoice || t == Proposal
}

// NumberPrefix returns the leading letter of this type's business numbers
func (t DocType) NumberPrefix() string {
	if t == Proposal {
		return "P"
	}
	return "I"
}

// Display returns the heading used when rendering a document of this type
func (t DocType) Display() string {
	if t == Proposal {
		return "PROPOSAL"
	}
	return "INVOICE"
}
