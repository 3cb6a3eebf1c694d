package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/billfold/billfold/types"
)

// Text writes a plain text rendering of doc: heading, number and date,
// the Bill To / For blocks, the proposal disclaimer when present, every
// table with its items and total, the grand total and the endnote.
func Text(w io.Writer, doc *types.Document) error {
	var b strings.Builder

	b.WriteString(doc.Type.Display() + "\n")
	b.WriteString(strings.Repeat("=", len(doc.Type.Display())) + "\n\n")
	fmt.Fprintf(&b, "Number: %s\n", doc.Number)
	fmt.Fprintf(&b, "Date:   %s\n\n", doc.Date.Format("2006-01-02"))

	if doc.BillTo != "" {
		b.WriteString("Bill To:\n" + indent(doc.BillTo) + "\n")
	}
	if doc.ForWhat != "" {
		b.WriteString("For:\n" + indent(doc.ForWhat) + "\n")
	}
	if doc.Type == types.Proposal && doc.Disclaimer != "" {
		b.WriteString(doc.Disclaimer + "\n\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	multi := len(doc.Tables) > 1
	for i, table := range doc.Tables {
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		if multi {
			fmt.Fprintf(tw, "%s\n", table.Title)
		}
		fmt.Fprintf(tw, "Description\tCost\n")
		fmt.Fprintf(tw, "-----------\t----\n")
		for _, item := range table.Items {
			if item.Description == "" {
				continue
			}
			fmt.Fprintf(tw, "%s\t$%s\n", strings.ReplaceAll(item.Description, "\n", " "), Money(item.Cost))
		}
		if multi {
			fmt.Fprintf(tw, "%s total\t$%s\n", table.Title, Money(table.Total))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if i < len(doc.Tables)-1 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}

	var tail strings.Builder
	fmt.Fprintf(&tail, "\nTotal: $%s\n", Money(doc.Total))
	if doc.Endnote != "" {
		tail.WriteString("\n" + doc.Endnote + "\n")
	}
	_, err := io.WriteString(w, tail.String())
	return err
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
