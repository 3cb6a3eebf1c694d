package render

import (
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/billfold/billfold/types"
)

// PDF writes an A4 portrait rendering of doc. The layout mirrors the
// print view: heading, number/date row, Bill To / For columns, the
// proposal disclaimer, one bordered table per table block with a
// description column and a right-aligned cost column, totals and the
// centered endnote.
func PDF(w io.Writer, doc *types.Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Heading
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, doc.Type.Display(), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	// Number and date
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 7, "Number: "+doc.Number, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Date: "+doc.Date.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Bill To / For columns
	colWidth := 92.5
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colWidth, 6, "Bill To", "", 0, "L", false, 0, "")
	pdf.CellFormat(colWidth, 6, "For", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	y := pdf.GetY()
	pdf.MultiCell(colWidth, 5, doc.BillTo, "", "L", false)
	afterBill := pdf.GetY()
	pdf.SetXY(10+colWidth, y)
	pdf.MultiCell(colWidth, 5, doc.ForWhat, "", "L", false)
	if pdf.GetY() < afterBill {
		pdf.SetY(afterBill)
	}
	pdf.Ln(4)

	if doc.Type == types.Proposal && doc.Disclaimer != "" {
		pdf.MultiCell(0, 5, doc.Disclaimer, "", "L", false)
		pdf.Ln(4)
	}

	multi := len(doc.Tables) > 1
	for _, table := range doc.Tables {
		if multi {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(0, 7, table.Title, "", 1, "L", false, 0, "")
		}
		writeItemTable(pdf, table.Items)
		if multi {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 7, table.Title+" total: $"+Money(table.Total), "", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, "Total: $"+Money(doc.Total), "", 1, "R", false, 0, "")

	if doc.Endnote != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, doc.Endnote, "", "C", false)
	}

	return pdf.Output(w)
}

func writeItemTable(pdf *gofpdf.Fpdf, items []types.LineItem) {
	const descWidth, costWidth = 150.0, 40.0

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(247, 247, 247)
	pdf.CellFormat(descWidth, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(costWidth, 7, "Cost", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		if item.Description == "" {
			continue
		}
		desc := strings.TrimRight(item.Description, "\n")
		x, y := pdf.GetX(), pdf.GetY()
		pdf.MultiCell(descWidth, 6, desc, "1", "L", false)
		rowHeight := pdf.GetY() - y
		pdf.SetXY(x+descWidth, y)
		pdf.CellFormat(costWidth, rowHeight, "$"+Money(item.Cost), "1", 1, "R", false, 0, "")
	}
}
