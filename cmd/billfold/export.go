package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billfold/billfold/render"
)

var exportPDF string

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a document as text or PDF",
	Long: `Render a document for printing. Without --pdf, a plain text rendering
goes to stdout; with --pdf, an A4 PDF is written to the given path.

Examples:
  billfold export 4f7c...
  billfold export 4f7c... --pdf invoice.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		doc, err := svc.Get(args[0])
		if err != nil {
			return fmt.Errorf("failed to load document: %w", err)
		}
		if doc == nil {
			return fmt.Errorf("no document with id %s", args[0])
		}

		if exportPDF == "" {
			return render.Text(os.Stdout, doc)
		}
		out, err := os.Create(exportPDF)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = out.Close() }()
		if err := render.PDF(out, doc); err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", exportPDF)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPDF, "pdf", "", "Write an A4 PDF to this path instead of text to stdout")
}
