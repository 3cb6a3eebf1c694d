package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/billfold/billfold/render"
	"github.com/billfold/billfold/types"
)

// writeDocList prints document summaries in the selected format
func writeDocList(w io.Writer, docs []types.Document, format string) error {
	switch format {
	case "json":
		return writeJSON(w, docs)
	case "yaml":
		return writeYAML(w, docs)
	case "", "table":
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NUMBER\tTYPE\tBILL TO\tTOTAL\tUPDATED\tID")
		for _, doc := range docs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t$%s\t%s\t%s\n",
				doc.Number, doc.Type, firstLine(doc.BillTo),
				render.Money(doc.Total),
				doc.UpdatedAt.Format("2006-01-02 15:04"),
				doc.ID)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

// writeDoc prints one full document in the selected format
func writeDoc(w io.Writer, doc *types.Document, format string) error {
	switch format {
	case "json":
		return writeJSON(w, doc)
	case "yaml":
		return writeYAML(w, doc)
	case "", "table", "text":
		return render.Text(w, doc)
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(v)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
