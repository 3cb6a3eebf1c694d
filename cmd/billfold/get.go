package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a document",
	Long: `Load the full document for an id and print it.

Examples:
  billfold get 4f7c9a12-...
  billfold get 4f7c9a12-... --format json`,
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
		return writeDoc(os.Stdout, doc, format)
	},
}
