package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a document",
	Long: `Delete a document from its store and the index.

Removing an id that does not exist is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		if err := svc.Remove(args[0]); err != nil {
			return fmt.Errorf("failed to remove document: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Removed %s\n", args[0])
		return nil
	},
}
