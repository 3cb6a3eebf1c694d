package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var duplicateCmd = &cobra.Command{
	Use:     "duplicate <id>",
	Aliases: []string{"dup"},
	Short:   "Copy a document under a fresh number",
	Long: `Copy the document for an id under a fresh id and the next available
number. The copy is independent of the original.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		dup, err := svc.Duplicate(args[0])
		if err != nil {
			return fmt.Errorf("failed to duplicate document: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Created %s %s (%s)\n", dup.Type, dup.Number, dup.ID)
		return nil
	},
}
