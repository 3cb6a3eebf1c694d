package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billfold/billfold/types"
)

var (
	listType  string
	listQuery string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	Long: `List document summaries from the index, most recently updated first.

Examples:
  billfold list
  billfold list --type invoice
  billfold list --query acme
  billfold list --type proposal --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var docType types.DocType
		if listType != "" {
			t, err := types.ParseDocType(listType)
			if err != nil {
				return err
			}
			docType = t
		}

		svc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		docs, err := svc.List(docType, listQuery)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		return writeDocList(os.Stdout, docs, format)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Filter by document type (invoice|proposal)")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Case-insensitive search over number, bill-to, for and tags")
}
