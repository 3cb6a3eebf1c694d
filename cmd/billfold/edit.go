package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/billfold/billfold/editor"
	"github.com/billfold/billfold/render"
)

var (
	editBillTo     string
	editForWhat    string
	editNumber     string
	editEndnote    string
	editDisclaimer string
	editTags       []string
	editDate       string
	editAddItems   []string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Apply edits to a document",
	Long: `Apply field edits to a stored document through an editing session and
save the result. Only the flags you pass are changed.

Examples:
  billfold edit 4f7c... --bill-to "Acme Co"
  billfold edit 4f7c... --add-item "Labor:100" --add-item "Parts:40"
  billfold edit 4f7c... --tag hvac --tag urgent`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		// Debounce is pointless for a one-shot batch of edits; the
		// session saves once on Flush
		session, err := editor.Load(svc, args[0], editor.WithDebounce(0))
		if err != nil {
			return fmt.Errorf("failed to open document: %w", err)
		}

		if cmd.Flags().Changed("number") {
			if err := session.SetNumber(editNumber); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("bill-to") {
			if err := session.SetBillTo(editBillTo); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("for") {
			if err := session.SetForWhat(editForWhat); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("endnote") {
			if err := session.SetEndnote(editEndnote); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("disclaimer") {
			if err := session.SetDisclaimer(editDisclaimer); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("tag") {
			if err := session.SetTags(editTags); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("date") {
			date, err := time.Parse("2006-01-02", editDate)
			if err != nil {
				return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
			}
			if err := session.SetDate(date); err != nil {
				return err
			}
		}
		if len(editAddItems) > 0 {
			items, err := parseItems(editAddItems)
			if err != nil {
				return err
			}
			for _, item := range items {
				if _, err := session.AppendItem(0, item.Description, item.Cost); err != nil {
					return err
				}
			}
		}

		if err := session.Close(); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		doc := session.Document()
		fmt.Fprintf(os.Stdout, "Saved %s %s (total $%s)\n", doc.Type, doc.Number, render.Money(doc.Total))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editNumber, "number", "", "Business number")
	editCmd.Flags().StringVar(&editBillTo, "bill-to", "", "Billing address block")
	editCmd.Flags().StringVar(&editForWhat, "for", "", "Work description block")
	editCmd.Flags().StringVar(&editEndnote, "endnote", "", "Closing boilerplate")
	editCmd.Flags().StringVar(&editDisclaimer, "disclaimer", "", "Proposal disclaimer")
	editCmd.Flags().StringSliceVar(&editTags, "tag", nil, "Replace the tag set (repeatable)")
	editCmd.Flags().StringVar(&editDate, "date", "", "Document date (YYYY-MM-DD)")
	editCmd.Flags().StringArrayVar(&editAddItems, "add-item", nil, "Append line item as description:cost (repeatable)")
}
