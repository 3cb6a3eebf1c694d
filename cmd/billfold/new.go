package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/billfold/billfold/types"
)

var (
	newBillTo  string
	newForWhat string
	newItems   []string
	newTags    []string
	newDate    string
)

var newCmd = &cobra.Command{
	Use:   "new <invoice|proposal>",
	Short: "Create a new document",
	Long: `Create a new invoice or proposal with the next available number.

Line items take the form "description:cost" and may repeat.

Examples:
  billfold new invoice --bill-to "Acme Co" --item "Labor:100" --item "Parts:250.50"
  billfold new proposal --for "Boiler room refit" --tag acme`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docType, err := types.ParseDocType(args[0])
		if err != nil {
			return err
		}

		svc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()

		number, err := svc.NextNumber(docType)
		if err != nil {
			return fmt.Errorf("failed to allocate number: %w", err)
		}

		now := time.Now()
		doc := types.New(docType, number, now)
		doc.BillTo = newBillTo
		doc.ForWhat = newForWhat
		doc.Tags = newTags
		if endnote := viper.GetString(cfgEndnote); endnote != "" {
			doc.Endnote = endnote
		}
		if docType == types.Proposal {
			if disclaimer := viper.GetString(cfgDisclaimer); disclaimer != "" {
				doc.Disclaimer = disclaimer
			}
		}
		if newDate != "" {
			date, err := time.Parse("2006-01-02", newDate)
			if err != nil {
				return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
			}
			doc.Date = date
		}
		if len(newItems) > 0 {
			items, err := parseItems(newItems)
			if err != nil {
				return err
			}
			doc.Tables[0].Items = items
			doc.RecomputeTotals()
		}

		if err := svc.Save(doc); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Created %s %s (%s)\n", docType, doc.Number, doc.ID)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newBillTo, "bill-to", "", "Billing address block")
	newCmd.Flags().StringVar(&newForWhat, "for", "", "Work description block")
	newCmd.Flags().StringArrayVar(&newItems, "item", nil, "Line item as description:cost (repeatable)")
	newCmd.Flags().StringSliceVar(&newTags, "tag", nil, "Search tag (repeatable)")
	newCmd.Flags().StringVar(&newDate, "date", "", "Document date (YYYY-MM-DD, default today)")
}

// parseItems converts description:cost strings into line items
func parseItems(specs []string) ([]types.LineItem, error) {
	items := make([]types.LineItem, 0, len(specs))
	for _, spec := range specs {
		idx := strings.LastIndex(spec, ":")
		if idx < 0 {
			return nil, fmt.Errorf("invalid item %q (want description:cost)", spec)
		}
		cost, err := strconv.ParseFloat(strings.TrimSpace(spec[idx+1:]), 64)
		if err != nil || cost < 0 {
			return nil, fmt.Errorf("invalid cost in item %q", spec)
		}
		item := types.NewLineItem()
		item.Description = strings.TrimSpace(spec[:idx])
		item.Cost = cost
		items = append(items, item)
	}
	return items, nil
}
