package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billfold/billfold/types"
)

var nextNumberCmd = &cobra.Command{
	Use:   "next-number <invoice|proposal>",
	Short: "Show the next business number for a type",
	Long: `Show the number the next document of this type would get. The number
is not reserved; creating a document allocates it for real.`,
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
			return fmt.Errorf("failed to compute next number: %w", err)
		}
		fmt.Fprintln(os.Stdout, number)
		return nil
	},
}
