package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billfold/billfold/service"
)

var (
	cfgFile  string
	dataDir  string
	format   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "billfold",
	Short: "Billfold - local invoice and proposal manager",
	Long: `Billfold manages invoices and proposals in a local data directory.
Documents get auto-assigned business numbers (I25001, P25014, ...) and
are stored in per-type JSON files with a listing index for fast search.

Examples:
  billfold new invoice --bill-to "Acme Co" --item "Labor:100"
  billfold list --type invoice --query acme
  billfold get 4f7c... --format json
  billfold duplicate 4f7c...
  billfold export 4f7c... --pdf invoice.pdf`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}
		return initLogging(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/billfold/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (default $XDG_DATA_HOME/billfold)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Output format: table|json|yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(duplicateCmd)
	rootCmd.AddCommand(nextNumberCmd)
	rootCmd.AddCommand(exportCmd)
}

// openService builds the persistence context for the configured data
// directory. Every command opens and closes its own context.
func openService() (*service.Service, error) {
	svc, err := service.Open(resolvedDataDir(), service.WithLogger(appLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return svc, nil
}
