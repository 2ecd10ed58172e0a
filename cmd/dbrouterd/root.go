package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dbrouterd <subcommand>",
	Short: "routes database traffic across a primary/replica postgres topology",
	Long: `routes database traffic across a primary/replica postgres topology,
preserving read-after-write consistency per logical session`,
	Run: nil,
}

func init() {
	cobra.OnInitialize()
	rootCmd.PersistentFlags().StringP("config-file", "c", "", "Path to the config file (eg ./config.yaml) [Optional]")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
