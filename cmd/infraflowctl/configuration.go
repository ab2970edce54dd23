package main

import (
	"github.com/spf13/cobra"
)

var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Manage InfraFlow configuration",
	Long:  `Inspect and validate the InfraFlow configuration.`,
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(configurationCmd)
}
