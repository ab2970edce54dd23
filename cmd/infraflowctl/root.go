package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "infraflowctl",
	Short: "Run and administer the InfraFlow service",
	Long: `Run and administer the InfraFlow infrastructure finance service.

Use "infraflowctl server" to start the API and the other commands to manage
its database, configuration, tokens and project data.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		logging.Set(logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))
	},
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// requireSubcommand is the Run of command groups such as "db".
func requireSubcommand(cmd *cobra.Command, args []string) {
	cmd.PrintErrf("error: Command '%s' requires a subcommand\n\n", cmd.Name())
	_ = cmd.Help()
	os.Exit(1)
}
