package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/infraflow-ai/infraflow/pkg/config"
)

var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show InfraFlow configuration attributes and their sources",
	Long: `Show InfraFlow configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, the environment variables and the config file. A
running server picks up config file changes but not environment changes.

Secrets (DATABASE_URL, INFRAFLOW_SECRET_KEY, INFRAFLOW_DATA_KEY) are never
shown.

Config file location: /etc/infraflow/infraflow.yml (or INFRAFLOW_CONFIG_PATH)

Example:
  infraflowctl configuration show
  infraflowctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(os.Stdout, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

var configurationValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without starting the server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration is invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Configuration is valid")
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationCmd.AddCommand(configurationValidateCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(w io.Writer, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch output {
	case "json":
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, jsonOutput)
		return err
	case "text":
		_, err = fmt.Fprint(w, cfg.FormatText())
		return err
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
