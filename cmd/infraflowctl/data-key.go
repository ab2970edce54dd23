package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/infraflow-ai/infraflow/pkg/cipher"
)

var dataKeyCmd = &cobra.Command{
	Use:   "data-key",
	Short: "Manage the data encryption key",
	Long:  `Manage the data encryption key`,
	Run:   requireSubcommand,
}

var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data encryption key",
	Long: `Generate a data encryption key

Use this command to generate a new Base64-encoded 256 bit data encryption
key. Once generated, this key should be placed into the environment of the
InfraFlow server. It encrypts stakeholder contact details stored in the
database.

Example:

$ export INFRAFLOW_DATA_KEY="$(infraflowctl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := generateDataKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate key:", err)
			os.Exit(1)
		}
		fmt.Print(key)
	},
}

func init() {
	rootCmd.AddCommand(dataKeyCmd)
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}

func generateDataKey() (string, error) {
	bytes, err := cipher.RandomBytes(32)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.Strict().EncodeToString(bytes), nil
}
