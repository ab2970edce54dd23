package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/db"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Import and inspect projects",
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}

// openDatabase connects with the configured data key, so stakeholder
// contacts are encrypted the same way the server encrypts them.
func openDatabase() (*gorm.DB, error) {
	dbURL, err := config.DatabaseURL()
	if err != nil {
		return nil, err
	}
	dataCipher, err := loadCipher()
	if err != nil {
		return nil, err
	}
	database, err := db.Connect(db.Config{URL: dbURL, Cipher: dataCipher, LogLevel: config.Get().LogLevel})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to DB: %w", err)
	}
	return database, nil
}
