package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/auth"
	"github.com/infraflow-ai/infraflow/pkg/cipher"
	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/db"
	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/endpoints"
	"github.com/infraflow-ai/infraflow/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the InfraFlow API server",
	Long: `Run the InfraFlow API server.

The server requires DATABASE_URL and INFRAFLOW_SECRET_KEY. When
INFRAFLOW_DATA_KEY is set, stakeholder contact details are encrypted at rest.

By default, database migrations are run on startup. Use --no-migrate to skip.
Changes to infraflow.yml are picked up while the server runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		if err := runServer(host, port, !noMigrate); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(host, port string, migrateFirst bool) error {
	// Fail fast on configuration before touching the database.
	cfg, err := config.Reload()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.Set(logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))
	log := logging.Component("infraflowctl")

	dbURL, err := config.DatabaseURL()
	if err != nil {
		return err
	}
	secret, err := config.SecretKey()
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(secret, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("bad %s: %w", config.SecretKeyEnv, err)
	}
	dataCipher, err := loadCipher()
	if err != nil {
		return err
	}
	if dataCipher == nil {
		log.Warn().Msgf("%s is not set, stakeholder contacts are stored in plain text", config.DataKeyEnv)
	}

	if migrateFirst {
		log.Info().Msg("running database migrations")
		if err := runMigrations(dbURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{URL: dbURL, Cipher: dataCipher, LogLevel: cfg.LogLevel})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:        cfg.TelemetryEnabled,
		Endpoint:       config.OTLPEndpoint(),
		ServiceName:    cfg.AppName,
		ServiceVersion: cfg.AppVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	s := server.NewServer(cfg, database, issuer, host, port)
	audit.SetStore(s.AuditLog)
	audit.SetEnabled(cfg.AuditEnabled)
	endpoints.RegisterAll(s)

	go func() {
		if err := config.Watch(ctx, cfg.ConfigFilePath(), s.ApplyConfig); err != nil {
			log.Debug().Err(err).Msg("config hot reload disabled")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Msgf("running server at http://%s:%s", host, port)
	return s.Start()
}

// loadCipher returns nil when no data key is configured.
func loadCipher() (cipher.Cipher, error) {
	key, err := config.DataKey()
	if err != nil || key == nil {
		return nil, err
	}
	c, err := cipher.NewSymmetric(key)
	if err != nil {
		return nil, fmt.Errorf("unable to initiate cipher: %w", err)
	}
	return c, nil
}
