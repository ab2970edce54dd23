package integration

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/auth"
	"github.com/infraflow-ai/infraflow/pkg/cipher"
	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/db"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/endpoints"
)

const secretKey = "integration-secret-key-0123456789abcdef"

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	DataKey       []byte
	Issuer        *auth.Issuer
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *httptest.Server
}

// NewTestContext creates a new test context with a PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set INFRAFLOW_BINARY to the path of the infraflowctl binary
//   - Inline mode: Set INFRAFLOW_INLINE=1 to run the server in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("INFRAFLOW_INLINE") == "1"
	binaryPath := os.Getenv("INFRAFLOW_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either INFRAFLOW_BINARY or INFRAFLOW_INLINE=1 is required.\n\nBinary mode:\n  go build -o infraflowctl ./cmd/infraflowctl\n  INTEGRATION_TEST=1 INFRAFLOW_BINARY=$(pwd)/infraflowctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 INFRAFLOW_INLINE=1 go test -v ./test/integration/...")
	}
	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("INFRAFLOW_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("infraflow_test"),
		tcpostgres.WithUsername("infraflow"),
		tcpostgres.WithPassword("infraflow"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(migrationsDir, connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dataKey := make([]byte, 32)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	dataCipher, err := cipher.NewSymmetric(dataKey)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// The cipher rides on the connection so test assertions read plaintext.
	database, err := db.Connect(db.Config{URL: connStr, Cipher: dataCipher})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	issuer, err := auth.NewIssuer([]byte(secretKey), time.Hour)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		DB:          database,
		Container:   pgContainer,
		DatabaseURL: connStr,
		DataKey:     dataKey,
		Issuer:      issuer,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}

	if inlineMode {
		tc.InlineServer = startInlineServer(database, issuer)
		tc.ServerURL = tc.InlineServer.URL
		tc.Cancel = tc.InlineServer.Close
	} else {
		serverPort := "18080"
		tc.ServerURL = "http://127.0.0.1:" + serverPort
		tc.ServerProcess, tc.Cancel, err = startBinary(binaryPath, connStr, dataKey, serverPort)
		if err != nil {
			_ = pgContainer.Terminate(ctx)
			return nil, fmt.Errorf("failed to start server binary: %w", err)
		}
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return tc, nil
}

// startInlineServer serves the full handler chain in-process.
func startInlineServer(database *gorm.DB, issuer *auth.Issuer) *httptest.Server {
	cfg := config.Default()
	cfg.RateLimitPerMinute = 0
	cfg.RateLimitPerHour = 0
	cfg.UploadSimulatedDelay = 0
	cfg.MonteCarloSimulations = 500
	config.Set(cfg)

	s := server.NewServer(cfg, database, issuer, "127.0.0.1", "0")
	audit.SetStore(s.AuditLog)
	endpoints.RegisterAll(s)
	return httptest.NewServer(s.Handler())
}

// startBinary starts the infraflowctl server binary
func startBinary(binaryPath, dbURL string, dataKey []byte, port string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Migrations already ran in the test setup.
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"INFRAFLOW_DATA_KEY="+base64.StdEncoding.EncodeToString(dataKey),
		"INFRAFLOW_SECRET_KEY="+secretKey,
		"INFRAFLOW_RATE_LIMIT_PER_MINUTE=0",
		"INFRAFLOW_RATE_LIMIT_PER_HOUR=0",
		"INFRAFLOW_UPLOAD_SIMULATED_DELAY=0s",
		"INFRAFLOW_MONTE_CARLO_SIMULATIONS=500",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}
	return cmd, cancel, nil
}

// waitForServer polls /health until the server and its database are up.
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// schemaTables lists every table the migrations create, children first.
var schemaTables = []string{
	"audit_log", "reports", "stakeholders", "risk_assessments",
	"compliance_checks", "financial_models", "documents", "projects",
}

// CheckSchema fails when a migration left a table missing.
func (tc *TestContext) CheckSchema() error {
	for _, table := range schemaTables {
		if !tc.DB.Migrator().HasTable(table) {
			return fmt.Errorf("table %s missing after migrations", table)
		}
	}
	return nil
}

// Reset empties every table so each scenario starts from a clean database.
func (tc *TestContext) Reset(ctx context.Context) error {
	stmt := "TRUNCATE TABLE "
	for i, table := range schemaTables {
		if i > 0 {
			stmt += ", "
		}
		stmt += table
	}
	return tc.DB.WithContext(ctx).Exec(stmt + " CASCADE").Error
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
