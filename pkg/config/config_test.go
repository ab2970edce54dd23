package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
	t.Setenv("INFRAFLOW_CONFIG_PATH", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INFRAFLOW_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "InfraFlow AI", cfg.AppName)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, int64(104857600), cfg.MaxUploadSize)
	assert.Equal(t, []string{"pdf", "docx", "xls", "xlsx"}, cfg.AllowedFileTypes)
	assert.Equal(t, time.Second, cfg.UploadSimulatedDelay)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, SourceDefault, cfg.Source("app_name"))
	assert.NoError(t, cfg.Validate())

	for _, name := range attributeNames() {
		if _, set := os.LookupEnv(envPrefix + strings.ToUpper(name)); set {
			continue
		}
		assert.Equal(t, SourceDefault, cfg.Source(name), name)
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	writeConfig(t, `
app_name: Pipeline Desk
rate_limit_per_minute: 30
audit_enabled: false
upload_simulated_delay: 250ms
allowed_origins:
  - https://app.infraflow.example
`)
	t.Setenv("INFRAFLOW_RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("INFRAFLOW_ALLOWED_FILE_TYPES", "pdf,csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Pipeline Desk", cfg.AppName)
	assert.Equal(t, SourceFile, cfg.Source("app_name"))

	assert.False(t, cfg.AuditEnabled)
	assert.Equal(t, SourceFile, cfg.Source("audit_enabled"))

	assert.Equal(t, 250*time.Millisecond, cfg.UploadSimulatedDelay)
	assert.Equal(t, []string{"https://app.infraflow.example"}, cfg.AllowedOrigins)

	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, SourceEnvironment, cfg.Source("rate_limit_per_minute"))

	assert.Equal(t, []string{"pdf", "csv"}, cfg.AllowedFileTypes)
	assert.Equal(t, SourceEnvironment, cfg.Source("allowed_file_types"))

	assert.Equal(t, 1000, cfg.RateLimitPerHour)
	assert.Equal(t, SourceDefault, cfg.Source("rate_limit_per_hour"))
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	writeConfig(t, "rate_limit_per_minute: [not, a, number]\n")

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.APIPrefix = "api"
	cfg.AllowedOrigins = []string{"not a url"}
	cfg.MaxUploadSize = 0
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 errors occurred")
	assert.Contains(t, err.Error(), "api_prefix")
	assert.Contains(t, err.Error(), "allowed_origins")
	assert.Contains(t, err.Error(), "max_upload_size")
	assert.Contains(t, err.Error(), "log_level")
}

func TestAllowedChecks(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.IsAllowedOrigin("http://localhost:3000"))
	assert.False(t, cfg.IsAllowedOrigin("https://evil.example"))
	cfg.AllowedOrigins = []string{"*"}
	assert.True(t, cfg.IsAllowedOrigin("https://evil.example"))

	assert.True(t, cfg.IsAllowedFileType(".PDF"))
	assert.True(t, cfg.IsAllowedFileType("xlsx"))
	assert.False(t, cfg.IsAllowedFileType(".exe"))

	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.7"}
	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.7"))
	assert.False(t, cfg.IsTrustedProxy("192.168.1.8"))
	assert.False(t, cfg.IsTrustedProxy("garbage"))
}

func TestFormatJSON(t *testing.T) {
	cfg := Default()
	out, err := cfg.FormatJSON()
	require.NoError(t, err)

	var decoded struct {
		Attributes []Attribute `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Attributes, len(attributeNames()))
	assert.Equal(t, Attribute{Name: "app_name", Value: "InfraFlow AI", Source: SourceDefault}, decoded.Attributes[0])

	assert.Contains(t, cfg.FormatText(), "monte_carlo_simulations")
}

func TestDataKey(t *testing.T) {
	t.Setenv(DataKeyEnv, "")
	key, err := DataKey()
	require.NoError(t, err)
	assert.Nil(t, key)

	t.Setenv(DataKeyEnv, "%%%")
	_, err = DataKey()
	assert.Error(t, err)
}

func startWatch(t *testing.T, path string) (<-chan *Config, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		})
	}()
	return changed, cancel, done
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := writeConfig(t, "rate_limit_per_minute: 10\n")
	path := filepath.Join(dir, ConfigFileName)

	changed, cancel, done := startWatch(t, path)
	defer cancel()

	// Keep rewriting until the watcher has been registered and notices.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(4 * reloadDelay)
	defer ticker.Stop()
	for {
		select {
		case c := <-changed:
			assert.Equal(t, 42, c.RateLimitPerMinute)
			assert.Equal(t, 42, Get().RateLimitPerMinute)
			cancel()
			require.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("rate_limit_per_minute: 42\n"), 0o600))
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestWatchIgnoresTruncatedFile(t *testing.T) {
	dir := writeConfig(t, "rate_limit_per_minute: 10\n")
	path := filepath.Join(dir, ConfigFileName)

	changed, cancel, done := startWatch(t, path)
	defer cancel()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(4 * reloadDelay)
	defer ticker.Stop()
	for {
		select {
		case c := <-changed:
			// Defaults would be 60; an empty read must never be applied.
			assert.Equal(t, 42, c.RateLimitPerMinute)
			cancel()
			require.NoError(t, <-done)
			return
		case <-ticker.C:
			// Truncate, then write, the way editors and os.WriteFile do.
			require.NoError(t, os.WriteFile(path, nil, 0o600))
			require.NoError(t, os.WriteFile(path, []byte("rate_limit_per_minute: 42\n"), 0o600))
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestWatchSkipsEmptyFile(t *testing.T) {
	dir := writeConfig(t, "rate_limit_per_minute: 10\n")
	path := filepath.Join(dir, ConfigFileName)

	changed, cancel, done := startWatch(t, path)
	defer cancel()

	// Give the watcher time to register, then empty the file.
	time.Sleep(2 * reloadDelay)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	select {
	case c := <-changed:
		t.Fatalf("empty file was applied: rate_limit_per_minute=%d", c.RateLimitPerMinute)
	case <-time.After(4 * reloadDelay):
	}
	cancel()
	require.NoError(t, <-done)
}
