package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/infraflow"
	ConfigFileName    = "infraflow.yml"

	envPrefix = "INFRAFLOW_"
)

// Attribute sources, in increasing precedence.
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Config holds the InfraFlow service settings. Every field is both a YAML key
// in infraflow.yml and an INFRAFLOW_* environment variable.
type Config struct {
	AppName     string `yaml:"app_name" env:"INFRAFLOW_APP_NAME"`
	AppVersion  string `yaml:"app_version" env:"INFRAFLOW_APP_VERSION"`
	Environment string `yaml:"environment" env:"INFRAFLOW_ENVIRONMENT"`
	APIPrefix   string `yaml:"api_prefix" env:"INFRAFLOW_API_PREFIX"`

	// AllowedOrigins lists the CORS origins; "*" allows any.
	AllowedOrigins []string `yaml:"allowed_origins" env:"INFRAFLOW_ALLOWED_ORIGINS"`

	// TrustedProxies is a list of CIDR ranges whose X-Forwarded-For is honoured
	TrustedProxies []string `yaml:"trusted_proxies" env:"INFRAFLOW_TRUSTED_PROXIES"`

	MaxUploadSize        int64         `yaml:"max_upload_size" env:"INFRAFLOW_MAX_UPLOAD_SIZE"`
	AllowedFileTypes     []string      `yaml:"allowed_file_types" env:"INFRAFLOW_ALLOWED_FILE_TYPES"`
	UploadSimulatedDelay time.Duration `yaml:"upload_simulated_delay" env:"INFRAFLOW_UPLOAD_SIMULATED_DELAY"`

	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"INFRAFLOW_RATE_LIMIT_PER_MINUTE"`
	RateLimitPerHour   int `yaml:"rate_limit_per_hour" env:"INFRAFLOW_RATE_LIMIT_PER_HOUR"`

	JWTTTL      time.Duration `yaml:"jwt_ttl" env:"INFRAFLOW_JWT_TTL"`
	GzipMinSize int           `yaml:"gzip_min_size" env:"INFRAFLOW_GZIP_MIN_SIZE"`

	MonteCarloSimulations int `yaml:"monte_carlo_simulations" env:"INFRAFLOW_MONTE_CARLO_SIMULATIONS"`

	AuditEnabled     bool   `yaml:"audit_enabled" env:"INFRAFLOW_AUDIT_ENABLED"`
	LogLevel         string `yaml:"log_level" env:"INFRAFLOW_LOG_LEVEL"`
	LogFormat        string `yaml:"log_format" env:"INFRAFLOW_LOG_FORMAT"`
	TelemetryEnabled bool   `yaml:"telemetry_enabled" env:"INFRAFLOW_TELEMETRY_ENABLED"`

	sources        map[string]string
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it on first use. A config
// file that fails to parse falls back to defaults.
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = newDefault()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// Set replaces the global configuration.
func Set(cfg *Config) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

// Reload re-reads the file and environment and swaps the global configuration.
// The previous configuration stays in place when loading or validation fails.
func Reload() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	Set(cfg)
	return cfg, nil
}

func newDefault() *Config {
	c := &Config{
		AppName:               "InfraFlow AI",
		AppVersion:            "0.1.0",
		Environment:           "development",
		APIPrefix:             "/api/v1",
		AllowedOrigins:        []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		TrustedProxies:        []string{},
		MaxUploadSize:         100 * 1024 * 1024,
		AllowedFileTypes:      []string{"pdf", "docx", "xls", "xlsx"},
		UploadSimulatedDelay:  time.Second,
		RateLimitPerMinute:    60,
		RateLimitPerHour:      1000,
		JWTTTL:                7 * 24 * time.Hour,
		GzipMinSize:           1000,
		MonteCarloSimulations: 1000,
		AuditEnabled:          true,
		LogLevel:              "info",
		LogFormat:             "console",
		TelemetryEnabled:      false,
		sources:               make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// Default returns the built-in configuration, ignoring file and environment.
func Default() *Config {
	return newDefault()
}

// Load reads the defaults, then the config file, then INFRAFLOW_* variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	c := newDefault()

	configPath := os.Getenv("INFRAFLOW_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	c.configFilePath = filepath.Join(configPath, ConfigFileName)

	data, err := os.ReadFile(c.configFilePath)
	switch {
	case err == nil:
		if err := c.applyFile(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", c.configFilePath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file %s: %w", c.configFilePath, err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return c, nil
}

func attributeNames() []string {
	return []string{
		"app_name", "app_version", "environment", "api_prefix",
		"allowed_origins", "trusted_proxies", "max_upload_size",
		"allowed_file_types", "upload_simulated_delay",
		"rate_limit_per_minute", "rate_limit_per_hour", "jwt_ttl",
		"gzip_min_size", "monte_carlo_simulations", "audit_enabled",
		"log_level", "log_format", "telemetry_enabled",
	}
}

// applyFile decodes data on top of the current values, so keys missing from
// the file keep their defaults. Only keys present in the file change source.
func (c *Config) applyFile(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return err
	}
	for name := range keys {
		if _, known := c.sources[name]; known {
			c.sources[name] = SourceFile
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	return env.ParseWithOptions(c, env.Options{
		OnSet: func(tag string, _ any, isDefault bool) {
			// OnSet fires for every tagged field, set or not.
			if _, present := os.LookupEnv(tag); !present || isDefault {
				return
			}
			name := strings.ToLower(strings.TrimPrefix(tag, envPrefix))
			if _, known := c.sources[name]; known {
				c.sources[name] = SourceEnvironment
			}
		},
	})
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// IsAllowedOrigin reports whether origin may make cross-origin requests.
func (c *Config) IsAllowedOrigin(origin string) bool {
	return slices.Contains(c.AllowedOrigins, "*") || slices.Contains(c.AllowedOrigins, origin)
}

// IsAllowedFileType reports whether ext (with or without a leading dot) may be uploaded.
func (c *Config) IsAllowedFileType(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range c.AllowedFileTypes {
		if strings.EqualFold(strings.TrimPrefix(allowed, "."), ext) {
			return true
		}
	}
	return false
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			if cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate reports every invalid attribute at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if !strings.HasPrefix(c.APIPrefix, "/") {
		result = multierror.Append(result, fmt.Errorf("api_prefix must start with '/': %q", c.APIPrefix))
	}
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			result = multierror.Append(result, fmt.Errorf("invalid allowed_origins value: %s", origin))
		}
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil && net.ParseIP(cidr) == nil {
			result = multierror.Append(result, fmt.Errorf("invalid trusted_proxies value: %s", cidr))
		}
	}
	if c.MaxUploadSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("max_upload_size must be positive"))
	}
	if len(c.AllowedFileTypes) == 0 {
		result = multierror.Append(result, fmt.Errorf("allowed_file_types must not be empty"))
	}
	if c.UploadSimulatedDelay < 0 {
		result = multierror.Append(result, fmt.Errorf("upload_simulated_delay must not be negative"))
	}
	if c.RateLimitPerMinute < 0 || c.RateLimitPerHour < 0 {
		result = multierror.Append(result, fmt.Errorf("rate limits must not be negative"))
	}
	if c.JWTTTL <= 0 {
		result = multierror.Append(result, fmt.Errorf("jwt_ttl must be positive"))
	}
	if c.MonteCarloSimulations <= 0 || c.MonteCarloSimulations > 100000 {
		result = multierror.Append(result, fmt.Errorf("monte_carlo_simulations must be between 1 and 100000"))
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		result = multierror.Append(result, fmt.Errorf("invalid log_level: %s", c.LogLevel))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		result = multierror.Append(result, fmt.Errorf("invalid log_format: %s", c.LogFormat))
	}

	return result.ErrorOrNil()
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	attr := func(name, value string) Attribute {
		return Attribute{Name: name, Value: value, Source: c.Source(name)}
	}
	return []Attribute{
		attr("app_name", c.AppName),
		attr("app_version", c.AppVersion),
		attr("environment", c.Environment),
		attr("api_prefix", c.APIPrefix),
		attr("allowed_origins", strings.Join(c.AllowedOrigins, ",")),
		attr("trusted_proxies", strings.Join(c.TrustedProxies, ",")),
		attr("max_upload_size", strconv.FormatInt(c.MaxUploadSize, 10)),
		attr("allowed_file_types", strings.Join(c.AllowedFileTypes, ",")),
		attr("upload_simulated_delay", c.UploadSimulatedDelay.String()),
		attr("rate_limit_per_minute", strconv.Itoa(c.RateLimitPerMinute)),
		attr("rate_limit_per_hour", strconv.Itoa(c.RateLimitPerHour)),
		attr("jwt_ttl", c.JWTTTL.String()),
		attr("gzip_min_size", strconv.Itoa(c.GzipMinSize)),
		attr("monte_carlo_simulations", strconv.Itoa(c.MonteCarloSimulations)),
		attr("audit_enabled", strconv.FormatBool(c.AuditEnabled)),
		attr("log_level", c.LogLevel),
		attr("log_format", c.LogFormat),
		attr("telemetry_enabled", strconv.FormatBool(c.TelemetryEnabled)),
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Config file: %s\n\n", c.configFilePath)
	fmt.Fprintf(&sb, "%-30s %-45s %s\n", "NAME", "VALUE", "SOURCE")
	fmt.Fprintf(&sb, "%-30s %-45s %s\n", "----", "-----", "------")

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(&sb, "%-30s %-45s %s\n", attr.Name, value, attr.Source)
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]any{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
