// Package config provides configuration management for InfraFlow.
//
// Values are resolved in three layers, each overriding the previous one:
//
//   - built-in defaults
//   - $INFRAFLOW_CONFIG_PATH/infraflow.yml (default /etc/infraflow)
//   - INFRAFLOW_* environment variables
//
// Every attribute remembers which layer set it, which is what
// "infraflowctl configuration show" prints.
//
// # Secrets
//
// Credentials are environment-only and are not attributes:
//
//   - DATABASE_URL: database connection (postgres:// or sqlite://)
//   - INFRAFLOW_SECRET_KEY: HMAC key for access tokens
//   - INFRAFLOW_DATA_KEY: base64 AES-256 key for encrypted columns
//   - OTEL_EXPORTER_OTLP_ENDPOINT: trace collector
package config
