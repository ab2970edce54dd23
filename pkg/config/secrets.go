package config

import (
	"encoding/base64"
	"fmt"
	"os"
)

// Secrets are read from the environment only and never shown by
// "configuration show".
const (
	DatabaseURLEnv  = "DATABASE_URL"
	SecretKeyEnv    = "INFRAFLOW_SECRET_KEY"
	DataKeyEnv      = "INFRAFLOW_DATA_KEY"
	OTLPEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// DatabaseURL returns DATABASE_URL or an error when it is unset.
func DatabaseURL() (string, error) {
	dbURL, ok := os.LookupEnv(DatabaseURLEnv)
	if !ok || dbURL == "" {
		return "", fmt.Errorf("%s environment variable is required", DatabaseURLEnv)
	}
	return dbURL, nil
}

// SecretKey returns the HMAC key used to sign access tokens.
func SecretKey() ([]byte, error) {
	key := os.Getenv(SecretKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%s environment variable is required", SecretKeyEnv)
	}
	return []byte(key), nil
}

// DataKey decodes INFRAFLOW_DATA_KEY. A missing key returns (nil, nil):
// at-rest encryption is then disabled.
func DataKey() ([]byte, error) {
	b64, ok := os.LookupEnv(DataKeyEnv)
	if !ok || b64 == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", DataKeyEnv, err)
	}
	return key, nil
}

func OTLPEndpoint() string {
	return os.Getenv(OTLPEndpointEnv)
}
