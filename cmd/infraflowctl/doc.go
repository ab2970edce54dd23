// Command infraflowctl runs and administers the InfraFlow infrastructure
// finance service.
//
// # Quick Start
//
//	# Generate a data key for stakeholder contact encryption
//	export INFRAFLOW_DATA_KEY="$(infraflowctl data-key generate)"
//	export INFRAFLOW_SECRET_KEY="<at least 32 bytes>"
//	export DATABASE_URL=postgres://infraflow@localhost/infraflow?sslmode=disable
//
//	# Create the schema
//	infraflowctl db migrate
//
//	# Seed projects and start the server
//	infraflowctl project import projects.yml
//	infraflowctl server
//
//	# Issue a token for the API
//	infraflowctl token issue --user analyst-1 --email analyst@example.org
//
// # Environment Variables
//
//   - DATABASE_URL: postgres:// or sqlite:// connection string
//   - INFRAFLOW_SECRET_KEY: HMAC key for access tokens
//   - INFRAFLOW_DATA_KEY: base64 256-bit key for at-rest encryption (optional)
//   - INFRAFLOW_CONFIG_PATH: directory holding infraflow.yml
//   - OTEL_EXPORTER_OTLP_ENDPOINT: trace collector, used when telemetry_enabled is set
//   - PORT, BIND_ADDRESS: server listen defaults
//
// Every infraflow.yml key can also be set as an INFRAFLOW_* variable; run
// "infraflowctl configuration show" to see the effective values.
package main
