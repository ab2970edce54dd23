// Package server provides the HTTP server for the InfraFlow API.
//
// NewServer wires the GORM stores, the finance engine and the compliance
// checker, and builds two routers: Public for /, /health and token-free
// routes, and API under the configured prefix, which requires a bearer token.
//
//	srv := server.NewServer(cfg, db, issuer, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	err := srv.Start()
//
// Every request passes through panic recovery, OpenTelemetry tracing, an
// Apache style access log, CORS and compression before reaching the router.
// The rate limiter runs per router, keyed by user on API routes and by
// client IP on public ones.
package server
