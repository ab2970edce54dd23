// Package gorm implements the store interfaces on GORM, for both the
// postgres and SQLite backends.
package gorm
