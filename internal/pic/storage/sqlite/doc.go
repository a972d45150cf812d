// Package sqlite persists beamlet analysis runs in SQLite.
//
// The schema lives in embedded golang-migrate migrations and is applied by
// Open. Stores take a *sql.DB so tests can open throwaway databases.
package sqlite
