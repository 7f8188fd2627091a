// Package store persists user accounts through bun so the same code runs
// against SQLite, PostgreSQL and MySQL. Schema changes ship as embedded,
// per-dialect migrations applied by Open.
package store
