// Package history persists an append-only record of runs and per-file
// outcomes in a SQLite database, so past decisions stay inspectable after
// the terminal output is gone.
package history
