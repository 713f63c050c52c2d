// Package logging wraps log/slog construction and provides attribute
// helpers shared across checkarr components.
package logging
