// Package logger provides structured logging for the application using the
// standard library log/slog package: a JSON handler at a configured level,
// and helpers that carry a request-scoped logger and trace ID on a context.
package logger
