// Package observability provides structured logging, Prometheus metrics, and
// health probes for the service. The logger is a thin wrapper over slog's
// JSON handler; metrics are registered on an explicit registry so tests can
// use their own.
package observability
