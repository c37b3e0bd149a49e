// Package observability provides logging, metrics and tracing for
// assertion chains.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds evaluation context to a logger.
// Returns a new logger with evaluation_id and subject fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, evalID, "userID")
//	enriched.Debug("scope pushed") // includes evaluation_id, subject
func EnrichLogger(logger *slog.Logger, evaluationID, subject string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("evaluation_id", evaluationID),
		slog.String("subject", subject),
	)
}

// LogCheckPassed logs a settled chain that succeeded.
func LogCheckPassed(logger *slog.Logger, durationMs float64, operations int) {
	if logger == nil {
		return
	}
	logger.Debug("check passed",
		slog.Float64("duration_ms", durationMs),
		slog.Int("operations", operations),
	)
}

// LogCheckFailed logs a settled chain that failed.
func LogCheckFailed(logger *slog.Logger, errorName, message string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("check failed",
		slog.String("error_name", errorName),
		slog.String("message", message),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSlowCheck logs a chain that took longer than the configured threshold.
func LogSlowCheck(logger *slog.Logger, durationMs float64, threshold time.Duration) {
	if logger == nil {
		return
	}
	logger.Warn("slow check",
		slog.Float64("duration_ms", durationMs),
		slog.Duration("threshold", threshold),
	)
}

// LogScope logs a scope transition on the expression stack.
// action is one of "push", "pop", "force_pop" or "auto_pop".
func LogScope(logger *slog.Logger, action, scope string, depth int) {
	if logger == nil {
		return
	}
	logger.Debug("scope "+action,
		slog.String("scope", scope),
		slog.Int("depth", depth),
	)
}

// LogAbort logs an evaluation cut short by an unsatisfiable precondition.
func LogAbort(logger *slog.Logger, operation string, fromDepth, toDepth int) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation aborted",
		slog.String("operation", operation),
		slog.Int("from_depth", fromDepth),
		slog.Int("to_depth", toDepth),
	)
}

// LogStructuralError logs a malformed chain or assertion implementation.
func LogStructuralError(logger *slog.Logger, operation string, err error) {
	if logger == nil {
		return
	}
	logger.Error("structural error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// LogJournalError logs a failure journal write that failed (non-fatal).
func LogJournalError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal write failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
