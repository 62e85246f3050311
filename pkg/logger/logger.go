package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithOrgID adds organization ID to logger context
func (l *Logger) WithOrgID(orgID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("org_id", orgID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Inventory logging methods

// LogHoldPlaced logs when an allocation hold is placed
func (l *Logger) LogHoldPlaced(ctx context.Context, orgID, bookingRef string, nights, quantity int) {
	l.Logger.InfoContext(ctx,
		"Allocation Hold Placed",
		slog.String("org_id", orgID),
		slog.String("booking_ref", bookingRef),
		slog.Int("nights", nights),
		slog.Int("quantity", quantity),
	)
}

// LogHoldCommitted logs when a hold converts to a confirmed booking
func (l *Logger) LogHoldCommitted(ctx context.Context, orgID, bookingRef string) {
	l.Logger.InfoContext(ctx,
		"Allocation Hold Committed",
		slog.String("org_id", orgID),
		slog.String("booking_ref", bookingRef),
	)
}

// LogHoldReleased logs when a hold is released back to inventory
func (l *Logger) LogHoldReleased(ctx context.Context, orgID, bookingRef, reason string) {
	l.Logger.InfoContext(ctx,
		"Allocation Hold Released",
		slog.String("org_id", orgID),
		slog.String("booking_ref", bookingRef),
		slog.String("reason", reason),
	)
}

// LogSweepCompleted logs the result of an expiry sweep run
func (l *Logger) LogSweepCompleted(ctx context.Context, released int, duration time.Duration) {
	l.Logger.InfoContext(ctx,
		"Expired Holds Swept",
		slog.Int("released", released),
		slog.Duration("duration", duration),
	)
}

// LogSearch logs an availability search
func (l *Logger) LogSearch(ctx context.Context, orgID string, results int, cacheHit bool, duration time.Duration) {
	l.Logger.InfoContext(ctx,
		"Availability Search",
		slog.String("org_id", orgID),
		slog.Int("results", results),
		slog.Bool("cache_hit", cacheHit),
		slog.Duration("duration", duration),
	)
}

// Security logging methods

// LogAuthSuccess logs successful authentication
func (l *Logger) LogAuthSuccess(ctx context.Context, userID, method string) {
	l.Logger.InfoContext(ctx,
		"Authentication Success",
		slog.String("user_id", userID),
		slog.String("method", method),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// WarnWithContext logs a warning message with context
func (l *Logger) WarnWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.WarnContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
