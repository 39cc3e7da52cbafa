package monitoring

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger provides structured JSON logging with domain-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to stdout.
func NewLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs one completed HTTP request.
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("http request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// AnalysisLogger logs one completed content analysis.
func (l *Logger) AnalysisLogger(reportID, url string, overall float64, markupBytes int, duration time.Duration, cacheHit bool) {
	l.Info("analysis completed",
		"report_id", reportID,
		"url", url,
		"overall", overall,
		"markup_bytes", markupBytes,
		"duration_ms", duration.Milliseconds(),
		"cache_hit", cacheHit,
	)
}

// ExternalAPILogger logs calls to the visibility collaborator.
func (l *Logger) ExternalAPILogger(apiName, endpoint string, statusCode int, duration time.Duration, success bool) {
	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}

	l.Log(context.Background(), level, "external api call",
		"api_name", apiName,
		"endpoint", endpoint,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"success", success,
	)
}

// CacheLogger logs report cache operations at debug level.
func (l *Logger) CacheLogger(operation, key string, hit bool, itemCount int) {
	display := key
	if len(display) > 8 {
		display = display[:8] + "..."
	}
	l.Debug("cache operation",
		"operation", operation,
		"key", display,
		"hit", hit,
		"cache_size", itemCount,
	)
}

// SystemLogger logs lifecycle events such as startup and shutdown.
func (l *Logger) SystemLogger(event, details string) {
	l.Info("system event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

var startTime = time.Now()
