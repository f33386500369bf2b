package postgres

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

// redactedTraceKeys never reach the log; query arguments carry password
// hashes and personal data.
var redactedTraceKeys = map[string]struct{}{"args": {}}

// newTracer routes pgx query tracing into l. Only failures are traced unless
// l is enabled at debug level.
func newTracer(l *zap.Logger) *tracelog.TraceLog {
	level := tracelog.LogLevelWarn
	if l.Core().Enabled(zap.DebugLevel) {
		level = tracelog.LogLevelDebug
	}
	return &tracelog.TraceLog{Logger: zapTraceLogger(l.Named("pgx")), LogLevel: level}
}

func zapTraceLogger(l *zap.Logger) tracelog.LoggerFunc {
	return func(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		fields := traceFields(data)
		switch level {
		case tracelog.LogLevelError:
			l.Error(msg, fields...)
		case tracelog.LogLevelWarn:
			l.Warn(msg, fields...)
		case tracelog.LogLevelInfo:
			l.Info(msg, fields...)
		default:
			l.Debug(msg, fields...)
		}
	}
}

func traceFields(data map[string]any) []zap.Field {
	keys := make([]string, 0, len(data))
	for k := range data {
		if _, skip := redactedTraceKeys[k]; skip {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if err, ok := data[k].(error); ok {
			fields = append(fields, zap.NamedError(k, err))
			continue
		}
		fields = append(fields, zap.Any(k, data[k]))
	}
	return fields
}
