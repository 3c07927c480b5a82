package logging

import "context"

type contextKey struct{}

// WithLogData attaches a LogData collector to the context so handlers and
// the sync store can record timings and fields for the request log line.
func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, contextKey{}, logData)
}

// ContextKey returns the key LogData is stored under, for adapters that
// attach values through huma.WithValue instead of context.WithValue.
func ContextKey() any {
	return contextKey{}
}

// GetLogData returns the LogData attached to the context, or nil.
func GetLogData(ctx context.Context) *LogData {
	logData, _ := ctx.Value(contextKey{}).(*LogData)
	return logData
}
