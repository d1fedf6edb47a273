package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"io"
	"log/slog"
	"regexp"
	"sync/atomic"
	"time"
)

// ContextKey is the type for request-scoped values set by the API layer.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader carries the trace ID in requests and responses
	TraceIDHeader = "X-Trace-ID"

	// TraceIDLength is the number of random bytes in a generated trace ID
	TraceIDLength = 16 // 32 hex characters
)

// Incoming trace IDs are accepted only when they look like ones we generate.
var traceIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{16,64}$`)

var fallbackCounter atomic.Uint32

// SetTraceID stores a trace ID in ctx. A well-formed incoming ID is reused
// so callers can correlate across services; otherwise a new one is generated.
func SetTraceID(ctx context.Context, incoming string) context.Context {
	traceID := incoming
	if !traceIDPattern.MatchString(traceID) {
		traceID = generateTraceID(rand.Reader)
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID reads TraceIDLength random bytes from src and hex encodes
// them, falling back to a time-based ID if src fails.
func generateTraceID(src io.Reader) string {
	b := make([]byte, TraceIDLength)
	n, err := io.ReadFull(src, b)
	if err != nil {
		slog.Error("failed to generate random trace ID",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(b)
}

// generateFallbackTraceID builds an ID from the clock and a process-wide
// counter, so IDs stay unique within one process.
func generateFallbackTraceID() string {
	b := make([]byte, TraceIDLength)
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], fallbackCounter.Add(1))
	binary.BigEndian.PutUint32(b[12:], uint32(time.Now().Unix()))
	return hex.EncodeToString(b)
}
