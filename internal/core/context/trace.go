package context

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceContext holds the ids echoed to clients and attached to log lines.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// WithTrace stores t in ctx.
func WithTrace(ctx context.Context, t *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, t)
}

// GetTrace returns the TraceContext of ctx, nil when absent.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns the request id of ctx or "".
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// TraceFromSpan builds the ids of a request. A client-supplied trace id wins,
// then the span's own trace id; a uuid is generated when neither exists.
func TraceFromSpan(sc trace.SpanContext, traceID, requestID string) *TraceContext {
	t := &TraceContext{TraceID: traceID, RequestID: requestID}
	if sc.IsValid() {
		if t.TraceID == "" {
			t.TraceID = sc.TraceID().String()
		}
		t.SpanID = sc.SpanID().String()
	}
	if t.TraceID == "" {
		t.TraceID = uuid.NewString()
	}
	if t.RequestID == "" {
		t.RequestID = uuid.NewString()
	}
	return t
}
