package advisor

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = 1

// WithRequestID attaches a request id to ctx. An empty id is replaced by a
// fresh UUID.
func WithRequestID(ctx context.Context, rid string) context.Context {
	if rid == "" {
		rid = uuid.New().String()
	}
	return context.WithValue(ctx, requestIDKey, rid)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func ensureRequestID(ctx context.Context) (context.Context, string) {
	if rid := RequestID(ctx); rid != "" {
		return ctx, rid
	}
	ctx = WithRequestID(ctx, "")
	return ctx, RequestID(ctx)
}
