package obs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID tags ctx with a fresh submission id unless it already has one
func WithRequestID(ctx context.Context) context.Context {
	if _, ok := ctx.Value(RequestIDKey).(string); ok {
		return ctx
	}
	return context.WithValue(ctx, RequestIDKey, uuid.NewString())
}

// RequestID returns the id stored by WithRequestID, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation; call the result with the operation's error
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
