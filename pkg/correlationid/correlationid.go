package correlationid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP and message header carrying the correlation ID.
const Header = "X-Correlation-ID"

type ctxKey struct{}

// New generates a new correlation ID.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewContext returns a copy of ctx carrying the correlation ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation ID stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
