// Package tenant resolves the business a request acts for.
package tenant

import (
	"context"

	"github.com/timmy/jobtrack/internal/apperr"
)

// Identity is the verified caller of a request.
type Identity struct {
	BusinessID int64
	Username   string
}

type identityKey struct{}

// WithIdentity attaches a verified identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity attached to ctx. It fails with an
// Unauthorized error when none is present or the business id is unset.
func FromContext(ctx context.Context) (Identity, error) {
	if ctx == nil {
		return Identity{}, apperr.Unauthorized("authentication required")
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.BusinessID <= 0 {
		return Identity{}, apperr.Unauthorized("authentication required")
	}
	return id, nil
}
