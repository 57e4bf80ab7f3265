package users

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentity binds the sanitized identity projection to the given request
// context. Each request must derive its own binding; a context value cannot
// be observed by, or leak into, any other in-flight request.
func WithIdentity(ctx context.Context, identity *CurrentUser) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext returns the identity bound to ctx, or ErrNoIdentity
// when authentication never ran for this request.
func IdentityFromContext(ctx context.Context) (*CurrentUser, error) {
	identity, ok := ctx.Value(identityCtxKey).(*CurrentUser)
	if !ok || identity == nil {
		return nil, ErrNoIdentity
	}
	return identity, nil
}

// HasIdentity reports whether ctx carries an authenticated identity.
func HasIdentity(ctx context.Context) bool {
	_, err := IdentityFromContext(ctx)
	return err == nil
}
