package users

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Authenticator resolves bearer tokens to live directory identities and
// binds them to the request context.
type Authenticator struct {
	validator TokenValidator
	store     Users
	activity  ActivitySink
	logger    Logger
}

// NewAuthenticator returns a new Authenticator.
func NewAuthenticator(validator TokenValidator, store Users) *Authenticator {
	return &Authenticator{
		validator: validator,
		store:     store,
		activity:  noopActivitySink{},
		logger:    defLogger{},
	}
}

func (a *Authenticator) WithActivitySink(sink ActivitySink) *Authenticator {
	a.activity = normalizeActivitySink(sink)
	return a
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Authenticate validates the raw token, re-fetches the live user record for
// its subject, and returns a child context carrying the sanitized
// projection. Live roles are authoritative: the role snapshot inside the
// token is never consulted for authorization, so a role downgrade takes
// effect on the next request even for tokens issued before it.
//
// A valid token whose subject no longer exists fails exactly like an
// invalid token.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (context.Context, *CurrentUser, error) {
	claims, err := a.validator.Validate(rawToken)
	if err != nil {
		a.recordFailure(ctx, "token rejected")
		return ctx, nil, err
	}

	user, err := a.store.GetByID(ctx, claims.UserID())
	if err != nil {
		if goerrors.IsNotFound(err) {
			a.logger.Warn("token subject does not resolve to an account", "subject", claims.UserID())
			a.recordFailure(ctx, "subject not found")
			return ctx, nil, unauthenticated("token subject not found")
		}
		return ctx, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve token subject")
	}

	identity := NewCurrentUser(user)

	if err := a.activity.Record(ctx, newActivityEvent(ActivityEventAuthSuccess, identity.ID, identity.ID, nil)); err != nil {
		a.logger.Warn("activity sink rejected event", "event_type", ActivityEventAuthSuccess, "error", err)
	}

	return WithIdentity(ctx, identity), identity, nil
}

func (a *Authenticator) recordFailure(ctx context.Context, reason string) {
	event := newActivityEvent(ActivityEventAuthFailure, uuid.Nil, uuid.Nil, map[string]any{
		"reason": reason,
	})
	if err := a.activity.Record(ctx, event); err != nil {
		a.logger.Warn("activity sink rejected event", "event_type", event.EventType, "error", err)
	}
}
