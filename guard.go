package users

import (
	"context"
	"sync"
)

// Operation names for the built-in directory surface. Protected operations
// look up their required role set by name before executing.
const (
	OpListUsers      = "user.list"
	OpCreateUser     = "user.create"
	OpUpdateUser     = "user.update"
	OpDeleteUser     = "user.delete"
	OpChangePassword = "user.change_password"
	OpUpdateProfile  = "user.update_profile"
	OpConfirmUser    = "user.confirm"
)

// Guard makes allow/deny decisions for protected operations. Role
// requirements are registered per operation name in an explicit policy
// table consulted by Authorize, replacing annotation-driven metadata.
// An empty (or missing) role set means any authenticated identity passes.
//
// Guards are safe for concurrent use; registration normally happens once
// during wiring.
type Guard struct {
	mu       sync.RWMutex
	policies map[string][]UserRole
	logger   Logger
}

// NewGuard returns an empty Guard.
func NewGuard() *Guard {
	return &Guard{
		policies: map[string][]UserRole{},
		logger:   defLogger{},
	}
}

// DefaultGuard returns a Guard preloaded with the stock directory policies:
// listing, creation, and updates take admin or manager; deletion and
// confirmation take admin; self-service operations only require an
// authenticated identity.
func DefaultGuard() *Guard {
	return NewGuard().
		Register(OpListUsers, RoleAdmin, RoleManager).
		Register(OpCreateUser, RoleAdmin, RoleManager).
		Register(OpUpdateUser, RoleAdmin, RoleManager).
		Register(OpDeleteUser, RoleAdmin).
		Register(OpConfirmUser, RoleAdmin).
		Register(OpChangePassword).
		Register(OpUpdateProfile)
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Register declares the required role set for an operation. Registering
// with no roles marks the operation as authenticated-only.
func (g *Guard) Register(operation string, roles ...UserRole) *Guard {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policies[operation] = append([]UserRole{}, roles...)
	return g
}

// RequiredRoles returns the registered role set for an operation.
func (g *Guard) RequiredRoles(operation string) ([]UserRole, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	roles, ok := g.policies[operation]
	return roles, ok
}

// Authorize checks the identity bound to ctx against the operation's
// policy and returns it on success. A missing identity fails as
// unauthenticated; an identity whose role set does not intersect the
// required set fails with ErrForbidden.
func (g *Guard) Authorize(ctx context.Context, operation string) (*CurrentUser, error) {
	identity, err := IdentityFromContext(ctx)
	if err != nil {
		return nil, unauthenticated("no identity bound to request context")
	}

	required, _ := g.RequiredRoles(operation)
	if len(required) == 0 {
		return identity, nil
	}

	for _, role := range required {
		if identity.HasRole(role) {
			return identity, nil
		}
	}

	g.logger.Warn("authorization denied",
		"operation", operation,
		"actor_id", identity.ID,
		"required", required,
	)

	return nil, forbidden("role set does not intersect required roles", map[string]any{
		"operation": operation,
		"required":  required,
	})
}

// CanAssignRoles enforces the escalation guard on role mutations: a manager
// may not grant admin to any account. The check runs against the acting
// identity's live context roles, not against the target or any token
// snapshot. Admin actors pass unconditionally; an empty target role set is
// not a role mutation and always passes.
func CanAssignRoles(actor *CurrentUser, target []UserRole) error {
	if len(target) == 0 {
		return nil
	}

	if actor == nil {
		return ErrNoIdentity
	}

	if actor.HasRole(RoleAdmin) {
		return nil
	}

	if actor.HasRole(RoleManager) && rolesContain(target, RoleAdmin) {
		return forbidden("managers cannot grant the admin role", map[string]any{
			"actor_id": actor.ID,
			"target":   target,
		})
	}

	return nil
}
