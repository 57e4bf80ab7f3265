// Package users is the authentication and authorization core of a
// multi-tenant user directory.
//
// Request flow:
//   - A bearer token is validated by the TokenService (shared-secret HMAC,
//     explicit expiry and subject checks). All token failures collapse into
//     ErrUnauthenticated so callers cannot distinguish a bad signature from
//     an expired token or an unknown subject.
//   - Authenticator re-fetches the live user record for the token subject;
//     the role snapshot embedded in the token is never used for
//     authorization decisions. The sanitized CurrentUser projection is bound
//     to the request context with WithIdentity.
//   - Guard consults an explicit operation-name to required-role-set policy
//     table before each protected Directory operation. The escalation guard
//     (CanAssignRoles) additionally prevents managers from granting admin.
//   - Directory implements the business operations: lookups, filtered and
//     paginated listings, creation with email uniqueness, role-aware
//     updates, credential changes, and password-reset issuance.
//
// Identity state is carried exclusively through context values, so
// concurrent requests never observe each other's identity and nothing
// survives the request that created it.
package users
