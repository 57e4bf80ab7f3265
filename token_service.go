package users

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService mints and validates the bearer tokens this core accepts.
type TokenService interface {
	TokenValidator
	Generate(user *User) (string, error)
}

// TokenServiceImpl implements the TokenService interface over a shared
// HMAC secret.
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
	now             func() time.Time
}

// Verify interface compliance
var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a new TokenService instance. tokenExpiration is
// expressed in hours.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		audience:        audience,
		logger:          logger,
		now:             time.Now,
	}
}

// NewTokenServiceFromConfig builds a TokenService from an auth Config.
func NewTokenServiceFromConfig(cfg Config, logger Logger) *TokenServiceImpl {
	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)
}

// WithClock overrides the time source, used by expiry tests.
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// Generate creates a signed JWT for the given user. The claims carry a
// snapshot of email and roles for diagnostics; authorization always
// re-reads live state.
func (ts *TokenServiceImpl) Generate(user *User) (string, error) {
	if user == nil {
		return "", goerrors.New("user is required", goerrors.CategoryBadInput)
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   user.ID.String(),
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		UID:       user.ID.String(),
		UserEmail: user.Email,
		UserRoles: append([]UserRole{}, user.Roles...),
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses a token string and returns structured claims. Expiry is
// checked here explicitly against our own clock rather than delegated to
// the parser, so behavior stays deterministic regardless of any leeway the
// library applies. Every failure mode, bad signature, expired token, or a
// missing subject, collapses into ErrUnauthenticated.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		ts.logger.Debug("TokenService validate parse failure", "error", err)
		return nil, unauthenticated("token parse or signature failure")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode claims")
		return nil, unauthenticated("unable to decode claims")
	}

	if exp := claims.Expires(); !exp.IsZero() && exp.Before(ts.now()) {
		ts.logger.Debug("TokenService validate rejected expired token", "expired_at", exp)
		return nil, unauthenticated("token expired")
	}

	if claims.UserID() == "" {
		ts.logger.Debug("TokenService validate rejected token without subject")
		return nil, unauthenticated("token missing subject")
	}

	return claims, nil
}
