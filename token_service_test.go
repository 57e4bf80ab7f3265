package users_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	users "github.com/goliatone/go-users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

func newTestTokenService() *users.TokenServiceImpl {
	return users.NewTokenService(testSigningKey, 24, "test-issuer", jwt.ClaimStrings{"test-audience"}, nil)
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	service := newTestTokenService()

	user := &users.User{
		ID:    uuid.New(),
		Email: "a@x.com",
		Roles: []users.UserRole{users.RoleUser, users.RoleManager},
	}

	token, err := service.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.Subject())
	assert.Equal(t, user.ID.String(), claims.UserID())
	assert.Equal(t, "a@x.com", claims.Email())
	assert.Equal(t, []users.UserRole{users.RoleUser, users.RoleManager}, claims.Roles())
	assert.True(t, claims.HasRole(users.RoleManager))
	assert.False(t, claims.HasRole(users.RoleAdmin))
	assert.False(t, claims.Expires().IsZero())
	assert.False(t, claims.IssuedAt().IsZero())
}

func TestTokenService_ValidateFailures(t *testing.T) {
	service := newTestTokenService()

	user := &users.User{ID: uuid.New(), Email: "a@x.com", Roles: []users.UserRole{users.RoleUser}}

	t.Run("expired token fails even with a valid signature", func(t *testing.T) {
		past := users.NewTokenService(testSigningKey, 1, "test-issuer", nil, nil).
			WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })

		token, err := past.Generate(user)
		require.NoError(t, err)

		claims, err := service.Validate(token)
		assert.ErrorIs(t, err, users.ErrUnauthenticated)
		assert.Nil(t, claims)
	})

	t.Run("token signed with a different key fails", func(t *testing.T) {
		other := users.NewTokenService([]byte("other-key"), 24, "test-issuer", nil, nil)

		token, err := other.Generate(user)
		require.NoError(t, err)

		claims, err := service.Validate(token)
		assert.ErrorIs(t, err, users.ErrUnauthenticated)
		assert.Nil(t, claims)
	})

	t.Run("token without a subject fails", func(t *testing.T) {
		token, err := service.SignClaims(&users.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		require.NoError(t, err)

		claims, err := service.Validate(token)
		assert.ErrorIs(t, err, users.ErrUnauthenticated)
		assert.Nil(t, claims)
	})

	t.Run("garbage input fails", func(t *testing.T) {
		claims, err := service.Validate("not-a-token")
		assert.ErrorIs(t, err, users.ErrUnauthenticated)
		assert.Nil(t, claims)
	})

	t.Run("empty input fails", func(t *testing.T) {
		claims, err := service.Validate("")
		assert.ErrorIs(t, err, users.ErrUnauthenticated)
		assert.Nil(t, claims)
	})
}

// All token failure modes must collapse into the same caller-facing error
// so responses cannot be used as an oracle for account or token state.
func TestTokenService_FailureModesAreIndistinguishable(t *testing.T) {
	service := newTestTokenService()
	user := &users.User{ID: uuid.New(), Email: "a@x.com", Roles: []users.UserRole{users.RoleUser}}

	expiredSvc := users.NewTokenService(testSigningKey, 1, "test-issuer", nil, nil).
		WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	expired, err := expiredSvc.Generate(user)
	require.NoError(t, err)

	otherKey := users.NewTokenService([]byte("other-key"), 24, "test-issuer", nil, nil)
	badSignature, err := otherKey.Generate(user)
	require.NoError(t, err)

	for _, token := range []string{expired, badSignature, "garbage"} {
		_, err := service.Validate(token)
		require.ErrorIs(t, err, users.ErrUnauthenticated)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, users.ErrUnauthenticated.Message, richErr.Message)
	}
}
