package users_test

import (
	"context"
	"testing"

	users "github.com/goliatone/go-users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Authenticate(t *testing.T) {
	service := newTestTokenService()

	t.Run("binds the sanitized live record to the context", func(t *testing.T) {
		store := &MockUsers{}
		authenticator := users.NewAuthenticator(service, store)

		record := &users.User{
			ID:           uuid.New(),
			Email:        "a@x.com",
			FullName:     "Ada Lovelace",
			PasswordHash: "$2a$10$should-never-leak",
			Roles:        []users.UserRole{users.RoleUser, users.RoleManager},
			Student:      &users.Student{FullName: "Ada Lovelace", School: "Analytical Engine U"},
		}

		token, err := service.Generate(record)
		require.NoError(t, err)

		store.On("GetByID", mock.Anything, record.ID.String()).Return(record, nil)

		ctx, identity, err := authenticator.Authenticate(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, record.ID, identity.ID)
		assert.Equal(t, "Ada Lovelace", identity.FullName)
		assert.Equal(t, []users.UserRole{users.RoleUser, users.RoleManager}, identity.Roles)
		require.NotNil(t, identity.Student)
		assert.Equal(t, "Analytical Engine U", identity.Student.School)
		assert.Nil(t, identity.Company)

		bound, err := users.IdentityFromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, identity, bound)
	})

	t.Run("live roles override the token snapshot", func(t *testing.T) {
		store := &MockUsers{}
		authenticator := users.NewAuthenticator(service, store)

		record := &users.User{
			ID:    uuid.New(),
			Email: "a@x.com",
			Roles: []users.UserRole{users.RoleUser, users.RoleAdmin},
		}

		token, err := service.Generate(record)
		require.NoError(t, err)

		// admin was revoked after the token was minted
		demoted := *record
		demoted.Roles = []users.UserRole{users.RoleUser}
		store.On("GetByID", mock.Anything, record.ID.String()).Return(&demoted, nil)

		ctx, identity, err := authenticator.Authenticate(context.Background(), token)
		require.NoError(t, err)

		assert.False(t, identity.HasRole(users.RoleAdmin))

		_, authzErr := users.DefaultGuard().Authorize(ctx, users.OpDeleteUser)
		assert.ErrorIs(t, authzErr, users.ErrForbidden)
	})

	t.Run("valid token for a deleted account fails like a bad token", func(t *testing.T) {
		store := &MockUsers{}
		authenticator := users.NewAuthenticator(service, store)

		record := &users.User{ID: uuid.New(), Email: "gone@x.com", Roles: []users.UserRole{users.RoleUser}}
		token, err := service.Generate(record)
		require.NoError(t, err)

		store.On("GetByID", mock.Anything, record.ID.String()).Return(nil, errStoreNotFound)

		_, identity, err := authenticator.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, users.ErrUnauthenticated)
		assert.Nil(t, identity)
	})

	t.Run("invalid token never touches the store", func(t *testing.T) {
		store := &MockUsers{}
		authenticator := users.NewAuthenticator(service, store)

		_, identity, err := authenticator.Authenticate(context.Background(), "garbage")
		assert.ErrorIs(t, err, users.ErrUnauthenticated)
		assert.Nil(t, identity)
		store.AssertNotCalled(t, "GetByID")
	})
}
