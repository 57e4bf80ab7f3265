package users_test

import (
	"context"
	"database/sql"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	users "github.com/goliatone/go-users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

var errStoreNotFound = goerrors.New("record not found", goerrors.CategoryNotFound)

// MockUsers implements users.Users
type MockUsers struct {
	mock.Mock
}

func userArg(args mock.Arguments, index int) *users.User {
	if v, ok := args.Get(index).(*users.User); ok {
		return v
	}
	return nil
}

func (m *MockUsers) GetByID(ctx context.Context, id string) (*users.User, error) {
	args := m.Called(ctx, id)
	return userArg(args, 0), args.Error(1)
}

func (m *MockUsers) GetByIdentifier(ctx context.Context, identifier string) (*users.User, error) {
	args := m.Called(ctx, identifier)
	return userArg(args, 0), args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	return userArg(args, 0), args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*users.User, error) {
	args := m.Called(ctx, tx, email)
	return userArg(args, 0), args.Error(1)
}

func (m *MockUsers) List(ctx context.Context, findArgs users.UserFindArgs, excludeID uuid.UUID) ([]users.UserListItem, int, error) {
	args := m.Called(ctx, findArgs, excludeID)
	items, _ := args.Get(0).([]users.UserListItem)
	return items, args.Int(1), args.Error(2)
}

func (m *MockUsers) Create(ctx context.Context, record *users.User) (*users.User, error) {
	args := m.Called(ctx, record)
	return userArg(args, 0), args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *users.User) (*users.User, error) {
	args := m.Called(ctx, tx, record)
	if rf, ok := args.Get(0).(func(context.Context, bun.IDB, *users.User) *users.User); ok {
		return rf(ctx, tx, record), args.Error(1)
	}
	return userArg(args, 0), args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, record *users.User, columns ...string) (*users.User, error) {
	args := m.Called(ctx, record, columns)
	return userArg(args, 0), args.Error(1)
}

func (m *MockUsers) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeRepoManager satisfies users.RepositoryManager over a mock store.
// RunInTx invokes the callback directly; the mocks ignore the tx handle.
type fakeRepoManager struct {
	store users.Users
}

func (f *fakeRepoManager) Users() users.Users { return f.store }

func (f *fakeRepoManager) Students() repository.Repository[*users.Student] { return nil }

func (f *fakeRepoManager) Companies() repository.Repository[*users.Company] { return nil }

func (f *fakeRepoManager) Validate() error { return nil }

func (f *fakeRepoManager) MustValidate() {}

func (f *fakeRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

// capturingMailer records delivered secrets for assertions.
type capturingMailer struct {
	mu      sync.Mutex
	emails  []string
	secrets []string
}

func (c *capturingMailer) SendNewSecret(ctx context.Context, email, plaintextSecret string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emails = append(c.emails, email)
	c.secrets = append(c.secrets, plaintextSecret)
	return nil
}

func adminContext() (context.Context, *users.CurrentUser) {
	actor := &users.CurrentUser{
		ID:    uuid.New(),
		Roles: []users.UserRole{users.RoleAdmin},
	}
	return users.WithIdentity(context.Background(), actor), actor
}

func managerContext() (context.Context, *users.CurrentUser) {
	actor := &users.CurrentUser{
		ID:    uuid.New(),
		Roles: []users.UserRole{users.RoleManager},
	}
	return users.WithIdentity(context.Background(), actor), actor
}

func memberContext() (context.Context, *users.CurrentUser) {
	actor := &users.CurrentUser{
		ID:    uuid.New(),
		Roles: []users.UserRole{users.RoleUser},
	}
	return users.WithIdentity(context.Background(), actor), actor
}
