package users

import (
	"context"
	"net/mail"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the persistent store surface the directory operates on. Lookups
// return a record-not-found error (detectable with goerrors.IsNotFound) when
// no active row matches.
type Users interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	List(ctx context.Context, args UserFindArgs, excludeID uuid.UUID) ([]UserListItem, int, error)
	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	Update(ctx context.Context, record *User, columns ...string) (*User, error)
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type usersStore struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*usersStore)(nil)

// NewUsersStore returns the bun-backed Users store.
func NewUsersStore(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &usersStore{
		Repository: repo,
		db:         db,
	}
}

func (s *usersStore) GetByID(ctx context.Context, id string) (*User, error) {
	return s.getOne(ctx, s.db, "id", id)
}

func (s *usersStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.GetByEmailTx(ctx, s.db, email)
}

func (s *usersStore) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return s.getOne(ctx, tx, "email", strings.TrimSpace(email))
}

// GetByIdentifier resolves email-shaped identifiers against the email
// column and uuid-shaped ones against the primary key.
func (s *usersStore) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	identifier = strings.TrimSpace(identifier)

	column := "id"
	if _, err := mail.ParseAddress(identifier); err == nil {
		column = "email"
	} else if _, err := uuid.Parse(identifier); err != nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"identifier": identifier})
	}

	return s.getOne(ctx, s.db, column, identifier)
}

func (s *usersStore) getOne(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Relation("Student").
		Relation("Company").
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{column: value})
		}
		return nil, err
	}

	return record, nil
}

// List builds the filtered, sorted, paginated listing. The requesting
// identity is always excluded, the text filter matches a case-insensitive
// substring of name+email, and the count reflects all matches before
// pagination.
func (s *usersStore) List(ctx context.Context, args UserFindArgs, excludeID uuid.UUID) ([]UserListItem, int, error) {
	args = args.normalized()
	items := []UserListItem{}

	q := s.db.NewSelect().
		Model((*User)(nil)).
		Column("id", "full_name", "email", "roles", "is_active", "created_at").
		Where("?TableAlias.id != ?", excludeID.String())

	if args.Q != "" {
		q = q.Where("lower(?TableAlias.full_name || ?TableAlias.email) LIKE lower(?)", "%"+args.Q+"%")
	}

	if args.Role != "" {
		// roles persist as a JSON-encoded array; match the quoted token.
		q = q.Where("?TableAlias.roles LIKE ?", `%"`+args.Role+`"%`)
	}

	if args.IsActive != nil {
		q = q.Where("?TableAlias.is_active = ?", *args.IsActive)
	}

	if args.Order == OrderCreatedAtASC {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}

	count, err := q.
		Limit(args.Limit).
		Offset(args.Offset).
		ScanAndCount(ctx, &items)
	if err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (s *usersStore) Create(ctx context.Context, record *User) (*User, error) {
	return s.CreateTx(ctx, s.db, record)
}

// CreateTx inserts a new user. The email uniqueness constraint lives in the
// store, so a concurrent insert that wins the race surfaces here as
// ErrEmailTaken rather than a generic failure.
func (s *usersStore) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)

	created, err := s.Repository.CreateTx(ctx, tx, record)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return created, nil
}

// Update persists the given columns of record, identified by primary key.
// With no explicit columns, all non-zero fields are written.
func (s *usersStore) Update(ctx context.Context, record *User, columns ...string) (*User, error) {
	q := s.db.NewUpdate().
		Model(record).
		WherePK()

	if len(columns) > 0 {
		q = q.Column(columns...)
	} else {
		q = q.OmitZero()
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": record.ID.String()})
	}

	return record, nil
}

func (s *usersStore) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	record := &User{ID: id, PasswordHash: passwordHash}

	res, err := s.db.NewUpdate().
		Model(record).
		Column("password_hash").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

// Delete removes the user. Deleting an id that does not exist is a no-op,
// not an error.
func (s *usersStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.EnsureRoles()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
