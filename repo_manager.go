package users

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Students() repository.Repository[*Student]
	Companies() repository.Repository[*Company]
}

// NewStudentsRepository builds the generic repository for student profiles.
func NewStudentsRepository(db *bun.DB) repository.Repository[*Student] {
	handlers := repository.ModelHandlers[*Student]{
		NewRecord: func() *Student { return &Student{} },
		GetID: func(record *Student) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Student, id uuid.UUID) {
			record.ID = id
		},
	}
	return repository.NewRepository(db, handlers)
}

// NewCompaniesRepository builds the generic repository for company profiles.
func NewCompaniesRepository(db *bun.DB) repository.Repository[*Company] {
	handlers := repository.ModelHandlers[*Company]{
		NewRecord: func() *Company { return &Company{} },
		GetID: func(record *Company) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Company, id uuid.UUID) {
			record.ID = id
		},
	}
	return repository.NewRepository(db, handlers)
}

type mngr struct {
	db        *bun.DB
	users     Users
	students  repository.Repository[*Student]
	companies repository.Repository[*Company]
}

// NewRepositoryManager wires the stores over one bun handle.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:        db,
		users:     NewUsersStore(db),
		students:  NewStudentsRepository(db),
		companies: NewCompaniesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.students == nil {
		return errors.New("repository students should be initialized")
	}

	if m.companies == nil {
		return errors.New("repository companies should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Students() repository.Repository[*Student] {
	return m.students
}

func (m mngr) Companies() repository.Repository[*Company] {
	return m.companies
}
