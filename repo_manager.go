package credentials

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Migrate(ctx context.Context) error
	Close() error
}

type mngr struct {
	db        *bun.DB
	users     Users
	usersOpts []UsersOption
	logger    Logger
}

// RepositoryManagerOption customizes the manager
type RepositoryManagerOption func(*mngr)

// WithRepositoryLogger sets the logger used for migrations
func WithRepositoryLogger(logger Logger) RepositoryManagerOption {
	return func(m *mngr) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithUsersOptions forwards options to the users repository
func WithUsersOptions(opts ...UsersOption) RepositoryManagerOption {
	return func(m *mngr) {
		m.usersOpts = append(m.usersOpts, opts...)
	}
}

func NewRepositoryManager(db *bun.DB, opts ...RepositoryManagerOption) RepositoryManager {
	m := &mngr{
		db:     db,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if db != nil {
		m.users = NewUsersRepository(db, m.usersOpts...)
	}
	return m
}

func (m *mngr) Validate() error {
	if m.db == nil {
		return errors.New("database connection should be initialized")
	}

	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	return nil
}

func (m *mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *mngr) Users() Users {
	return m.users
}

// Migrate applies the embedded schema migrations
func (m *mngr) Migrate(ctx context.Context) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return Migrate(ctx, m.db, m.logger)
}

func (m *mngr) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
