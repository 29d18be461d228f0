package credentials

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

// pgUniqueViolation is the SQLSTATE postgres reports for unique index conflicts
const pgUniqueViolation = "23505"

// Users is the user record store
type Users interface {
	repository.Repository[*User]

	Insert(ctx context.Context, record *User) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch UserPatch) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*User, error)
}

type users struct {
	repository.Repository[*User]
	db  *bun.DB
	now func() time.Time
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

type UsersOption func(*users)

// WithUsersClock injects a custom clock for timestamps
func WithUsersClock(now func() time.Time) UsersOption {
	return func(u *users) {
		if now != nil {
			u.now = now
		}
	}
}

func NewUsersRepository(db *bun.DB, opts ...UsersOption) Users {
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

	repoUsers := &users{
		Repository: repo,
		db:         db,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoUsers)
		}
	}
	return repoUsers
}

// Insert stores a new record. Missing id, role and timestamps are filled in.
func (a *users) Insert(ctx context.Context, record *User) (uuid.UUID, error) {
	created, err := a.CreateTx(ctx, a.db, record)
	if err != nil {
		return uuid.Nil, mapStoreError(err)
	}
	if created != nil && created.ID != uuid.Nil {
		return created.ID, nil
	}
	return record.ID, nil
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record, a.now())
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// FindByEmail looks the record up by its identifier column
func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	record, err := a.Repository.GetByIdentifier(ctx, email)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return record, nil
}

func (a *users) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record, err := a.Repository.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapStoreError(err)
	}
	return record, nil
}

// UpdateByID writes only the patched columns and refreshes updated_at
func (a *users) UpdateByID(ctx context.Context, id uuid.UUID, patch UserPatch) error {
	if patch.IsEmpty() {
		return ErrNoFieldsProvided
	}

	record := &User{ID: id, UpdatedAt: a.now()}
	cols := append(patch.apply(record), "updated_at")

	res, err := a.db.NewUpdate().
		Model(record).
		Column(cols...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapStoreError(err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return withMetadata(ErrUserNotFound, map[string]any{
			"id": id.String(),
		})
	}

	return nil
}

// DeleteByID removes the record if present. Deleting a missing record is not an error.
func (a *users) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := a.db.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapStoreError(err)
	}
	return nil
}

func (a *users) ListAll(ctx context.Context) ([]*User, error) {
	records := make([]*User, 0)
	err := a.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return records, nil
}

func prepareUserDefaults(record *User, now time.Time) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Role == "" {
		record.Role = RoleUser
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
}

// mapStoreError translates driver errors into rich errors. Anything it does
// not recognize is returned unchanged for the caller to log.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	if repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}

	if sourceChain(err, isUniqueViolation) {
		return wrapError(ErrDuplicateEmail, err)
	}

	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
