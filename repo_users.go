package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the credential store for user records and their role
// associations. All writes are durable before the call returns; uniqueness
// of username and email is delegated to the datastore's constraints.
type Users interface {
	repository.Repository[*User]

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error)

	AssignRoles(ctx context.Context, user *User, names []RoleName) error
	AssignRolesTx(ctx context.Context, tx bun.IDB, user *User, names []RoleName) error
}

type users struct {
	repository.Repository[*User]
	db    *bun.DB
	roles Roles
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

// NewUsersRepository builds the users credential store. The roles
// repository is needed to resolve role names during association.
func NewUsersRepository(db *bun.DB, roles Roles) Users {
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
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
		roles:      roles,
	}
}

// WithUserRoles loads the roles association alongside the user record
func WithUserRoles() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Relation("Roles")
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	return a.CreateTx(ctx, tx, user)
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	user, err := a.Repository.CreateTx(ctx, tx, record, criteria...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, NewDuplicateIdentityError(record.Username, record.Email)
		}
		return nil, err
	}
	return user, nil
}

// GetByUsername finds a user by exact, case-sensitive username match
func (a *users) GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username, criteria...)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error) {
	record := &User{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
				})
		}
		return nil, err
	}

	return record, nil
}

// AssignRoles associates the named roles with the user. The operation is
// idempotent: links that already exist are left untouched. Names outside
// the closed enumeration fail before anything is written.
func (a *users) AssignRoles(ctx context.Context, user *User, names []RoleName) error {
	return a.AssignRolesTx(ctx, a.db, user, names)
}

func (a *users) AssignRolesTx(ctx context.Context, tx bun.IDB, user *User, names []RoleName) error {
	for _, name := range names {
		if !IsValidRole(name) {
			return NewInvalidRoleError(string(name))
		}
	}

	for _, name := range names {
		role, err := a.roles.GetByNameTx(ctx, tx, name)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				// Valid name with no seeded row: the role fixtures are
				// missing or incomplete.
				return NewInvalidRoleError(string(name))
			}
			return err
		}

		link := &UserRole{
			ID:     uuid.New(),
			UserID: user.ID,
			RoleID: role.ID,
		}

		if _, err := tx.NewInsert().
			Model(link).
			On("CONFLICT (user_id, role_id) DO NOTHING").
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Username = strings.TrimSpace(record.Username)
	record.Email = strings.TrimSpace(record.Email)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
