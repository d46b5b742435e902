package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserStore is the slice of the credential store the provider needs
type UserStore interface {
	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
}

// UserProvider resolves identities from the credential store
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user by username, compare the password
// against the stored hash, and return the identity with its role names.
// An unknown username and a bad password are distinct outcomes here; the
// signin route surfaces them as 404 and 401 respectively, matching the
// existing wire contract.
func (u UserProvider) VerifyIdentity(ctx context.Context, username, password string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, username, WithUserRoles())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return identityFromUser(user), nil
}

// FindIdentityByUsername resolves an identity without checking credentials
func (u UserProvider) FindIdentityByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := u.store.GetByUsername(ctx, username, WithUserRoles())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return identityFromUser(user), nil
}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		roles:    user.RoleNames(),
	}
}

type authIdentity struct {
	id       string
	username string
	email    string
	roles    []RoleName
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Roles() []RoleName {
	return a.roles
}

var _ Identity = authIdentity{}
