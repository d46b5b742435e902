package auth_test

import (
	"context"
	"database/sql"

	auth "github.com/SrEloyF/lab7-back"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockIdentity implements auth.Identity
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Roles() []auth.RoleName {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.([]auth.RoleName)
	}
	return nil
}

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, username, password string) (auth.Identity, error) {
	args := m.Called(ctx, username, password)
	if v := args.Get(0); v != nil {
		return v.(auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (auth.Identity, error) {
	args := m.Called(ctx, username)
	if v := args.Get(0); v != nil {
		return v.(auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAuthorityResolver implements auth.AuthorityResolver
type MockAuthorityResolver struct {
	mock.Mock
}

func (m *MockAuthorityResolver) Authorities(ctx context.Context, identity auth.Identity) ([]string, error) {
	args := m.Called(ctx, identity)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTokenService implements auth.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(identity auth.Identity, authorities []string) (string, error) {
	args := m.Called(identity, authorities)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *auth.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (auth.AuthClaims, error) {
	args := m.Called(tokenString)
	if v := args.Get(0); v != nil {
		return v.(auth.AuthClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (*auth.SignInResult, error) {
	args := m.Called(ctx, username, password)
	if v := args.Get(0); v != nil {
		return v.(*auth.SignInResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticator) VerifyToken(token string) (auth.AuthClaims, error) {
	args := m.Called(token)
	if v := args.Get(0); v != nil {
		return v.(auth.AuthClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUsers mocks the subset of auth.Users the tests exercise. The embedded
// interface covers the rest of the repository surface; calling an
// unprogrammed method panics, which is what we want in a test.
type MockUsers struct {
	mock.Mock
	auth.Users
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, username, criteria)
	if v := args.Get(0); v != nil {
		return v.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	args := m.Called(ctx, tx, record, criteria)
	if v := args.Get(0); v != nil {
		return v.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) AssignRolesTx(ctx context.Context, tx bun.IDB, user *auth.User, names []auth.RoleName) error {
	args := m.Called(ctx, tx, user, names)
	return args.Error(0)
}

// MockRepositoryManager mocks auth.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
	auth.RepositoryManager
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) Users() auth.Users {
	args := m.Called()
	return args.Get(0).(auth.Users)
}

func (m *MockRepositoryManager) Roles() auth.Roles {
	args := m.Called()
	return args.Get(0).(auth.Roles)
}

// RunInTx records the call and, when the programmed return is nil, runs the
// transactional function with a zero tx so its error reaches the caller.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}
	return f(ctx, bun.Tx{})
}

// testConfig implements auth.Config
type testConfig struct {
	signingKey string
	expiration int
	issuer     string
	audience   []string
}

func (c testConfig) GetSigningKey() string    { return c.signingKey }
func (c testConfig) GetSigningMethod() string { return "HS256" }
func (c testConfig) GetContextKey() string    { return "user" }

func (c testConfig) GetTokenExpiration() int {
	if c.expiration == 0 {
		return 24
	}
	return c.expiration
}

func (c testConfig) GetTokenLookup() string { return "header:x-access-token" }
func (c testConfig) GetAuthScheme() string  { return "Bearer" }
func (c testConfig) GetIssuer() string      { return c.issuer }
func (c testConfig) GetAudience() []string  { return c.audience }
