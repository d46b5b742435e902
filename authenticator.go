package auth

import (
	"context"
)

// Auther orchestrates the signin workflow: lookup, password verification,
// role resolution, token issuance. It holds no per-request state; a single
// instance serves concurrent requests.
type Auther struct {
	provider        IdentityProvider
	resolver        AuthorityResolver
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, resolver AuthorityResolver, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:        provider,
		resolver:        resolver,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithTokenService overrides the token service, mostly for tests
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and, on success, returns the identity
// summary together with a freshly issued access token. Unknown users and
// bad passwords propagate as their respective rich errors; anything the
// token can't be built from is internal.
func (s *Auther) Login(ctx context.Context, username, password string) (*SignInResult, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Debug("Login verify identity failed", "username", username, "error", err)
		return nil, err
	}

	authorities, err := s.resolver.Authorities(ctx, identity)
	if err != nil {
		s.logger.Error("Login failed to resolve authorities", "error", err)
		return nil, err
	}

	token, err := s.tokenService.Generate(identity, authorities)
	if err != nil {
		s.logger.Error("Login failed to issue token", "error", err)
		return nil, err
	}

	return &SignInResult{
		ID:          identity.ID(),
		Username:    identity.Username(),
		Email:       identity.Email(),
		Authorities: authorities,
		AccessToken: token,
	}, nil
}

// VerifyToken checks signature and expiry and returns the embedded claims
func (s *Auther) VerifyToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Debug("VerifyToken validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}
