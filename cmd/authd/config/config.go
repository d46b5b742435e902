package config

import (
	"fmt"
	"time"
)

// BaseConfig is the root configuration loaded by go-config. File and env
// sources are merged over the defaults seeded in main.
type BaseConfig struct {
	Name        string      `koanf:"name" json:"name"`
	Server      Server      `koanf:"server" json:"server"`
	Auth        Auth        `koanf:"auth" json:"auth"`
	Persistence Persistence `koanf:"persistence" json:"persistence"`
}

func (c BaseConfig) Validate() error {
	if c.Auth.SigningKey == "" {
		return fmt.Errorf("config: auth.signing_key is required")
	}
	return nil
}

func (c BaseConfig) GetName() string {
	if c.Name == "" {
		return "authd"
	}
	return c.Name
}

func (c *BaseConfig) GetServer() *Server {
	return &c.Server
}

func (c *BaseConfig) GetAuth() *Auth {
	return &c.Auth
}

func (c *BaseConfig) GetPersistence() *Persistence {
	return &c.Persistence
}

type Server struct {
	Address string `koanf:"address" json:"address"`
}

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8080"
	}
	return s.Address
}

type Auth struct {
	SigningKey      string   `koanf:"signing_key" json:"signing_key"`
	SigningMethod   string   `koanf:"signing_method" json:"signing_method"`
	ContextKey      string   `koanf:"context_key" json:"context_key"`
	TokenExpiration int      `koanf:"token_expiration" json:"token_expiration"`
	TokenLookup     string   `koanf:"token_lookup" json:"token_lookup"`
	AuthScheme      string   `koanf:"auth_scheme" json:"auth_scheme"`
	Issuer          string   `koanf:"issuer" json:"issuer"`
	Audience        []string `koanf:"audience" json:"audience"`
}

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

func (a Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "user"
	}
	return a.ContextKey
}

// GetTokenExpiration is the token lifetime in hours
func (a Auth) GetTokenExpiration() int {
	if a.TokenExpiration == 0 {
		return 24
	}
	return a.TokenExpiration
}

func (a Auth) GetTokenLookup() string {
	if a.TokenLookup == "" {
		return "header:x-access-token"
	}
	return a.TokenLookup
}

func (a Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a Auth) GetIssuer() string {
	return a.Issuer
}

func (a Auth) GetAudience() []string {
	return a.Audience
}

type Persistence struct {
	Debug                 bool   `koanf:"debug" json:"debug"`
	Driver                string `koanf:"driver" json:"driver"`
	DSN                   string `koanf:"dsn" json:"dsn"`
	Database              string `koanf:"database" json:"database"`
	PingTimeoutExpression string `koanf:"ping_timeout" json:"ping_timeout"`
}

func (p Persistence) GetDebug() bool {
	return p.Debug
}

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string {
	if p.DSN == "" {
		return "file:authd.db?cache=shared&mode=rwc"
	}
	return p.DSN
}

func (p Persistence) GetServer() string {
	return p.GetDSN()
}

func (p Persistence) GetDatabase() string {
	return p.Database
}

// GetOtelIdentifier returns empty so persistence skips the otel query hook.
func (p Persistence) GetOtelIdentifier() string {
	return ""
}

func (p Persistence) GetPingTimeout() time.Duration {
	expr := p.PingTimeoutExpression
	if expr == "" {
		expr = "5s"
	}
	dur, err := time.ParseDuration(expr)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", expr),
		)
	}
	return dur
}
