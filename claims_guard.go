package auth

import (
	"strings"

	"github.com/goliatone/go-router"
)

// HeaderAccessToken is the legacy token header the original API clients
// send; the standard Authorization bearer header is also honored.
const HeaderAccessToken = "x-access-token"

// GuardConfig configures the token guard middleware
type GuardConfig struct {
	// Validator checks signature and expiry; required
	Validator TokenService
	// ContextKey is the locals key claims are stored under (default "user")
	ContextKey string
	// AuthScheme is the Authorization header scheme (default "Bearer")
	AuthScheme string
	// ErrorHandler renders verification failures (default: 401 JSON body)
	ErrorHandler router.ErrorHandler
	// Logger receives the internal distinction between expired and
	// malformed tokens; clients only ever see an unauthorized outcome
	Logger Logger
}

// TokenGuard verifies the bearer token on protected routes and stores the
// claims in the request locals.
func TokenGuard(config GuardConfig) router.MiddlewareFunc {
	cfg := guardDefaults(config)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw := extractToken(ctx, cfg.AuthScheme)
			if raw == "" {
				return cfg.ErrorHandler(ctx, ErrTokenMalformed)
			}

			claims, err := cfg.Validator.Validate(raw)
			if err != nil {
				if IsTokenExpiredError(err) {
					cfg.Logger.Info("token guard rejected expired token")
				} else {
					cfg.Logger.Info("token guard rejected token", "error", err)
				}
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, claims)
			ctx.SetContext(WithClaimsContext(ctx.Context(), claims))

			return hf(ctx)
		}
	}
}

// RequireAuthority gates a route on a specific authority string, e.g.
// "ROLE_ADMIN". Must run after TokenGuard.
func RequireAuthority(authority string, contextKey ...string) router.MiddlewareFunc {
	key := "user"
	if len(contextKey) > 0 && contextKey[0] != "" {
		key = contextKey[0]
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			claims, ok := GetRouterClaims(ctx, key)
			if !ok {
				return ctx.JSON(router.StatusUnauthorized, map[string]any{
					"message": "Unauthorized!",
				})
			}

			if !claims.HasAuthority(authority) {
				return ctx.JSON(router.StatusForbidden, map[string]any{
					"message": "Require " + authority + "!",
				})
			}

			return hf(ctx)
		}
	}
}

func guardDefaults(cfg GuardConfig) GuardConfig {
	if cfg.Validator == nil {
		panic("AUTH: token guard configuration: Validator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			return c.JSON(router.StatusUnauthorized, map[string]any{
				"message": "Unauthorized!",
			})
		}
	}

	return cfg
}

// extractToken pulls the raw token from the Authorization header or the
// legacy x-access-token header.
func extractToken(ctx router.Context, authScheme string) string {
	if raw := ctx.GetString(HeaderAccessToken, ""); raw != "" {
		return raw
	}

	header := ctx.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return ""
	}

	if authScheme != "" {
		prefix := authScheme + " "
		if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
			return strings.TrimSpace(header[len(prefix):])
		}
		return ""
	}

	return strings.TrimSpace(header)
}
