package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the signup and signin endpoints
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Signup, controller.Signup).
		SetName("auth.signup")

	app.Post(controller.Routes.Signin, controller.Signin).
		SetName("auth.signin")
}

type AuthControllerRoutes struct {
	Signup string
	Signin string
}

type AuthController struct {
	Debug    bool
	Logger   Logger
	Routes   *AuthControllerRoutes
	Auther   Authenticator
	Register *RegisterUserHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerRegistration(handler *RegisterUserHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Register = handler
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Signup: "/api/auth/signup",
			Signin: "/api/auth/signin",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Register == nil {
		panic("Missing registration handler in auth controller...")
	}

	return c
}

// SignupRequest is the signup payload. Roles is accepted for wire
// compatibility but never honored: signup always grants the default
// role, so clients cannot self-assign elevated access.
type SignupRequest struct {
	Username string   `form:"username" json:"username"`
	Email    string   `form:"email" json:"email"`
	Password string   `form:"password" json:"password"`
	Roles    []string `form:"roles" json:"roles"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(4, 100)),
	)
}

// SigninRequest is the signin payload
type SigninRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SigninRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Signup handles POST /api/auth/signup
func (a *AuthController) Signup(ctx router.Context) error {
	payload := new(SignupRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": "Bad Request: could not parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	msg := RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}

	if err := a.Register.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("signup execute", "error", err)
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"message": "User registered successfully!",
	})
}

// Signin handles POST /api/auth/signin
func (a *AuthController) Signin(ctx router.Context) error {
	payload := new(SigninRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signin parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": "Bad Request: could not parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signin validate payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": err.Error(),
		})
	}

	result, err := a.Auther.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Debug("signin login failed", "username", payload.Username, "error", err)
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, result)
}

// renderError maps the error taxonomy to HTTP outcomes. 401 responses keep
// the same body shape regardless of which credential check failed, so the
// response doesn't leak which one it was.
func (a *AuthController) renderError(ctx router.Context, err error) error {
	message := "Internal Server Error"
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Message != "" {
		message = richErr.Message
	}

	switch CategoryOf(err) {
	case errors.CategoryValidation:
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": message,
		})
	case errors.CategoryConflict:
		return ctx.JSON(router.StatusConflict, map[string]any{
			"message": message,
		})
	case errors.CategoryNotFound:
		return ctx.JSON(router.StatusNotFound, map[string]any{
			"message": message,
		})
	case errors.CategoryAuth:
		return ctx.JSON(router.StatusUnauthorized, map[string]any{
			"accessToken": nil,
			"message":     message,
		})
	default:
		// Unanticipated failure: nothing beyond a generic message leaves
		// the process.
		return ctx.JSON(router.StatusInternalServerError, map[string]any{
			"message": "Internal Server Error",
		})
	}
}
