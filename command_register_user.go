package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a signup request. Registration always
// grants the default "user" role; elevated roles are assigned through
// the repository, never from signup input.
type RegisterUserMessage struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UseHashid bool
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler runs the signup workflow: validate, hash, persist,
// assign roles. The persist and assign steps share one transaction, so a
// user record can never outlive a failed role assignment.
type RegisterUserHandler struct {
	repo RepositoryManager
}

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	if err := validateRegistration(event); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user := &User{
			Username:     event.Username,
			Email:        event.Email,
			PasswordHash: hash,
		}

		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return err
		}

		return h.repo.Users().AssignRolesTx(ctx, tx, user, []RoleName{RoleUser})
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return nil
}

func validateRegistration(event RegisterUserMessage) error {
	missing := []string{}
	if event.Username == "" {
		missing = append(missing, "username")
	}
	if event.Email == "" {
		missing = append(missing, "email")
	}
	if event.Password == "" {
		missing = append(missing, "password")
	}

	if len(missing) > 0 {
		return goerrors.New("missing required registration fields", goerrors.CategoryValidation).
			WithTextCode("MISSING_FIELDS").
			WithMetadata(map[string]any{"fields": missing})
	}

	return nil
}
