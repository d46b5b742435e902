package auth_test

import (
	"context"
	"database/sql"
	"testing"

	auth "github.com/SrEloyF/lab7-back"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the user and exactly the default role in one transaction", func(t *testing.T) {
		users := &MockUsers{}
		repo := &MockRepositoryManager{}

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
			Return(nil).Once()

		var created *auth.User
		users.On("CreateTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(2).(*auth.User)
				created.ID = uuid.New()
			}).
			Return(&auth.User{ID: uuid.New()}, nil).Once()

		var assigned []auth.RoleName
		users.On("AssignRolesTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				assigned = args.Get(3).([]auth.RoleName)
			}).
			Return(nil).Once()

		handler := auth.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "tom",
			Email:    "tom@example.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, "tom", created.Username)
		assert.Equal(t, "tom@example.com", created.Email)
		assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
		assert.NoError(t, auth.ComparePasswordAndHash("s3cret-pass", created.PasswordHash))

		assert.Equal(t, []auth.RoleName{auth.RoleUser}, assigned)

		repo.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("derives the user id from the email when requested", func(t *testing.T) {
		users := &MockUsers{}
		repo := &MockRepositoryManager{}

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
			Return(nil).Once()

		var created *auth.User
		users.On("CreateTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(2).(*auth.User)
			}).
			Return(&auth.User{ID: uuid.New()}, nil).Once()
		users.On("AssignRolesTx", mock.Anything, mock.Anything, mock.Anything, []auth.RoleName{auth.RoleUser}).
			Return(nil).Once()

		handler := auth.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username:  "tom",
			Email:     "tom@example.com",
			Password:  "s3cret-pass",
			UseHashid: true,
		})
		require.NoError(t, err)

		want, err := hashid.NewUUID("tom@example.com")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, want, created.ID)

		users.AssertExpectations(t)
	})

	t.Run("rejects missing fields before touching the store", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		handler := auth.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "tom",
		})
		require.Error(t, err)
		assert.Equal(t, errors.CategoryValidation, auth.CategoryOf(err))

		var richErr *errors.Error
		require.True(t, errors.As(err, &richErr))
		assert.Equal(t, "MISSING_FIELDS", richErr.TextCode)
		assert.ElementsMatch(t, []string{"email", "password"}, richErr.Metadata["fields"])

		repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("surfaces duplicate identity as a conflict", func(t *testing.T) {
		users := &MockUsers{}
		repo := &MockRepositoryManager{}

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
			Return(nil).Once()

		users.On("CreateTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, auth.NewDuplicateIdentityError("tom", "tom@example.com")).Once()

		handler := auth.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "tom",
			Email:    "tom@example.com",
			Password: "s3cret-pass",
		})
		require.Error(t, err)
		assert.Equal(t, errors.CategoryConflict, auth.CategoryOf(err))

		users.AssertNotCalled(t, "AssignRolesTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed role assignment aborts the registration", func(t *testing.T) {
		users := &MockUsers{}
		repo := &MockRepositoryManager{}

		repo.On("Users").Return(users)
		repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
			Return(nil).Once()

		users.On("CreateTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&auth.User{ID: uuid.New()}, nil).Once()
		users.On("AssignRolesTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		handler := auth.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, auth.RegisterUserMessage{
			Username: "tom",
			Email:    "tom@example.com",
			Password: "s3cret-pass",
		})
		require.Error(t, err)
		assert.Equal(t, errors.CategoryInternal, auth.CategoryOf(err))
	})

	t.Run("cancelled context aborts before any work", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		repo := &MockRepositoryManager{}
		handler := auth.NewRegisterUserHandler(repo)

		err := handler.Execute(cancelled, auth.RegisterUserMessage{
			Username: "tom",
			Email:    "tom@example.com",
			Password: "s3cret-pass",
		})
		require.Error(t, err)
		assert.Equal(t, errors.CategoryOperation, auth.CategoryOf(err))

		repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
	})
}
