package auth_test

import (
	"context"
	"testing"

	auth "github.com/SrEloyF/lab7-back"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersAssignRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects names outside the enumeration before writing", func(t *testing.T) {
		db, cleanup := setupResolverDB(t)
		defer cleanup()

		userID := seedUserWithRoles(t, db)
		repo := auth.NewRepositoryManager(db)

		err := repo.Users().AssignRoles(ctx, &auth.User{ID: userID}, []auth.RoleName{auth.RoleName("superadmin")})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidRole)

		var richErr *errors.Error
		require.True(t, errors.As(err, &richErr))
		assert.Equal(t, "INVALID_ROLE", richErr.TextCode)
		assert.Equal(t, "superadmin", richErr.Metadata["role"])

		count, err := db.NewSelect().Model((*auth.UserRole)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("valid name with no seeded role row is invalid", func(t *testing.T) {
		db, cleanup := setupResolverDB(t)
		defer cleanup()

		userID := seedUserWithRoles(t, db)
		repo := auth.NewRepositoryManager(db)

		err := repo.Users().AssignRoles(ctx, &auth.User{ID: userID}, []auth.RoleName{auth.RoleAdmin})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidRole)
	})

	t.Run("assignment is idempotent", func(t *testing.T) {
		db, cleanup := setupResolverDB(t)
		defer cleanup()

		userID := seedUserWithRoles(t, db, auth.RoleUser)
		repo := auth.NewRepositoryManager(db)

		err := repo.Users().AssignRoles(ctx, &auth.User{ID: userID}, []auth.RoleName{auth.RoleUser})
		require.NoError(t, err)

		count, err := db.NewSelect().Model((*auth.UserRole)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
