package auth_test

import (
	"encoding/json"
	"testing"

	auth "github.com/SrEloyF/lab7-back"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRoleNames(t *testing.T) {
	t.Run("returns loaded role names in order", func(t *testing.T) {
		user := &auth.User{
			Roles: []*auth.Role{
				{Name: auth.RoleUser},
				{Name: auth.RoleAdmin},
			},
		}

		assert.Equal(t, []auth.RoleName{auth.RoleUser, auth.RoleAdmin}, user.RoleNames())
	})

	t.Run("skips nil entries", func(t *testing.T) {
		user := &auth.User{
			Roles: []*auth.Role{nil, {Name: auth.RoleModerator}},
		}

		assert.Equal(t, []auth.RoleName{auth.RoleModerator}, user.RoleNames())
	})

	t.Run("empty when the relation was not loaded", func(t *testing.T) {
		assert.Empty(t, (&auth.User{}).RoleNames())
	})
}

func TestUserJSONNeverExposesPasswordHash(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		Username:     "tom",
		Email:        "tom@example.com",
		PasswordHash: "$2a$08$abcdefghijklmnopqrstuv",
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$08$")
}
