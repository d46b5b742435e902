package auth

import "strings"

// RoleName is a role drawn from the closed role enumeration
type RoleName = string

const (
	// RoleUser is the default role assigned at signup
	RoleUser RoleName = "user"
	// RoleModerator can manage community content
	RoleModerator RoleName = "moderator"
	// RoleAdmin can manage users and roles
	RoleAdmin RoleName = "admin"
)

// AuthorityPrefix is prepended to the uppercased role name to build the
// authority string consumed by access-control checks. The mapping is a wire
// contract; do not change it.
const AuthorityPrefix = "ROLE_"

// IsValidRole checks the name against the closed enumeration. The set is
// treated as closed: new roles require a migration, not a code path.
func IsValidRole(name RoleName) bool {
	switch name {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRoleName safely parses a string into a RoleName
func ParseRoleName(name string) (RoleName, bool) {
	role := RoleName(strings.TrimSpace(name))
	return role, IsValidRole(role)
}

// AllRoleNames returns the closed role set
func AllRoleNames() []RoleName {
	return []RoleName{RoleUser, RoleModerator, RoleAdmin}
}

// Authority maps a role name to its authority string, e.g. "admin" to
// "ROLE_ADMIN".
func Authority(name RoleName) string {
	return AuthorityPrefix + strings.ToUpper(string(name))
}

// Authorities maps role names to authority strings, preserving order
func Authorities(names []RoleName) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, Authority(name))
	}
	return out
}
