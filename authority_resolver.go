package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RoleResolver derives the authority strings for a verified identity. It
// prefers the role names already loaded on the identity and falls back to
// reading the user_roles association directly.
type RoleResolver struct {
	db     *bun.DB
	logger Logger
}

var _ AuthorityResolver = (*RoleResolver)(nil)

func NewRoleResolver(db *bun.DB) *RoleResolver {
	return &RoleResolver{
		db:     db,
		logger: defLogger{},
	}
}

func (r *RoleResolver) WithLogger(l Logger) *RoleResolver {
	if l != nil {
		r.logger = l
	}
	return r
}

// Authorities returns the authority strings for the identity. An empty
// role set should never occur for a registered user; it is logged as an
// integrity warning and yields an empty slice rather than an error.
func (r *RoleResolver) Authorities(ctx context.Context, identity Identity) ([]string, error) {
	names := identity.Roles()

	if len(names) == 0 {
		resolved, err := r.rolesOf(ctx, identity.ID())
		if err != nil {
			return nil, err
		}
		names = resolved
	}

	if len(names) == 0 {
		r.logger.Warn("integrity warning: user has no roles assigned", "user_id", identity.ID())
	}

	return Authorities(names), nil
}

// rolesOf reads the association table for the given user id
func (r *RoleResolver) rolesOf(ctx context.Context, userID string) ([]RoleName, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var links []*UserRole
	if err := r.db.NewSelect().
		Model(&links).
		Relation("Role").
		Where("?TableAlias.user_id = ?", id).
		Scan(ctx); err != nil {
		return nil, err
	}

	names := make([]RoleName, 0, len(links))
	for _, link := range links {
		if link.Role != nil {
			names = append(names, link.Role.Name)
		}
	}

	return names, nil
}
