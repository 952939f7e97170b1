package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

type rbacRepository struct {
	BaseRepository
}

func NewRBACRepository(base BaseRepository) repository.RBACRepository {
	return &rbacRepository{base}
}

func (r *rbacRepository) CreateRole(ctx context.Context, role *model.Role) error {
	query := `
		INSERT INTO roles (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	role.ID = uuid.New()
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt

	_, err := r.db.ExecContext(ctx, query, role.ID, role.Name, role.Description, role.CreatedAt, role.UpdatedAt)
	return mapError("create role", err)
}

func (r *rbacRepository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.GetContext(ctx, &role,
		`SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`, name)
	if err != nil {
		return nil, mapError("get role", err)
	}
	return &role, nil
}

func (r *rbacRepository) DeleteAllRoles(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM roles`)
	return mapError("delete roles", err)
}

func (r *rbacRepository) EnsurePermission(ctx context.Context, name string) (*model.Permission, error) {
	query := `
		INSERT INTO permissions (id, name, description, created_at, updated_at)
		VALUES ($1, $2, '', $3, $3)
		ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, name, description, created_at, updated_at
	`
	var perm model.Permission
	if err := r.db.GetContext(ctx, &perm, query, uuid.New(), name, time.Now()); err != nil {
		return nil, mapError("ensure permission", err)
	}
	return &perm, nil
}

func (r *rbacRepository) AddPermissionToRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		roleID, permissionID)
	return mapError("add permission to role", err)
}

func (r *rbacRepository) AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, roleID)
	return mapError("assign role", err)
}

func (r *rbacRepository) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.Role, error) {
	query := `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	var roles []*model.Role
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, mapError("get user roles", err)
	}
	return roles, nil
}

func (r *rbacRepository) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
	`
	var perms []string
	if err := r.db.SelectContext(ctx, &perms, query, userID); err != nil {
		return nil, mapError("get user permissions", err)
	}
	return perms, nil
}
