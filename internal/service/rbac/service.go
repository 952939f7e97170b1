package rbac

import (
	"context"
	"fmt"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

type Service struct {
	repo repository.RBACRepository
}

func NewService(repo repository.RBACRepository) *Service {
	return &Service{repo: repo}
}

// LoadActor resolves the roles and permissions of user.
func (s *Service) LoadActor(ctx context.Context, user *model.User) (*access.Actor, error) {
	roles, err := s.repo.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	perms, err := s.repo.GetUserPermissions(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return access.NewActor(user.ID, user.Email, user.IsSuperuser, names, perms), nil
}

// SeedRoles drops every role and recreates the manager role. Existing
// role assignments are lost.
func (s *Service) SeedRoles(ctx context.Context) (*model.Role, error) {
	if err := s.repo.DeleteAllRoles(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete roles: %w", err)
	}

	for _, name := range model.AllPermissions {
		if _, err := s.repo.EnsurePermission(ctx, name); err != nil {
			return nil, fmt.Errorf("failed to ensure permission %s: %w", name, err)
		}
	}

	role := &model.Role{Name: model.RoleManager, Description: "Moderates mailings and users"}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	for _, name := range model.ManagerPermissions {
		perm, err := s.repo.EnsurePermission(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure permission %s: %w", name, err)
		}
		if err := s.repo.AddPermissionToRole(ctx, role.ID, perm.ID); err != nil {
			return nil, fmt.Errorf("failed to add permission to role: %w", err)
		}
	}
	return role, nil
}

// AssignRole grants a named role to a user.
func (s *Service) AssignRole(ctx context.Context, user *model.User, roleName string) error {
	role, err := s.repo.GetRoleByName(ctx, roleName)
	if err != nil {
		return fmt.Errorf("failed to get role %s: %w", roleName, err)
	}
	if err := s.repo.AssignRoleToUser(ctx, user.ID, role.ID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}
