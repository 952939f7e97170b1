package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/model"
)

type rbacRepository struct {
	s *Store
}

func (r *rbacRepository) CreateRole(ctx context.Context, role *model.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.roles {
		if existing.Name == role.Name {
			return duplicate("create role", "roles_name_key")
		}
	}
	role.ID = uuid.New()
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	r.s.roles[role.ID] = *role
	return nil
}

func (r *rbacRepository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.roles {
		if role.Name == name {
			role := role
			return &role, nil
		}
	}
	return nil, notFound("get role")
}

func (r *rbacRepository) DeleteAllRoles(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.roles = make(map[uuid.UUID]model.Role)
	r.s.rolePerms = make(map[uuid.UUID]map[uuid.UUID]struct{})
	r.s.userRoles = make(map[uuid.UUID]map[uuid.UUID]struct{})
	return nil
}

func (r *rbacRepository) EnsurePermission(ctx context.Context, name string) (*model.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.perms {
		if p.Name == name {
			p := p
			return &p, nil
		}
	}
	p := model.Permission{Name: name}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.perms[p.ID] = p
	return &p, nil
}

func (r *rbacRepository) AddPermissionToRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[roleID]; !ok {
		return notFound("add permission to role")
	}
	if _, ok := r.s.perms[permissionID]; !ok {
		return notFound("add permission to role")
	}
	link(r.s.rolePerms, roleID, permissionID)
	return nil
}

func (r *rbacRepository) AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return notFound("assign role")
	}
	if _, ok := r.s.roles[roleID]; !ok {
		return notFound("assign role")
	}
	link(r.s.userRoles, userID, roleID)
	return nil
}

func (r *rbacRepository) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var roles []*model.Role
	for roleID := range r.s.userRoles[userID] {
		role := r.s.roles[roleID]
		roles = append(roles, &role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (r *rbacRepository) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	var perms []string
	for roleID := range r.s.userRoles[userID] {
		for permID := range r.s.rolePerms[roleID] {
			name := r.s.perms[permID].Name
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			perms = append(perms, name)
		}
	}
	sort.Strings(perms)
	return perms, nil
}

func link(m map[uuid.UUID]map[uuid.UUID]struct{}, from, to uuid.UUID) {
	if m[from] == nil {
		m[from] = make(map[uuid.UUID]struct{})
	}
	m[from][to] = struct{}{}
}
