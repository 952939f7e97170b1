package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository/memory"
)

func TestSeedRolesAndLoadActor(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.RBAC())

	user := &model.User{Email: "m@x.com", Username: "m"}
	require.NoError(t, store.Users().Create(ctx, user))

	plain, err := svc.LoadActor(ctx, user)
	require.NoError(t, err)
	assert.False(t, plain.Elevated())

	_, err = svc.SeedRoles(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, user, model.RoleManager))

	actor, err := svc.LoadActor(ctx, user)
	require.NoError(t, err)
	assert.True(t, actor.Elevated())
	assert.Equal(t, []string{model.RoleManager}, actor.Roles)
	for _, p := range model.ManagerPermissions {
		assert.True(t, actor.HasPermission(p), p)
	}
	assert.False(t, actor.HasPermission(model.PermDeleteMailing))

	// reseeding wipes assignments
	_, err = svc.SeedRoles(ctx)
	require.NoError(t, err)
	actor, err = svc.LoadActor(ctx, user)
	require.NoError(t, err)
	assert.False(t, actor.Elevated())
}

func TestAssignRole_Unknown(t *testing.T) {
	store := memory.NewStore()
	user := &model.User{Email: "a@x.com"}
	require.NoError(t, store.Users().Create(context.Background(), user))

	assert.Error(t, NewService(store.RBAC()).AssignRole(context.Background(), user, "ghost"))
}
