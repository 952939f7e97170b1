package recipient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository/memory"
	"github.com/jwalitptl/client-connect/pkg/errors"
	"github.com/jwalitptl/client-connect/pkg/validator"
)

func TestRecipientLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Recipients(), validator.New())
	owner := access.NewActor(uuid.New(), "o@x.com", false, nil, nil)

	created, err := svc.CreateRecipient(ctx, owner, &model.RecipientRequest{Email: " a@x.com ", FullName: "A"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, owner.ID, *created.OwnerID)

	_, err = svc.CreateRecipient(ctx, owner, &model.RecipientRequest{Email: "a@x.com", FullName: "Again"})
	assert.True(t, errors.Is(err, errors.ErrConflict))

	_, err = svc.CreateRecipient(ctx, owner, &model.RecipientRequest{Email: "bad", FullName: "B"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))

	updated, err := svc.UpdateRecipient(ctx, owner, created.ID, &model.RecipientRequest{Email: "a@x.com", FullName: "Alice", Comment: "vip"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FullName)

	list, err := svc.ListRecipients(ctx, owner, "ali")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteRecipient(ctx, owner, created.ID))
	_, err = svc.GetRecipient(ctx, owner, created.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestRecipientAccess(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Recipients(), validator.New())
	owner := access.NewActor(uuid.New(), "o@x.com", false, nil, nil)
	stranger := access.NewActor(uuid.New(), "s@x.com", false, nil, nil)
	manager := access.NewActor(uuid.New(), "m@x.com", false, []string{model.RoleManager}, model.ManagerPermissions)

	created, err := svc.CreateRecipient(ctx, owner, &model.RecipientRequest{Email: "a@x.com", FullName: "A"})
	require.NoError(t, err)

	_, err = svc.GetRecipient(ctx, stranger, created.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	_, err = svc.GetRecipient(ctx, manager, created.ID)
	assert.NoError(t, err)
	_, err = svc.UpdateRecipient(ctx, manager, created.ID, &model.RecipientRequest{Email: "a@x.com", FullName: "X"})
	assert.True(t, errors.Is(err, errors.ErrForbidden), "view permission does not grant change")

	_, err = svc.CreateRecipient(ctx, manager, &model.RecipientRequest{Email: "m@x.com", FullName: "M"})
	assert.True(t, errors.Is(err, errors.ErrForbidden), "elevated actors need add permission")

	orphan := &model.Recipient{Email: "orphan@x.com", FullName: "O"}
	require.NoError(t, store.Recipients().Create(ctx, orphan))
	_, err = svc.GetRecipient(ctx, stranger, orphan.ID)
	assert.NoError(t, err, "orphaned records are open to plain users")
}
