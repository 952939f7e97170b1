package attempt

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository/memory"
	apperrors "github.com/jwalitptl/client-connect/pkg/errors"
)

func TestListAttempts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	owner := access.NewActor(uuid.New(), "o@x.com", false, nil, nil)

	msg := &model.Message{Subject: "s", Body: "b"}
	require.NoError(t, store.Messages().Create(ctx, msg))
	m := &model.Mailing{Owned: model.Owned{OwnerID: &owner.ID}, MessageID: msg.ID}
	require.NoError(t, store.Mailings().Create(ctx, m))

	for _, st := range []model.AttemptStatus{model.AttemptStatusSuccess, model.AttemptStatusFail} {
		require.NoError(t, store.Attempts().Create(ctx, &model.SendingAttempt{MailingID: m.ID, Status: st}))
	}

	svc := NewService(store.Attempts())

	mine, err := svc.ListAttempts(ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, model.AttemptStatusFail, mine[0].Status, "newest first")

	failed, err := svc.ListAttempts(ctx, owner, "fail")
	require.NoError(t, err)
	assert.Len(t, failed, 1)

	stranger := access.NewActor(uuid.New(), "s@x.com", false, nil, nil)
	none, err := svc.ListAttempts(ctx, stranger, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	manager := access.NewActor(uuid.New(), "m@x.com", false, []string{model.RoleManager}, model.ManagerPermissions)
	all, err := svc.ListAttempts(ctx, manager, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListAttempts(ctx, owner, "bounced")
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}
