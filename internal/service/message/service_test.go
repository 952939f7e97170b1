package message

import (
	"context"
	"strings"
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

func TestMessageService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Messages(), validator.New())
	owner := access.NewActor(uuid.New(), "o@x.com", false, nil, nil)
	stranger := access.NewActor(uuid.New(), "s@x.com", false, nil, nil)

	_, err := svc.CreateMessage(ctx, owner, &model.MessageRequest{Subject: strings.Repeat("x", 151), Body: "b"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))

	msg, err := svc.CreateMessage(ctx, owner, &model.MessageRequest{Subject: "Sale", Body: "50% off"})
	require.NoError(t, err)

	_, err = svc.UpdateMessage(ctx, stranger, msg.ID, &model.MessageRequest{Subject: "Hacked", Body: "x"})
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	updated, err := svc.UpdateMessage(ctx, owner, msg.ID, &model.MessageRequest{Subject: "Big sale", Body: "60% off"})
	require.NoError(t, err)
	assert.Equal(t, "Big sale", updated.Subject)

	theirs, err := svc.ListMessages(ctx, stranger, "")
	require.NoError(t, err)
	assert.Empty(t, theirs)

	assert.True(t, errors.Is(svc.DeleteMessage(ctx, stranger, msg.ID), errors.ErrForbidden))
	require.NoError(t, svc.DeleteMessage(ctx, owner, msg.ID))
}
