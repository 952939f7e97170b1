package mailing

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
	"github.com/jwalitptl/client-connect/pkg/validator"
)

type env struct {
	store *memory.Store
	svc   *Service
	owner *access.Actor
}

func newEnv() *env {
	store := memory.NewStore()
	tracker := NewStatusTracker(store.Mailings(), nil, nil)
	return &env{
		store: store,
		svc: NewService(store.Mailings(), store.Messages(), store.Recipients(), store.Attempts(),
			tracker, validator.New()),
		owner: access.NewActor(uuid.New(), "owner@x.com", false, nil, nil),
	}
}

func (e *env) request(t *testing.T, owner *access.Actor, emails ...string) *model.MailingRequest {
	t.Helper()
	ctx := context.Background()
	msg := &model.Message{Owned: model.Owned{OwnerID: &owner.ID}, Subject: "s", Body: "b"}
	require.NoError(t, e.store.Messages().Create(ctx, msg))

	req := &model.MailingRequest{MessageID: msg.ID}
	for _, em := range emails {
		r := &model.Recipient{Owned: model.Owned{OwnerID: &owner.ID}, Email: em, FullName: em}
		require.NoError(t, e.store.Recipients().Create(ctx, r))
		req.RecipientIDs = append(req.RecipientIDs, r.ID)
	}
	return req
}

func TestCreateAndGetMailing(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	req := e.request(t, e.owner, "b@x.com", "a@x.com")
	req.RecipientIDs = append(req.RecipientIDs, req.RecipientIDs[0])

	created, err := e.svc.CreateMailing(ctx, e.owner, req)
	require.NoError(t, err)
	assert.Equal(t, model.MailingStatusCreated, created.Status)
	assert.Equal(t, e.owner.ID, *created.OwnerID)

	detail, err := e.svc.GetMailing(ctx, e.owner, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Recipients, 2)
	assert.Equal(t, "b@x.com", detail.Recipients[0].Email)
	assert.Equal(t, "s", detail.Message.Subject)
}

func TestCreateMailing_Validation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.svc.CreateMailing(ctx, e.owner, &model.MailingRequest{})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = e.svc.CreateMailing(ctx, e.owner, &model.MailingRequest{MessageID: uuid.New()})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	stranger := access.NewActor(uuid.New(), "s@x.com", false, nil, nil)
	_, err = e.svc.CreateMailing(ctx, stranger, e.request(t, e.owner, "a@x.com"))
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden), "cannot reference someone else's message")
}

func TestMailing_AccessRules(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	created, err := e.svc.CreateMailing(ctx, e.owner, e.request(t, e.owner, "a@x.com"))
	require.NoError(t, err)

	stranger := access.NewActor(uuid.New(), "s@x.com", false, nil, nil)
	_, err = e.svc.GetMailing(ctx, stranger, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	assert.True(t, apperrors.Is(e.svc.DeleteMailing(ctx, stranger, created.ID), apperrors.ErrForbidden))

	manager := access.NewActor(uuid.New(), "m@x.com", false, []string{model.RoleManager}, model.ManagerPermissions)
	_, err = e.svc.GetMailing(ctx, manager, created.ID)
	assert.NoError(t, err)

	mine, err := e.svc.ListMailings(ctx, stranger, "")
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, err := e.svc.ListMailings(ctx, manager, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = e.svc.ListMailings(ctx, manager, "paused")
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = e.svc.GetMailing(ctx, e.owner, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestDisableMailing(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	created, err := e.svc.CreateMailing(ctx, e.owner, e.request(t, e.owner, "a@x.com"))
	require.NoError(t, err)

	disabled, err := e.svc.DisableMailing(ctx, e.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MailingStatusDisabled, disabled.Status)

	_, err = e.svc.DisableMailing(ctx, e.owner, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestUpdateMailing(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	created, err := e.svc.CreateMailing(ctx, e.owner, e.request(t, e.owner, "a@x.com"))
	require.NoError(t, err)

	next := e.request(t, e.owner, "c@x.com", "d@x.com")
	updated, err := e.svc.UpdateMailing(ctx, e.owner, created.ID, next)
	require.NoError(t, err)
	assert.Equal(t, next.MessageID, updated.MessageID)

	detail, err := e.svc.GetMailing(ctx, e.owner, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Recipients, 2)
	assert.Equal(t, "c@x.com", detail.Recipients[0].Email)
}
