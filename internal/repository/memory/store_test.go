package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository"
)

func seed(t *testing.T, s *Store, owner *uuid.UUID, emails ...string) (*model.Message, []*model.Recipient) {
	t.Helper()
	ctx := context.Background()

	msg := &model.Message{Owned: model.Owned{OwnerID: owner}, Subject: "Hello", Body: "Body"}
	require.NoError(t, s.Messages().Create(ctx, msg))

	var recipients []*model.Recipient
	for _, e := range emails {
		rec := &model.Recipient{Owned: model.Owned{OwnerID: owner}, Email: e, FullName: e}
		require.NoError(t, s.Recipients().Create(ctx, rec))
		recipients = append(recipients, rec)
	}
	return msg, recipients
}

func TestRecipients_DuplicateEmail(t *testing.T) {
	s := NewStore()
	seed(t, s, nil, "a@x.com")

	err := s.Recipients().Create(context.Background(), &model.Recipient{Email: "A@x.com", FullName: "A"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestMailings_RecipientOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	msg, recs := seed(t, s, nil, "c@x.com", "a@x.com", "b@x.com")

	mailing := &model.Mailing{
		MessageID:    msg.ID,
		RecipientIDs: []uuid.UUID{recs[0].ID, recs[1].ID, recs[2].ID, recs[0].ID},
	}
	require.NoError(t, s.Mailings().Create(ctx, mailing))
	assert.Equal(t, model.MailingStatusCreated, mailing.Status)

	got, err := s.Mailings().ListRecipients(ctx, mailing.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c@x.com", got[0].Email)
	assert.Equal(t, "a@x.com", got[1].Email)
	assert.Equal(t, "b@x.com", got[2].Email)
}

func TestMailings_UnknownMessage(t *testing.T) {
	s := NewStore()
	err := s.Mailings().Create(context.Background(), &model.Mailing{MessageID: uuid.New()})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMessages_DeleteCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	msg, recs := seed(t, s, nil, "a@x.com")

	mailing := &model.Mailing{MessageID: msg.ID, RecipientIDs: []uuid.UUID{recs[0].ID}}
	require.NoError(t, s.Mailings().Create(ctx, mailing))
	require.NoError(t, s.Attempts().Create(ctx, &model.SendingAttempt{
		MailingID: mailing.ID, Status: model.AttemptStatusSuccess, RecipientEmail: "a@x.com",
	}))

	require.NoError(t, s.Messages().Delete(ctx, msg.ID))

	_, err := s.Mailings().Get(ctx, mailing.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	attempts, err := s.Attempts().List(ctx, model.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestUsers_DeleteOrphansRecords(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	user := &model.User{Email: "owner@x.com", Username: "owner"}
	require.NoError(t, s.Users().Create(ctx, user))
	msg, recs := seed(t, s, &user.ID, "a@x.com")
	mailing := &model.Mailing{Owned: model.Owned{OwnerID: &user.ID}, MessageID: msg.ID, RecipientIDs: []uuid.UUID{recs[0].ID}}
	require.NoError(t, s.Mailings().Create(ctx, mailing))

	require.NoError(t, s.Users().Delete(ctx, user.ID))

	gotMsg, err := s.Messages().Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.Nil(t, gotMsg.OwnerID)
	gotMailing, err := s.Mailings().Get(ctx, mailing.ID)
	require.NoError(t, err)
	assert.Nil(t, gotMailing.OwnerID)
}

func TestAttempts_OwnerFromMailing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()
	msg, recs := seed(t, s, &owner, "a@x.com")

	mailing := &model.Mailing{Owned: model.Owned{OwnerID: &owner}, MessageID: msg.ID, RecipientIDs: []uuid.UUID{recs[0].ID}}
	require.NoError(t, s.Mailings().Create(ctx, mailing))
	require.NoError(t, s.Attempts().Create(ctx, &model.SendingAttempt{MailingID: mailing.ID, Status: model.AttemptStatusFail}))

	mine, err := s.Attempts().List(ctx, model.ListFilter{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, owner, *mine[0].OwnerID)

	theirs, err := s.Attempts().List(ctx, model.ListFilter{OwnerID: &other})
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestRBAC_Permissions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	user := &model.User{Email: "m@x.com", Username: "m"}
	require.NoError(t, s.Users().Create(ctx, user))
	role := &model.Role{Name: model.RoleManager}
	require.NoError(t, s.RBAC().CreateRole(ctx, role))

	for _, name := range []string{model.PermViewMailing, model.PermDisableMailing, model.PermViewMailing} {
		perm, err := s.RBAC().EnsurePermission(ctx, name)
		require.NoError(t, err)
		require.NoError(t, s.RBAC().AddPermissionToRole(ctx, role.ID, perm.ID))
	}
	require.NoError(t, s.RBAC().AssignRoleToUser(ctx, user.ID, role.ID))

	perms, err := s.RBAC().GetUserPermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{model.PermDisableMailing, model.PermViewMailing}, perms)

	require.NoError(t, s.RBAC().DeleteAllRoles(ctx))
	roles, err := s.RBAC().GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestRecipients_ListOrphans(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	mine := uuid.New()
	seed(t, s, &mine, "mine@x.com")
	seed(t, s, nil, "orphan@x.com")
	other := uuid.New()
	seed(t, s, &other, "other@x.com")

	emails := func(filter model.ListFilter) []string {
		list, err := s.Recipients().List(ctx, filter)
		require.NoError(t, err)
		var out []string
		for _, r := range list {
			out = append(out, r.Email)
		}
		return out
	}

	assert.Equal(t, []string{"mine@x.com"}, emails(model.ListFilter{OwnerID: &mine}))
	assert.Equal(t, []string{"mine@x.com", "orphan@x.com"}, emails(model.ListFilter{OwnerID: &mine, IncludeOrphans: true}))
	assert.Len(t, emails(model.ListFilter{}), 3)
}
