package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository/memory"
	"github.com/jwalitptl/client-connect/internal/service/mailing"
	apperrors "github.com/jwalitptl/client-connect/pkg/errors"
	"github.com/jwalitptl/client-connect/pkg/metrics"
)

type fakeTransport struct {
	reject map[string]error
	sent   []string
	onSend func(to string)
}

func (f *fakeTransport) Send(ctx context.Context, subject, body, from string, to []string) error {
	f.sent = append(f.sent, to[0])
	if f.onSend != nil {
		f.onSend(to[0])
	}
	return f.reject[to[0]]
}

type fixture struct {
	store      *memory.Store
	transport  *fakeTransport
	metrics    *metrics.Metrics
	dispatcher *Dispatcher
	owner      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	transport := &fakeTransport{reject: map[string]error{}}
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")

	return &fixture{
		store:     store,
		transport: transport,
		metrics:   m,
		owner:     uuid.New(),
		dispatcher: NewDispatcher(Config{
			Mailings:  store.Mailings(),
			Messages:  store.Messages(),
			Attempts:  store.Attempts(),
			Transport: transport,
			Tracker:   mailing.NewStatusTracker(store.Mailings(), nil, nil),
			From:      "noreply@x.com",
			Metrics:   m,
		}),
	}
}

func (f *fixture) mailing(t *testing.T, emails ...string) *model.Mailing {
	t.Helper()
	ctx := context.Background()

	msg := &model.Message{Owned: model.Owned{OwnerID: &f.owner}, Subject: "Hi", Body: "Hello there"}
	require.NoError(t, f.store.Messages().Create(ctx, msg))

	var ids []uuid.UUID
	for _, e := range emails {
		r := &model.Recipient{Owned: model.Owned{OwnerID: &f.owner}, Email: e, FullName: e}
		require.NoError(t, f.store.Recipients().Create(ctx, r))
		ids = append(ids, r.ID)
	}

	m := &model.Mailing{Owned: model.Owned{OwnerID: &f.owner}, MessageID: msg.ID, RecipientIDs: ids}
	require.NoError(t, f.store.Mailings().Create(ctx, m))
	return m
}

func (f *fixture) attempts(t *testing.T, m *model.Mailing) []*model.SendingAttempt {
	t.Helper()
	attempts, err := f.store.Attempts().ListByMailing(context.Background(), m.ID)
	require.NoError(t, err)
	return attempts
}

func TestDispatch_RecordsEveryRecipient(t *testing.T) {
	f := newFixture(t)
	m := f.mailing(t, "a@x.com", "b@x.com")
	f.transport.reject["b@x.com"] = errors.New("mailbox full")

	result, err := f.dispatcher.Dispatch(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Aborted)
	assert.Equal(t, model.MailingStatusDone, result.Status)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, f.transport.sent)

	attempts := f.attempts(t, m)
	require.Len(t, attempts, 2)
	assert.Equal(t, model.AttemptStatusSuccess, attempts[0].Status)
	assert.Equal(t, "message successfully sent to a@x.com", attempts[0].Answer)
	assert.Equal(t, model.AttemptStatusFail, attempts[1].Status)
	assert.Equal(t, "mailbox full", attempts[1].Answer)
	assert.Equal(t, f.owner, *attempts[1].OwnerID)

	stored, err := f.store.Mailings().Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MailingStatusDone, stored.Status)
	require.NotNil(t, stored.StartTime)
	require.NotNil(t, stored.EndTime)
	assert.False(t, stored.EndTime.Before(*stored.StartTime))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SendingAttempts.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SendingAttempts.WithLabelValues("fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DispatchCycles.WithLabelValues("done")))
}

func TestDispatch_NoRecipients(t *testing.T) {
	f := newFixture(t)
	m := f.mailing(t)

	result, err := f.dispatcher.Dispatch(context.Background(), m)
	assert.ErrorIs(t, err, ErrNoRecipients)
	assert.Nil(t, result)
	assert.Empty(t, f.attempts(t, m))

	stored, err := f.store.Mailings().Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MailingStatusCreated, stored.Status)
	assert.Nil(t, stored.StartTime)
}

func TestDispatch_MissingMessage(t *testing.T) {
	f := newFixture(t)
	m := f.mailing(t, "a@x.com")
	m.MessageID = uuid.New()

	_, err := f.dispatcher.Dispatch(context.Background(), m)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, f.transport.sent)
}

func TestDispatch_DisabledMidLoop(t *testing.T) {
	f := newFixture(t)
	m := f.mailing(t, "a@x.com", "b@x.com", "c@x.com")
	tracker := mailing.NewStatusTracker(f.store.Mailings(), nil, nil)

	f.transport.onSend = func(to string) {
		if to == "a@x.com" {
			other, err := f.store.Mailings().Get(context.Background(), m.ID)
			require.NoError(t, err)
			require.NoError(t, tracker.SetStatus(context.Background(), other, model.MailingStatusDisabled))
		}
	}

	result, err := f.dispatcher.Dispatch(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, result.Aborted)
	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, model.MailingStatusDisabled, result.Status)
	assert.Equal(t, []string{"a@x.com"}, f.transport.sent)
	assert.Len(t, f.attempts(t, m), 1)

	stored, err := f.store.Mailings().Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MailingStatusDisabled, stored.Status)
	assert.Nil(t, stored.EndTime)
}

func TestDispatch_AlreadyDisabled(t *testing.T) {
	f := newFixture(t)
	m := f.mailing(t, "a@x.com")
	tracker := mailing.NewStatusTracker(f.store.Mailings(), nil, nil)
	require.NoError(t, tracker.SetStatus(context.Background(), m, model.MailingStatusDisabled))

	_, err := f.dispatcher.Dispatch(context.Background(), m)
	assert.ErrorIs(t, err, ErrMailingDisabled)
	assert.Empty(t, f.transport.sent)
}

func TestDispatch_RelaunchKeepsStartTime(t *testing.T) {
	f := newFixture(t)
	m := f.mailing(t, "a@x.com")

	_, err := f.dispatcher.Dispatch(context.Background(), m)
	require.NoError(t, err)
	first := *m.StartTime

	_, err = f.dispatcher.Dispatch(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, first, *m.StartTime)
	assert.Len(t, f.attempts(t, m), 2)
}

func TestDispatch_ContextCancelled(t *testing.T) {
	f := newFixture(t)
	m := f.mailing(t, "a@x.com", "b@x.com")

	ctx, cancel := context.WithCancel(context.Background())
	f.transport.onSend = func(string) { cancel() }

	result, err := f.dispatcher.Dispatch(ctx, m)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, result.Attempted)
}
