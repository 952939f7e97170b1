package auth

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/repository/memory"
	"github.com/jwalitptl/client-connect/internal/service/rbac"
	"github.com/jwalitptl/client-connect/pkg/auth"
	"github.com/jwalitptl/client-connect/pkg/errors"
	"github.com/jwalitptl/client-connect/pkg/security"
	"github.com/jwalitptl/client-connect/pkg/validator"
)

type fakeMailer struct {
	verifications map[string]string
	resets        map[string]string
	fail          error
}

func (m *fakeMailer) SendVerification(ctx context.Context, email, token string) error {
	if m.fail != nil {
		return m.fail
	}
	m.verifications[email] = token
	return nil
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.resets[email] = token
	return nil
}

func newService() (*Service, *fakeMailer, *memory.Store) {
	store := memory.NewStore()
	mailer := &fakeMailer{verifications: map[string]string{}, resets: map[string]string{}}
	svc := NewService(store.Users(), rbac.NewService(store.RBAC()), auth.NewJWTService("secret", time.Hour),
		security.NewBcryptHasher(bcrypt.MinCost), mailer, validator.New())
	return svc, mailer, store
}

func register(t *testing.T, svc *Service, mailer *fakeMailer) string {
	t.Helper()
	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email: "Alice@X.com", Username: "alice", Password: "password1",
	})
	require.NoError(t, err)
	return mailer.verifications["alice@x.com"]
}

func TestRegisterConfirmLogin(t *testing.T) {
	svc, mailer, _ := newService()
	ctx := context.Background()

	token := register(t, svc, mailer)
	assert.Regexp(t, "^[0-9a-f]{32}$", token)

	_, err := svc.Login(ctx, &model.LoginRequest{Email: "alice@x.com", Password: "password1"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest), "inactive users cannot log in")

	user, already, err := svc.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	assert.False(t, already)
	assert.True(t, user.IsActive)

	_, already, err = svc.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, already)

	resp, err := svc.Login(ctx, &model.LoginRequest{Email: "alice@x.com", Password: "password1"})
	require.NoError(t, err)

	authed, actor, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.Equal(t, user.ID, actor.ID)
	assert.NotNil(t, authed.LastLoginAt)
	assert.False(t, actor.Elevated())
}

func TestRegister_Duplicate(t *testing.T) {
	svc, mailer, _ := newService()
	register(t, svc, mailer)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email: "alice@x.com", Username: "alice2", Password: "password1",
	})
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestRegister_MailFailureReleasesEmail(t *testing.T) {
	svc, mailer, store := newService()
	ctx := context.Background()

	mailer.fail = stderrors.New("smtp unavailable")
	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email: "alice@x.com", Username: "alice", Password: "password1",
	})
	assert.True(t, errors.Is(err, errors.ErrInternal))

	_, err = store.Users().GetByEmail(ctx, "alice@x.com")
	assert.Error(t, err)

	mailer.fail = nil
	token := register(t, svc, mailer)
	assert.NotEmpty(t, token)
}

func TestConfirmEmail_UnknownToken(t *testing.T) {
	svc, _, _ := newService()
	_, _, err := svc.ConfirmEmail(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mailer, _ := newService()
	ctx := context.Background()
	_, _, err := svc.ConfirmEmail(ctx, register(t, svc, mailer))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "alice@x.com", Password: "wrong-password"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
	_, err = svc.Login(ctx, &model.LoginRequest{Email: "bob@x.com", Password: "password1"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestPasswordReset(t *testing.T) {
	svc, mailer, _ := newService()
	ctx := context.Background()
	_, _, err := svc.ConfirmEmail(ctx, register(t, svc, mailer))
	require.NoError(t, err)

	err = svc.RequestPasswordReset(ctx, &model.PasswordResetRequest{Email: "ghost@x.com"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))

	require.NoError(t, svc.RequestPasswordReset(ctx, &model.PasswordResetRequest{Email: "alice@x.com"}))
	token := mailer.resets["alice@x.com"]
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, &model.NewPasswordRequest{Password: "new-password"}))
	_, err = svc.Login(ctx, &model.LoginRequest{Email: "alice@x.com", Password: "new-password"})
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, token, &model.NewPasswordRequest{Password: "another-one"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest), "tokens are single use")
}

func TestPasswordReset_Expired(t *testing.T) {
	svc, mailer, _ := newService()
	ctx := context.Background()
	_, _, err := svc.ConfirmEmail(ctx, register(t, svc, mailer))
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, &model.PasswordResetRequest{Email: "alice@x.com"}))
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err = svc.ResetPassword(ctx, mailer.resets["alice@x.com"], &model.NewPasswordRequest{Password: "new-password"})
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestAuthenticate_Rejects(t *testing.T) {
	svc, mailer, store := newService()
	ctx := context.Background()

	_, _, err := svc.Authenticate(ctx, "garbage")
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	register(t, svc, mailer)
	user, err := store.Users().GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	token, err := auth.NewJWTService("secret", time.Hour).GenerateAccessToken(user)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, token.AccessToken)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized), "inactive users are rejected")
}
