package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/client-connect/internal/model"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	user := &model.User{Email: "a@x.com"}
	user.ID = uuid.New()

	resp, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestJWT_Rejects(t *testing.T) {
	user := &model.User{Email: "a@x.com"}
	user.ID = uuid.New()

	resp, err := NewJWTService("secret", time.Hour).GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = NewJWTService("other", time.Hour).ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTService("secret", time.Hour).(*jwtService)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTService("secret", time.Hour).ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
