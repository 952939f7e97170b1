package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/client-connect/pkg/errors"
)

func respond(t *testing.T, err error) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, err)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", errors.NotFound("mailing", nil), http.StatusNotFound, "mailing not found"},
		{"forbidden", errors.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"wrapped conflict", fmt.Errorf("create: %w", errors.Conflict("recipient already exists", nil)), http.StatusConflict, "recipient already exists"},
		{"internal hides cause", errors.Internal(fmt.Errorf("pq: password authentication failed")), http.StatusInternalServerError, "internal server error"},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := respond(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	_, err := ParseID(c)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))

	c.Params = gin.Params{{Key: "id", Value: "6f1c1d4e-8a53-4c36-a1ef-3b1b0f6f5a10"}}
	id, err := ParseID(c)
	require.NoError(t, err)
	assert.Equal(t, "6f1c1d4e-8a53-4c36-a1ef-3b1b0f6f5a10", id.String())
}

func TestCurrentActorMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentActor(c))
	assert.Nil(t, CurrentUser(c))
}
