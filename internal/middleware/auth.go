package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/handler"
	"github.com/jwalitptl/client-connect/internal/model"
)

// Authenticator resolves a bearer token to an active user and its actor.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *access.Actor, error)
}

type AuthMiddleware struct {
	authService Authenticator
}

func NewAuthMiddleware(authService Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the JWT and stores the user and actor in the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			return
		}

		user, actor, err := m.authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			handler.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(handler.ContextUser, user)
		c.Set(handler.ContextActor, actor)
		c.Next()
	}
}
