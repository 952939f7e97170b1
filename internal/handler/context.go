package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/client-connect/internal/access"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/pkg/errors"
)

// Keys under which request-scoped values are stored on the gin context.
const (
	ContextActor     = "actor"
	ContextUser      = "user"
	ContextRequestID = "request_id"
)

// CurrentActor returns the authenticated actor, or nil for anonymous requests.
func CurrentActor(c *gin.Context) *access.Actor {
	if v, ok := c.Get(ContextActor); ok {
		if actor, ok := v.(*access.Actor); ok {
			return actor
		}
	}
	return nil
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextUser); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// ParseID reads the :id path parameter.
func ParseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.BadRequest("invalid id", err)
	}
	return id, nil
}

// BindJSON decodes the request body into obj.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return errors.BadRequest("invalid request body", err)
	}
	return nil
}
