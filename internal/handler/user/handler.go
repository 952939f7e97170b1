package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/client-connect/internal/handler"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/service/user"
)

type Handler struct {
	service user.UserServicer
}

func NewHandler(service user.UserServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.DELETE("/me", h.DeleteProfile)
		users.GET("/:id", h.GetUser)
		users.POST("/:id/activate", h.ActivateUser)
		users.POST("/:id/deactivate", h.DeactivateUser)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), handler.CurrentActor(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

func (h *Handler) GetProfile(c *gin.Context) {
	actor := handler.CurrentActor(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), actor, actor.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), handler.CurrentActor(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), handler.CurrentActor(c)); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), handler.CurrentActor(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) ActivateUser(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	u, err := h.service.ActivateUser(c.Request.Context(), handler.CurrentActor(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	u, err := h.service.DeactivateUser(c.Request.Context(), handler.CurrentActor(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}
