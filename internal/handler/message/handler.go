package message

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/client-connect/internal/handler"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/service/message"
)

type Handler struct {
	service message.MessageServicer
}

func NewHandler(service message.MessageServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	{
		messages.POST("", h.CreateMessage)
		messages.GET("", h.ListMessages)
		messages.GET("/:id", h.GetMessage)
		messages.PUT("/:id", h.UpdateMessage)
		messages.DELETE("/:id", h.DeleteMessage)
	}
}

func (h *Handler) CreateMessage(c *gin.Context) {
	var req model.MessageRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	msg, err := h.service.CreateMessage(c.Request.Context(), handler.CurrentActor(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(msg))
}

func (h *Handler) ListMessages(c *gin.Context) {
	msgs, err := h.service.ListMessages(c.Request.Context(), handler.CurrentActor(c), c.Query("search"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(msgs))
}

func (h *Handler) GetMessage(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	msg, err := h.service.GetMessage(c.Request.Context(), handler.CurrentActor(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(msg))
}

func (h *Handler) UpdateMessage(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.MessageRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	msg, err := h.service.UpdateMessage(c.Request.Context(), handler.CurrentActor(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(msg))
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), handler.CurrentActor(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
