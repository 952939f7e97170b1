package recipient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/client-connect/internal/handler"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/service/recipient"
)

type Handler struct {
	service recipient.RecipientServicer
}

func NewHandler(service recipient.RecipientServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	recipients := r.Group("/recipients")
	{
		recipients.POST("", h.CreateRecipient)
		recipients.GET("", h.ListRecipients)
		recipients.GET("/:id", h.GetRecipient)
		recipients.PUT("/:id", h.UpdateRecipient)
		recipients.DELETE("/:id", h.DeleteRecipient)
	}
}

func (h *Handler) CreateRecipient(c *gin.Context) {
	var req model.RecipientRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	rec, err := h.service.CreateRecipient(c.Request.Context(), handler.CurrentActor(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rec))
}

func (h *Handler) ListRecipients(c *gin.Context) {
	recs, err := h.service.ListRecipients(c.Request.Context(), handler.CurrentActor(c), c.Query("search"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(recs))
}

func (h *Handler) GetRecipient(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	rec, err := h.service.GetRecipient(c.Request.Context(), handler.CurrentActor(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

func (h *Handler) UpdateRecipient(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.RecipientRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	rec, err := h.service.UpdateRecipient(c.Request.Context(), handler.CurrentActor(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

func (h *Handler) DeleteRecipient(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.service.DeleteRecipient(c.Request.Context(), handler.CurrentActor(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
