package mailing

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/client-connect/internal/handler"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/service/dispatch"
	"github.com/jwalitptl/client-connect/internal/service/mailing"
	"github.com/jwalitptl/client-connect/pkg/errors"
)

// Dispatcher runs one send cycle for a mailing.
type Dispatcher interface {
	Dispatch(ctx context.Context, m *model.Mailing) (*dispatch.Result, error)
}

type Handler struct {
	service    mailing.MailingServicer
	dispatcher Dispatcher
}

func NewHandler(service mailing.MailingServicer, dispatcher Dispatcher) *Handler {
	return &Handler{service: service, dispatcher: dispatcher}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	mailings := r.Group("/mailings")
	{
		mailings.POST("", h.CreateMailing)
		mailings.GET("", h.ListMailings)
		mailings.GET("/:id", h.GetMailing)
		mailings.PUT("/:id", h.UpdateMailing)
		mailings.DELETE("/:id", h.DeleteMailing)
		mailings.POST("/:id/send", h.SendMailing)
		mailings.POST("/:id/disable", h.DisableMailing)
		mailings.GET("/:id/attempts", h.ListAttempts)
	}
}

func (h *Handler) CreateMailing(c *gin.Context) {
	var req model.MailingRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	m, err := h.service.CreateMailing(c.Request.Context(), handler.CurrentActor(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(m))
}

func (h *Handler) ListMailings(c *gin.Context) {
	mailings, err := h.service.ListMailings(c.Request.Context(), handler.CurrentActor(c), c.Query("status"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(mailings))
}

func (h *Handler) GetMailing(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	detail, err := h.service.GetMailing(c.Request.Context(), handler.CurrentActor(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(detail))
}

func (h *Handler) UpdateMailing(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.MailingRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	m, err := h.service.UpdateMailing(c.Request.Context(), handler.CurrentActor(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) DeleteMailing(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.service.DeleteMailing(c.Request.Context(), handler.CurrentActor(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendMailing runs the send cycle inside the request and redirects to the
// mailing's detail view.
func (h *Handler) SendMailing(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	m, err := h.service.Authorized(c.Request.Context(), handler.CurrentActor(c), id, model.PermSendMailing)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), m)
	switch {
	case stderrors.Is(err, dispatch.ErrNoRecipients):
		c.JSON(http.StatusOK, handler.NewWarningResponse("mailing has no recipients, nothing was sent", m))
		return
	case stderrors.Is(err, dispatch.ErrMailingDisabled):
		handler.RespondError(c, errors.BadRequest("mailing is disabled", err))
		return
	case err != nil:
		handler.RespondError(c, err)
		return
	}

	log.Info().
		Str("mailing_id", result.MailingID).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Bool("aborted", result.Aborted).
		Msg("Mailing dispatched")

	c.Redirect(http.StatusSeeOther, "/api/v1/mailings/"+m.ID.String())
}

func (h *Handler) DisableMailing(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	m, err := h.service.DisableMailing(c.Request.Context(), handler.CurrentActor(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) ListAttempts(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	attempts, err := h.service.ListAttempts(c.Request.Context(), handler.CurrentActor(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(attempts))
}
