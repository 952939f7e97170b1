package attempt

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/client-connect/internal/handler"
	"github.com/jwalitptl/client-connect/internal/service/attempt"
)

type Handler struct {
	service attempt.AttemptServicer
}

func NewHandler(service attempt.AttemptServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/sending-attempts", h.ListAttempts)
}

func (h *Handler) ListAttempts(c *gin.Context) {
	attempts, err := h.service.ListAttempts(c.Request.Context(), handler.CurrentActor(c), c.Query("status"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(attempts))
}
