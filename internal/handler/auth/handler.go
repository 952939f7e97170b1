package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/client-connect/internal/handler"
	"github.com/jwalitptl/client-connect/internal/model"
	"github.com/jwalitptl/client-connect/internal/service/auth"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.GET("/confirm/:token", h.ConfirmEmail)
		auth.POST("/login", h.Login)
		auth.POST("/password-reset", h.RequestPasswordReset)
		auth.POST("/password-reset/:token", h.ResetPassword)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, &handler.Response{
		Status:  "success",
		Message: "check your email to confirm the account",
		Data:    user,
	})
}

func (h *Handler) ConfirmEmail(c *gin.Context) {
	user, alreadyActive, err := h.svc.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	msg := "email confirmed, you can now log in"
	if alreadyActive {
		msg = "account is already active"
	}
	c.JSON(http.StatusOK, &handler.Response{Status: "success", Message: msg, Data: user})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req model.PasswordResetRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("password reset link sent"))
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.NewPasswordRequest
	if err := handler.BindJSON(c, &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), c.Param("token"), &req); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("password updated"))
}
