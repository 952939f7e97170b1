package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/client-connect/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// NewWarningResponse reports a request that succeeded without doing anything.
func NewWarningResponse(message string, data interface{}) *Response {
	return &Response{
		Status:  "warning",
		Message: message,
		Data:    data,
	}
}

// RespondError writes err as a JSON error. Internal errors are logged and
// replaced with a generic message.
func RespondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.Internal(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString(ContextRequestID)).
			Msg("Request failed")
		c.JSON(status, NewErrorResponse("internal server error"))
		return
	}
	c.JSON(status, NewErrorResponse(appErr.Message))
}
