package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/triage-api/pkg/errors"
	"github.com/jwalitptl/triage-api/pkg/httputil"
)

// ErrorHandler logs any errors a handler attached to the context and, if no
// response was written, answers with the standard envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(RequestIDKey)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		if appErr, ok := lastErr.(*apperrors.AppError); ok {
			httputil.RespondWithError(c, appErr)
			return
		}
		c.JSON(http.StatusInternalServerError, httputil.Response{
			Success: false,
			Error: &httputil.Error{
				Code:    http.StatusInternalServerError,
				Message: "internal server error",
			},
		})
	}
}
