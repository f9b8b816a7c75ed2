package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"manager-account-api/internal/apperror"
	dto "manager-account-api/internal/interface/api/rest/dto/account"
)

const msgPageNotFound = "Page not found"

// ErrorResponder turns the last error pushed with c.Error into the JSON
// error envelope. Internal causes are logged here and never sent.
func ErrorResponder(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperror.From(c.Errors.Last().Err)
		if appErr.Kind == apperror.KindInternal {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("url", c.FullPath()),
				zap.Error(appErr),
			)
		}

		c.JSON(appErr.HTTPStatus(), errorResponse(appErr.HTTPStatus(), appErr.Message, appErr.Details))
	}
}

func NotFound(c *gin.Context) {
	_ = c.Error(apperror.NotFound(msgPageNotFound))
}

func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(
			http.StatusInternalServerError,
			errorResponse(http.StatusInternalServerError, "internal server error", nil),
		)
	})
}

func errorResponse(status int, msg string, details []apperror.Detail) dto.ErrorResponse {
	body := dto.ErrorBody{Status: status, Message: msg}
	if len(details) > 0 {
		body.Details = details
	}
	return dto.ErrorResponse{Error: body}
}
