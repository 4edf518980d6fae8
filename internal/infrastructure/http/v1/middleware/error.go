package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"centrebooks/internal/core/apperror"
	appctx "centrebooks/internal/core/context"
	"centrebooks/pkg/logger"
)

// ErrorHandler writes the last error registered with c.Error as the JSON
// error envelope. It is the only place that renders errors, apart from
// Recovery which runs when the chain never returns here.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, c.Errors.Last().Err)
	}
}

// writeError renders err. Causes stay in the log; unknown errors are
// reported as INTERNAL_ERROR carrying the request id.
func writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	appErr, ok := apperror.AsAppError(err)
	if !ok {
		logger.Error(ctx, "unhandled error", "error", err)
		appErr = apperror.NewInternal(err)
	} else if appErr.Err != nil {
		logger.Error(ctx, "request error", "code", appErr.Code, "cause", appErr.Err)
	}

	details := appErr.Details
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		if details == nil {
			details = map[string]any{}
		}
		if _, set := details["request_id"]; !set {
			details["request_id"] = appctx.GetRequestID(ctx)
		}
	}

	c.JSON(appErr.HTTPStatus, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": details,
	})
}
