// Package middleware provides HTTP middleware components.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"centrebooks/internal/core/apperror"
	"centrebooks/pkg/logger"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR response and
// renders it directly, since ErrorHandler is unwound by the panic. The stack
// goes to the log only. http.ErrAbortHandler is re-raised so the
// server drops the connection as net/http expects.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			ctx := c.Request.Context()
			logger.Error(ctx, "handler panicked",
				"panic", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			c.Abort()
			if !c.Writer.Written() {
				writeError(c, apperror.NewInternal(fmt.Errorf("panic: %v", rec)))
			}
		}()
		c.Next()
	}
}
