package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"centrebooks/internal/core/apperror"
	appctx "centrebooks/internal/core/context"
	"centrebooks/internal/core/security"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth validates the bearer token and resolves it once into a principal.
// Handlers read the principal with security.GetPrincipal.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperror.NewUnauthorized("missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWith(c, apperror.NewUnauthorized("invalid authorization header format"))
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortWith(c, apperror.NewUnauthorized("invalid token"))
			return
		}

		// centre accounts without a valid centre are refused here, before any handler runs
		principal, err := security.PrincipalFromUser(user)
		if err != nil {
			abortWith(c, err)
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		ctx = security.WithPrincipal(ctx, principal)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.UserID)
		c.Next()
	}
}

// RequireAdmin rejects centre-bound principals.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := security.GetPrincipal(c.Request.Context()).RequireUnrestricted(); err != nil {
			abortWith(c, err)
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
