package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrebooks/internal/core/apperror"
	appctx "centrebooks/internal/core/context"
)

type stubValidator struct {
	user *appctx.UserContext
}

func (v stubValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.user, nil
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.GET("/x", handlers...)
	return r
}

func serve(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	r := newEngine(func(c *gin.Context) { panic("boom") })

	rec := serve(r, map[string]string{HeaderRequestID: "req-1"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeInternal)
	assert.Contains(t, rec.Body.String(), `"request_id":"req-1"`)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRecoveryRethrowsAbortHandler(t *testing.T) {
	r := newEngine(func(c *gin.Context) { panic(http.ErrAbortHandler) })

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serve(r, nil)
	})
}

func TestTraceEchoesIncomingIDs(t *testing.T) {
	var seen *appctx.TraceContext
	r := newEngine(func(c *gin.Context) {
		seen = appctx.GetTrace(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	rec := serve(r, map[string]string{HeaderTraceID: "trace-7", HeaderRequestID: "req-7"})

	require.NotNil(t, seen)
	assert.Equal(t, "trace-7", seen.TraceID)
	assert.Equal(t, "req-7", seen.RequestID)
	assert.Equal(t, "trace-7", rec.Header().Get(HeaderTraceID))
	assert.Equal(t, "req-7", rec.Header().Get(HeaderRequestID))
}

func TestTraceGeneratesMissingIDs(t *testing.T) {
	r := newEngine(func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := serve(r, nil)

	assert.NotEmpty(t, rec.Header().Get(HeaderTraceID))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestAuth(t *testing.T) {
	admin := stubValidator{user: &appctx.UserContext{UserID: "u1", Role: appctx.RoleAdmin}}
	orphan := stubValidator{user: &appctx.UserContext{UserID: "u2", Role: appctx.RoleCentre}}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	tests := []struct {
		name      string
		validator JWTValidator
		header    string
		want      int
	}{
		{"missing header", admin, "", http.StatusUnauthorized},
		{"wrong scheme", admin, "Basic good", http.StatusUnauthorized},
		{"invalid token", admin, "Bearer nope", http.StatusUnauthorized},
		{"admin", admin, "Bearer good", http.StatusNoContent},
		{"centre account without centre", orphan, "Bearer good", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(Auth(tt.validator), ok)
			h := map[string]string{}
			if tt.header != "" {
				h["Authorization"] = tt.header
			}
			assert.Equal(t, tt.want, serve(r, h).Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	centre := stubValidator{user: &appctx.UserContext{
		UserID:   "u3",
		Role:     appctx.RoleCentre,
		CentreID: "0192f1a0-7c1e-7000-8000-000000000001",
	}}
	r := newEngine(Auth(centre), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := serve(r, map[string]string{"Authorization": "Bearer good"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeForbidden)
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := newEngine(rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, nil).Code)

	rec := serve(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeRateLimited)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
