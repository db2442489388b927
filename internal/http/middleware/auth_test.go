package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type tokenAuth struct {
	services.AuthService
	tokens map[string]*ctxutil.RequestData
}

func (a *tokenAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if token == "expired" {
		return nil, services.ErrTokenExpired
	}
	rd, ok := a.tokens[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (a *tokenAuth) AccessTTL() time.Duration { return time.Hour }

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := &tokenAuth{tokens: map[string]*ctxutil.RequestData{
		"learner": {UserID: uuid.New(), Role: types.RoleUser},
		"admin":   {UserID: uuid.New(), Role: types.RoleAdmin},
	}}
	am := NewAuthMiddleware(logger.Nop(), auth)

	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/admin", am.RequireAuth(), am.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		name   string
		path   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{name: "missing", path: "/me", setup: func(*http.Request) {}, status: http.StatusUnauthorized},
		{name: "bearer", path: "/me", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer learner") }, status: http.StatusNoContent},
		{name: "query", path: "/me?token=learner", setup: func(*http.Request) {}, status: http.StatusNoContent},
		{name: "cookie", path: "/me", setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "learner"}) }, status: http.StatusNoContent},
		{name: "unknown", path: "/me", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
		{name: "expired", path: "/me", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer expired") }, status: http.StatusUnauthorized, body: `"expired":true`},
		{name: "learner_on_admin", path: "/admin", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer learner") }, status: http.StatusForbidden},
		{name: "admin_on_admin", path: "/admin", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer admin") }, status: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.body != "" && !strings.Contains(rec.Body.String(), tc.body) {
				t.Fatalf("body %q missing %q", rec.Body.String(), tc.body)
			}
		})
	}
}
