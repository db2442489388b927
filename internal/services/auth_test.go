package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/ctxutil"
)

func newAuthService(t *testing.T, env *testEnv) *authService {
	t.Helper()
	svc := NewAuthService(env.db, testutil.Logger(t), env.userRepo, env.userTokenRepo, "test-secret", time.Hour, 24*time.Hour).(*authService)
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)
	ctx := context.Background()

	valid := SignupInput{FirstName: "Grace", LastName: "Hopper", Email: "Grace@Example.com ", Password: "cobol1"}
	cases := []struct {
		name string
		edit func(*SignupInput)
	}{
		{name: "short_first_name", edit: func(in *SignupInput) { in.FirstName = "Al" }},
		{name: "short_last_name", edit: func(in *SignupInput) { in.LastName = "Li" }},
		{name: "bad_email", edit: func(in *SignupInput) { in.Email = "not-an-email" }},
		{name: "short_password", edit: func(in *SignupInput) { in.Password = "12345" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.edit(&in)
			_, err := svc.Signup(ctx, in)
			ae := requireAPIError(t, err, http.StatusBadRequest, "validation_failed")
			if ae.Message == "" {
				t.Fatalf("expected a validation message")
			}
		})
	}

	u, err := svc.Signup(ctx, valid)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.Email != "grace@example.com" || u.Role != "user" || u.Password == "cobol1" {
		t.Fatalf("unexpected user: %+v", u)
	}

	_, err = svc.Signup(ctx, valid)
	requireAPIError(t, err, http.StatusConflict, "email_taken")
}

func TestLoginRefreshLogout(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "cobol1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, err := svc.Login(ctx, "grace@example.com", "wrong-password")
	requireAPIError(t, err, http.StatusForbidden, "invalid_credentials")
	_, err = svc.Login(ctx, "nobody@example.com", "cobol1")
	requireAPIError(t, err, http.StatusForbidden, "invalid_credentials")

	pair, err := svc.Login(ctx, "GRACE@example.com", "cobol1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.ExpiresIn != 3600 {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.UserID != pair.User.ID || rd.Role != "user" {
		t.Fatalf("unexpected request data: %+v", rd)
	}

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken || rotated.AccessToken == pair.AccessToken {
		t.Fatalf("expected rotated tokens")
	}
	if _, err := svc.SetContextFromToken(ctx, pair.AccessToken); err == nil {
		t.Fatalf("old access token must be revoked after refresh")
	}
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_refresh_token")

	if err := svc.Logout(ctx, rotated.AccessToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, rotated.AccessToken); err == nil {
		t.Fatalf("access token must be revoked after logout")
	}
}

func TestSetContextFromToken_Expired(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "cobol1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	pair, err := svc.Login(ctx, "grace@example.com", "cobol1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.SetContextFromToken(ctx, pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, "garbage"); err == nil || errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestBootstrapAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(t, env)
	ctx := context.Background()

	if err := svc.BootstrapAdmin(ctx, "root@example.com", "supersecret"); err != nil {
		t.Fatalf("BootstrapAdmin: %v", err)
	}
	// Second call is a no-op.
	if err := svc.BootstrapAdmin(ctx, "ROOT@example.com", "other"); err != nil {
		t.Fatalf("BootstrapAdmin again: %v", err)
	}
	users, err := env.userRepo.GetByEmails(dbctx.Of(ctx), []string{"root@example.com"})
	if err != nil || len(users) != 1 {
		t.Fatalf("expected one admin, got %d (%v)", len(users), err)
	}
	if !users[0].IsAdmin() {
		t.Fatalf("expected admin role, got %q", users[0].Role)
	}

	pair, err := svc.Login(ctx, "root@example.com", "supersecret")
	if err != nil {
		t.Fatalf("admin Login: %v", err)
	}
	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if ctxutil.GetRequestData(authed).Role != "admin" {
		t.Fatalf("expected admin role claim")
	}
}
