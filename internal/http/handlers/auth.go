package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/http/middleware"
	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type AuthHandler struct {
	authService  services.AuthService
	secureCookie bool
}

func NewAuthHandler(authService services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := ah.authService.Signup(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "signup_failed")
		return
	}
	response.RespondCreated(c, gin.H{"message": "Signup succeeded", "user": user})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pair, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err, "login_failed")
		return
	}
	ah.setTokenCookie(c, pair.AccessToken, int(pair.ExpiresIn))
	response.RespondOK(c, gin.H{
		"message":      "Login successful",
		"token":        pair.AccessToken,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
		"user":         pair.User,
	})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("refreshToken is required"))
		return
	}
	pair, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondErr(c, err, "refresh_failed")
		return
	}
	ah.setTokenCookie(c, pair.AccessToken, int(pair.ExpiresIn))
	response.RespondOK(c, pair)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.TokenString != "" {
		token = rd.TokenString
	}
	if err := ah.authService.Logout(c.Request.Context(), token); err != nil {
		response.RespondErr(c, err, "logout_failed")
		return
	}
	ah.setTokenCookie(c, "", -1)
	response.RespondOK(c, gin.H{"message": "Logged out successfully"})
}

func (ah *AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, value, maxAge, "/", "", ah.secureCookie, true)
}
