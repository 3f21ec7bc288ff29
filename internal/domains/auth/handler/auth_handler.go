package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aic-hub-backend/internal/config"
	"aic-hub-backend/internal/domains/auth"
	"aic-hub-backend/internal/shared/middleware"
	"aic-hub-backend/internal/shared/response"
	"aic-hub-backend/pkg/security"
)

const stateCookieName = "oauth_state"

type AuthHandler struct {
	service     auth.Service
	session     config.SessionConfig
	frontendURL string
}

func NewAuthHandler(service auth.Service, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service:     service,
		session:     cfg.Session,
		frontendURL: cfg.App.FrontendURL,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	result, err := h.service.Signup(c.Request.Context(), &req, middleware.GetClientIPFromContext(c.Request.Context()))
	if err != nil {
		status, code, message := auth.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusCreated, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req, middleware.GetClientIPFromContext(c.Request.Context()))
	if err != nil {
		status, code, message := auth.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, result)
}

// Logout handles POST /auth/logout. Stateless sessions mean logout is just
// clearing the cookie; the token stays valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// GithubLogin handles GET /auth/login/github
func (h *AuthHandler) GithubLogin(c *gin.Context) {
	authURL, signedState, err := h.service.GithubLoginURL(c.Request.Context())
	if err != nil {
		status, code, message := auth.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, signedState, int(security.StateMaxAge.Seconds()), "/", h.session.Domain, h.session.Secure, true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GithubCallback handles GET /auth/callback/github
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	signedState, _ := c.Cookie(stateCookieName)

	// The state cookie is single-use.
	c.SetCookie(stateCookieName, "", -1, "/", h.session.Domain, h.session.Secure, true)

	result, err := h.service.GithubCallback(c.Request.Context(), code, state, signedState, middleware.GetClientIPFromContext(c.Request.Context()))
	if err != nil {
		status, code, message := auth.GetErrorResponse(err)
		response.ErrorResponse(c, status, code, message)
		return
	}

	h.setSessionCookie(c, result.Token)
	if h.frontendURL != "" {
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, token, h.session.MaxAge, "/", h.session.Domain, h.session.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", h.session.Domain, h.session.Secure, true)
}
