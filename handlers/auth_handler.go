package handlers

import (
	"net/http"

	"movie-catalog/helper"
	"movie-catalog/middleware"
	"movie-catalog/models"
	"movie-catalog/services"
	"movie-catalog/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  services.AuthService
	sessions     *session.Store
	secureCookie bool
	Helper       *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, sessions *session.Store, secureCookie bool, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessions:     sessions,
		secureCookie: secureCookie,
		Helper:       h,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	response, err := h.startSession(c, user)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendCreated(c, "Registration successful", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	user, err := h.authService.Login(req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}

	response, err := h.startSession(c, user)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Login successful", response)
}

// Logout drops the session, if any, and always clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.TokenFromRequest(c); token != "" {
		h.sessions.Invalidate(token)
	}
	h.setCookie(c, "", -1)
	h.Helper.SendSuccess(c, "Logout successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Current user", user)
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) (*models.AuthResponse, error) {
	token, err := h.sessions.Create(user.ID, user.Role)
	if err != nil {
		return nil, models.Internal("create session", err)
	}
	h.setCookie(c, token, int(h.sessions.TTL().Seconds()))
	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (h *AuthHandler) setCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookie, true)
}
