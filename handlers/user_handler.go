package handlers

import (
	"movie-catalog/helper"
	"movie-catalog/middleware"
	"movie-catalog/models"
	"movie-catalog/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(authService services.AuthService, h *helper.HTTPHelper) *UserHandler {
	return &UserHandler{authService: authService, Helper: h}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Profile loaded", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	user, err := h.authService.UpdateProfile(userID, req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Profile updated", user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	if err := h.authService.ChangePassword(userID, req); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Password changed", nil)
}
