package handlers

import (
	"strings"
	"time"

	"movie-catalog/helper"
	"movie-catalog/middleware"
	"movie-catalog/models"
	"movie-catalog/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit = 10
	maxPageLimit         = 100
)

type AdminHandler struct {
	adminService services.AdminService
	Helper       *helper.HTTPHelper
}

func NewAdminHandler(adminService services.AdminService, h *helper.HTTPHelper) *AdminHandler {
	return &AdminHandler{adminService: adminService, Helper: h}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard()
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Dashboard loaded", stats)
}

func (h *AdminHandler) MonthlyStats(c *gin.Context) {
	year, ok := h.Helper.QueryInt(c, "year", time.Now().UTC().Year())
	if !ok {
		return
	}

	stats, err := h.adminService.MonthlyStats(year)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Monthly statistics loaded", stats)
}

func (h *AdminHandler) RecentActivity(c *gin.Context) {
	limit, ok := h.Helper.QueryInt(c, "limit", defaultActivityLimit)
	if !ok {
		return
	}

	activity, err := h.adminService.RecentActivity(limit)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Recent activity loaded", activity)
}

func (h *AdminHandler) TopMovies(c *gin.Context) {
	limit, ok := h.Helper.QueryInt(c, "limit", defaultTopLimit)
	if !ok {
		return
	}

	movies, err := h.adminService.TopMovies(limit)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Top movies loaded", movies)
}

func (h *AdminHandler) pageParams(c *gin.Context) (models.PageParams, bool) {
	var params models.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "invalid pagination parameters")
		return params, false
	}
	if params.Limit > maxPageLimit {
		params.Limit = maxPageLimit
	}
	return params, true
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	params, ok := h.pageParams(c)
	if !ok {
		return
	}

	page, err := h.adminService.ListUsers(params.Page, params.Limit, models.UserFilter(strings.ToLower(params.Filter)))
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendPage(c, "Users loaded", page.Items, page.Page, page.Limit, page.Total)
}

func (h *AdminHandler) SearchUsers(c *gin.Context) {
	users, err := h.adminService.SearchUsers(c.Query("q"))
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Search results", users)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	var req models.AdminUpdateUserRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}
	actorID, _, _ := middleware.CurrentUser(c)

	user, err := h.adminService.UpdateUser(id, actorID, req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "User updated", user)
}

func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateUserStatusRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}
	actorID, _, _ := middleware.CurrentUser(c)

	user, err := h.adminService.UpdateUserStatus(id, actorID, *req.IsActive)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "User status updated", user)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateUserRoleRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}
	actorID, _, _ := middleware.CurrentUser(c)

	user, err := h.adminService.UpdateUserRole(id, actorID, req.Role)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "User role updated", user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	actorID, _, _ := middleware.CurrentUser(c)

	if err := h.adminService.DeleteUser(id, actorID); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "User deleted", nil)
}

func (h *AdminHandler) ListReviews(c *gin.Context) {
	params, ok := h.pageParams(c)
	if !ok {
		return
	}

	page, err := h.adminService.ListReviews(params.Page, params.Limit, models.ReviewFilter(strings.ToLower(params.Filter)))
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendPage(c, "Reviews loaded", page.Items, page.Page, page.Limit, page.Total)
}

func (h *AdminHandler) ListMovies(c *gin.Context) {
	params, ok := h.pageParams(c)
	if !ok {
		return
	}

	page, err := h.adminService.ListMovies(params.Page, params.Limit, models.MovieListParams{
		Sort:  models.MovieSort(strings.ToLower(params.Sort)),
		Order: models.SortOrder(strings.ToLower(params.Order)),
	})
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendPage(c, "Movies loaded", page.Items, page.Page, page.Limit, page.Total)
}

func (h *AdminHandler) ListGenres(c *gin.Context) {
	genres, err := h.adminService.GenresWithCounts()
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Genres loaded", genres)
}

func (h *AdminHandler) CreateGenre(c *gin.Context) {
	var req models.GenreRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	genre, err := h.adminService.CreateGenre(req.Name)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendCreated(c, "Genre created", genre)
}

func (h *AdminHandler) UpdateGenre(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	var req models.GenreRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	genre, err := h.adminService.UpdateGenre(id, req.Name)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Genre updated", genre)
}

func (h *AdminHandler) DeleteGenre(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteGenre(id); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Genre deleted", nil)
}

func (h *AdminHandler) SystemInfo(c *gin.Context) {
	info, err := h.adminService.SystemInfo()
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "System information", info)
}
