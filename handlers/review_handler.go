package handlers

import (
	"movie-catalog/helper"
	"movie-catalog/middleware"
	"movie-catalog/models"
	"movie-catalog/services"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	Helper        *helper.HTTPHelper
}

func NewReviewHandler(reviewService services.ReviewService, h *helper.HTTPHelper) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, Helper: h}
}

func (h *ReviewHandler) GetMovieReviews(c *gin.Context) {
	movieID, ok := h.Helper.ParamID(c, "movieId")
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetMovieReviews(movieID)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Reviews loaded", reviews)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(id)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Review loaded", review)
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	reviews, err := h.reviewService.GetUserReviews(userID)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Reviews loaded", reviews)
}

func (h *ReviewHandler) GetPendingReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListPending()
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Pending reviews loaded", reviews)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	review, err := h.reviewService.CreateReview(userID, req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendCreated(c, "Review created", review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateReviewRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	review, err := h.reviewService.UpdateReview(id, userID, req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Review updated", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	userID, _, _ := middleware.CurrentUser(c)

	if err := h.reviewService.DeleteReview(id, userID); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Review deleted", nil)
}

func (h *ReviewHandler) AdminDeleteReview(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.AdminDeleteReview(id); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Review deleted", nil)
}

func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.ApproveReview(id); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Review approved", nil)
}

func (h *ReviewHandler) RejectReview(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.RejectReview(id); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Review rejected", nil)
}
