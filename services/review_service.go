package services

import (
	"movie-catalog/logger"
	"movie-catalog/models"
	"movie-catalog/repositories"
)

type ReviewService interface {
	CreateReview(userID uint, req models.CreateReviewRequest) (*models.Review, error)
	UpdateReview(reviewID, userID uint, req models.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(reviewID, userID uint) error
	AdminDeleteReview(reviewID uint) error
	ApproveReview(reviewID uint) error
	RejectReview(reviewID uint) error
	GetReview(reviewID uint) (*models.Review, error)
	GetMovieReviews(movieID uint) ([]models.Review, error)
	GetUserReviews(userID uint) ([]models.Review, error)
	ListPending() ([]models.Review, error)
	GetAverageRating(movieID uint) (float64, error)
	GetReviewCount(movieID uint) (int64, error)
}

type reviewService struct {
	reviewRepo      repositories.ReviewRepository
	movieRepo       repositories.MovieRepository
	requireApproval bool
}

// NewReviewService builds the review workflow. With requireApproval set,
// new reviews start unapproved and stay out of rating aggregates until an
// admin approves them.
func NewReviewService(reviewRepo repositories.ReviewRepository, movieRepo repositories.MovieRepository, requireApproval bool) ReviewService {
	return &reviewService{
		reviewRepo:      reviewRepo,
		movieRepo:       movieRepo,
		requireApproval: requireApproval,
	}
}

func (s *reviewService) CreateReview(userID uint, req models.CreateReviewRequest) (*models.Review, error) {
	if err := s.requireMovie(req.MovieID); err != nil {
		return nil, err
	}
	if !models.IsValidRating(req.Rating) {
		return nil, ratingError()
	}

	// advisory; idx_reviews_movie_user is what actually prevents duplicates
	exists, err := s.reviewRepo.ExistsForUser(req.MovieID, userID)
	if err != nil {
		return nil, storeErr("check existing review", err)
	}
	if exists {
		return nil, duplicateReviewError()
	}

	review := &models.Review{
		MovieID:    req.MovieID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsApproved: !s.requireApproval,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if isDuplicate(err) {
			return nil, duplicateReviewError()
		}
		return nil, storeErr("create review", err)
	}

	logger.Debugf("review %d created by user %d for movie %d", review.ID, userID, req.MovieID)
	return review, nil
}

func (s *reviewService) UpdateReview(reviewID, userID uint, req models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.GetReview(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, models.Forbiddenf("you can only edit your own reviews")
	}
	if !models.IsValidRating(req.Rating) {
		return nil, ratingError()
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, storeErr("update review", err)
	}
	return review, nil
}

func (s *reviewService) DeleteReview(reviewID, userID uint) error {
	review, err := s.GetReview(reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return models.Forbiddenf("you can only delete your own reviews")
	}
	return s.remove(reviewID)
}

func (s *reviewService) AdminDeleteReview(reviewID uint) error {
	return s.remove(reviewID)
}

func (s *reviewService) ApproveReview(reviewID uint) error {
	affected, err := s.reviewRepo.Approve(reviewID)
	if err != nil {
		return storeErr("approve review", err)
	}
	if affected == 0 {
		return reviewNotFound(reviewID)
	}
	return nil
}

// RejectReview deletes the review; there is no persisted rejected state.
func (s *reviewService) RejectReview(reviewID uint) error {
	return s.remove(reviewID)
}

func (s *reviewService) remove(reviewID uint) error {
	affected, err := s.reviewRepo.Delete(reviewID)
	if err != nil {
		return storeErr("delete review", err)
	}
	if affected == 0 {
		return reviewNotFound(reviewID)
	}
	return nil
}

func (s *reviewService) GetReview(reviewID uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, reviewNotFound(reviewID)
		}
		return nil, storeErr("load review", err)
	}
	return review, nil
}

// GetMovieReviews lists the approved reviews of a movie, newest first.
func (s *reviewService) GetMovieReviews(movieID uint) ([]models.Review, error) {
	if err := s.requireMovie(movieID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByMovie(movieID, true)
	if err != nil {
		return nil, storeErr("list movie reviews", err)
	}
	return reviews, nil
}

func (s *reviewService) GetUserReviews(userID uint) ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListByUser(userID)
	if err != nil {
		return nil, storeErr("list user reviews", err)
	}
	return reviews, nil
}

func (s *reviewService) ListPending() ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListPending()
	if err != nil {
		return nil, storeErr("list pending reviews", err)
	}
	return reviews, nil
}

func (s *reviewService) GetAverageRating(movieID uint) (float64, error) {
	avg, err := s.reviewRepo.AverageRating(movieID)
	if err != nil {
		return 0, storeErr("average rating", err)
	}
	return roundRating(avg), nil
}

func (s *reviewService) GetReviewCount(movieID uint) (int64, error) {
	count, err := s.reviewRepo.CountApproved(movieID)
	if err != nil {
		return 0, storeErr("count reviews", err)
	}
	return count, nil
}

func (s *reviewService) requireMovie(movieID uint) error {
	exists, err := s.movieRepo.Exists(movieID)
	if err != nil {
		return storeErr("load movie", err)
	}
	if !exists {
		return models.NotFoundf("movie %d not found", movieID)
	}
	return nil
}

func ratingError() error {
	return models.InvalidArgumentf("rating must be between %d and %d", models.MinRating, models.MaxRating)
}

func duplicateReviewError() error {
	return models.Conflictf("you have already reviewed this movie")
}

func reviewNotFound(id uint) error {
	return models.NotFoundf("review %d not found", id)
}
