package repositories

import (
	"movie-catalog/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	ExistsForUser(movieID, userID uint) (bool, error)
	ListByMovie(movieID uint, approvedOnly bool) ([]models.Review, error)
	ListByUser(userID uint) ([]models.Review, error)
	ListAll() ([]models.Review, error)
	ListPending() ([]models.Review, error)
	Update(review *models.Review) error
	Delete(id uint) (int64, error)
	Approve(id uint) (int64, error)
	AverageRating(movieID uint) (float64, error)
	CountApproved(movieID uint) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review. A second review for the same movie and user
// fails on idx_reviews_movie_user with gorm.ErrDuplicatedKey.
func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("User").Preload("Movie").First(&review, id).Error
	if err == nil {
		review.FillDisplayFields()
	}
	return &review, err
}

func (r *reviewRepository) ExistsForUser(movieID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("movie_id = ? AND user_id = ?", movieID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) ListByMovie(movieID uint, approvedOnly bool) ([]models.Review, error) {
	query := r.newest().Where("reviews.movie_id = ?", movieID)
	if approvedOnly {
		query = query.Where("reviews.is_approved = ?", true)
	}
	return r.find(query)
}

func (r *reviewRepository) ListByUser(userID uint) ([]models.Review, error) {
	return r.find(r.newest().Where("reviews.user_id = ?", userID))
}

func (r *reviewRepository) ListAll() ([]models.Review, error) {
	return r.find(r.newest())
}

func (r *reviewRepository) ListPending() ([]models.Review, error) {
	return r.find(r.newest().Where("reviews.is_approved = ?", false))
}

func (r *reviewRepository) newest() *gorm.DB {
	return r.db.Preload("User").Preload("Movie").Order("reviews.created_at desc, reviews.id desc")
}

func (r *reviewRepository) find(query *gorm.DB) ([]models.Review, error) {
	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].FillDisplayFields()
	}
	return reviews, nil
}

func (r *reviewRepository) Update(review *models.Review) error {
	review.UpdatedAt = r.db.NowFunc()
	return r.db.Model(review).Select("Rating", "Comment", "UpdatedAt").Updates(review).Error
}

func (r *reviewRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.Review{}, id)
	return res.RowsAffected, res.Error
}

func (r *reviewRepository) Approve(id uint) (int64, error) {
	res := r.db.Model(&models.Review{}).Where("id = ?", id).Update("is_approved", true)
	return res.RowsAffected, res.Error
}

func (r *reviewRepository) AverageRating(movieID uint) (float64, error) {
	var avg float64
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(CAST(AVG(rating) AS FLOAT), 0)").
		Where("movie_id = ? AND is_approved = ?", movieID, true).
		Scan(&avg).Error
	return avg, err
}

func (r *reviewRepository) CountApproved(movieID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("movie_id = ? AND is_approved = ?", movieID, true).
		Count(&count).Error
	return count, err
}
