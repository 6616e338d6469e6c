package repositories

import (
	"time"

	"movie-catalog/models"

	"gorm.io/gorm"
)

// StatsRepository serves the read-only admin views. Time windows are
// half-open [from, to) and compared against UTC created_at values.
type StatsRepository interface {
	CountUsers() (int64, error)
	CountMovies() (int64, error)
	CountReviews() (int64, error)
	CountPendingReviews() (int64, error)
	CountReviewers() (int64, error)
	AverageApprovedRating() (float64, error)
	CountUsersBetween(from, to time.Time) (int64, error)
	CountMoviesBetween(from, to time.Time) (int64, error)
	CountReviewsBetween(from, to time.Time) (int64, error)
	UserCreationTimes(from, to time.Time) ([]time.Time, error)
	MovieCreationTimes(from, to time.Time) ([]time.Time, error)
	ReviewCreationTimes(from, to time.Time) ([]time.Time, error)
	RecentUsers(since time.Time, limit int) ([]models.User, error)
	RecentMovies(since time.Time, limit int) ([]models.Movie, error)
	RecentReviews(since time.Time, limit int) ([]models.Review, error)
	Dialect() string
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) count(model any, query ...any) (int64, error) {
	var n int64
	tx := r.db.Model(model)
	if len(query) > 0 {
		tx = tx.Where(query[0], query[1:]...)
	}
	err := tx.Count(&n).Error
	return n, err
}

func (r *statsRepository) CountUsers() (int64, error) {
	return r.count(&models.User{})
}

func (r *statsRepository) CountMovies() (int64, error) {
	return r.count(&models.Movie{})
}

func (r *statsRepository) CountReviews() (int64, error) {
	return r.count(&models.Review{})
}

func (r *statsRepository) CountPendingReviews() (int64, error) {
	return r.count(&models.Review{}, "is_approved = ?", false)
}

// CountReviewers counts users with at least one review.
func (r *statsRepository) CountReviewers() (int64, error) {
	var n int64
	err := r.db.Model(&models.Review{}).Distinct("user_id").Count(&n).Error
	return n, err
}

func (r *statsRepository) AverageApprovedRating() (float64, error) {
	var avg float64
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(CAST(AVG(rating) AS FLOAT), 0)").
		Where("is_approved = ?", true).
		Scan(&avg).Error
	return avg, err
}

func (r *statsRepository) CountUsersBetween(from, to time.Time) (int64, error) {
	return r.count(&models.User{}, "created_at >= ? AND created_at < ?", from, to)
}

func (r *statsRepository) CountMoviesBetween(from, to time.Time) (int64, error) {
	return r.count(&models.Movie{}, "created_at >= ? AND created_at < ?", from, to)
}

func (r *statsRepository) CountReviewsBetween(from, to time.Time) (int64, error) {
	return r.count(&models.Review{}, "created_at >= ? AND created_at < ?", from, to)
}

func (r *statsRepository) creationTimes(model any, from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.Model(model).
		Where("created_at >= ? AND created_at < ?", from, to).
		Pluck("created_at", &times).Error
	return times, err
}

func (r *statsRepository) UserCreationTimes(from, to time.Time) ([]time.Time, error) {
	return r.creationTimes(&models.User{}, from, to)
}

func (r *statsRepository) MovieCreationTimes(from, to time.Time) ([]time.Time, error) {
	return r.creationTimes(&models.Movie{}, from, to)
}

func (r *statsRepository) ReviewCreationTimes(from, to time.Time) ([]time.Time, error) {
	return r.creationTimes(&models.Review{}, from, to)
}

func (r *statsRepository) RecentUsers(since time.Time, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("created_at >= ?", since).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *statsRepository) RecentMovies(since time.Time, limit int) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.Where("created_at >= ?", since).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

func (r *statsRepository) RecentReviews(since time.Time, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("User").Preload("Movie").
		Where("created_at >= ?", since).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].FillDisplayFields()
	}
	return reviews, nil
}

func (r *statsRepository) Dialect() string {
	return r.db.Dialector.Name()
}
