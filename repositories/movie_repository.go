package repositories

import (
	"fmt"
	"strings"

	"movie-catalog/models"

	"gorm.io/gorm"
)

// ratingColumns aggregates approved reviews only; the join below filters
// on is_approved so unapproved rows never reach AVG or COUNT.
const ratingColumns = "movies.*, " +
	"COALESCE(CAST(AVG(reviews.rating) AS FLOAT), 0) AS average_rating, " +
	"COUNT(reviews.id) AS review_count"

type MovieRepository interface {
	List(params models.MovieListParams) ([]models.Movie, error)
	Search(query string) ([]models.Movie, error)
	GetByID(id uint) (*models.Movie, error)
	GetDetail(id uint) (*models.Movie, error)
	TopRated(limit int) ([]models.Movie, error)
	ByYearRange(from, to int) ([]models.Movie, error)
	Exists(id uint) (bool, error)
	Create(movie *models.Movie) error
	Update(movie *models.Movie, genres []models.Genre, replaceGenres bool) error
	Delete(id uint) (int64, error)
	AddGenres(movieID uint, genres []models.Genre) error
	RemoveGenre(movieID, genreID uint) error
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) withRatings() *gorm.DB {
	return r.db.Model(&models.Movie{}).
		Select(ratingColumns).
		Joins("LEFT JOIN reviews ON reviews.movie_id = movies.id AND reviews.is_approved = ?", true).
		Group("movies.id")
}

func (r *movieRepository) List(params models.MovieListParams) ([]models.Movie, error) {
	var movies []models.Movie

	query := r.withRatings().Preload("Genres", orderGenres).Order(movieOrder(params.Sort, params.Order))
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	err := query.Find(&movies).Error
	return movies, err
}

// movieOrder maps a sort key to an ORDER BY clause. Each key has its own
// default direction and ties always fall back to the id.
func movieOrder(sort models.MovieSort, order models.SortOrder) string {
	var column string
	var direction models.SortOrder

	switch sort {
	case models.SortRating:
		column, direction = "average_rating", models.OrderDesc
	case models.SortReviews:
		column, direction = "review_count", models.OrderDesc
	case models.SortYear:
		column, direction = "movies.year", models.OrderDesc
	case models.SortTitle:
		column, direction = "movies.title", models.OrderAsc
	default:
		return "movies.created_at desc, movies.id asc"
	}

	if order == models.OrderAsc || order == models.OrderDesc {
		direction = order
	}
	return fmt.Sprintf("%s %s, movies.id asc", column, direction)
}

func (r *movieRepository) Search(query string) ([]models.Movie, error) {
	var movies []models.Movie
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"

	err := r.withRatings().
		Preload("Genres", orderGenres).
		Where(`(LOWER(movies.title) LIKE ? ESCAPE '\' OR LOWER(movies.director) LIKE ? ESCAPE '\' OR LOWER(movies.description) LIKE ? ESCAPE '\')`,
			like, like, like).
		Order("movies.title asc, movies.id asc").
		Find(&movies).Error
	return movies, err
}

func (r *movieRepository) GetByID(id uint) (*models.Movie, error) {
	var movie models.Movie
	err := r.withRatings().
		Preload("Genres", orderGenres).
		Where("movies.id = ?", id).
		Take(&movie).Error
	return &movie, err
}

// GetDetail is GetByID plus every review of the movie, approved or not.
func (r *movieRepository) GetDetail(id uint) (*models.Movie, error) {
	var movie models.Movie
	err := r.withRatings().
		Preload("Genres", orderGenres).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.created_at desc, reviews.id desc")
		}).
		Preload("Reviews.User").
		Where("movies.id = ?", id).
		Take(&movie).Error
	return &movie, err
}

func (r *movieRepository) TopRated(limit int) ([]models.Movie, error) {
	var movies []models.Movie

	query := r.withRatings().
		Preload("Genres", orderGenres).
		Having("COUNT(reviews.id) > 0").
		Order("average_rating desc, review_count desc, movies.id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&movies).Error
	return movies, err
}

func (r *movieRepository) ByYearRange(from, to int) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.withRatings().
		Preload("Genres", orderGenres).
		Where("movies.year BETWEEN ? AND ?", from, to).
		Order("movies.year asc, movies.title asc, movies.id asc").
		Find(&movies).Error
	return movies, err
}

func (r *movieRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Movie{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *movieRepository) Create(movie *models.Movie) error {
	return r.db.Create(movie).Error
}

func (r *movieRepository) Update(movie *models.Movie, genres []models.Genre, replaceGenres bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(movie).
			Select("Title", "Director", "Year", "Description", "Duration", "PosterURL").
			Updates(movie).Error
		if err != nil {
			return err
		}
		if !replaceGenres {
			return nil
		}
		return tx.Model(movie).Association("Genres").Replace(genres)
	})
}

// Delete removes the movie, its reviews and its genre links.
func (r *movieRepository) Delete(id uint) (int64, error) {
	res := r.db.Select("Genres", "Reviews").Delete(&models.Movie{ID: id})
	return res.RowsAffected, res.Error
}

func (r *movieRepository) AddGenres(movieID uint, genres []models.Genre) error {
	if len(genres) == 0 {
		return nil
	}
	return r.db.Model(&models.Movie{ID: movieID}).Association("Genres").Append(genres)
}

func (r *movieRepository) RemoveGenre(movieID, genreID uint) error {
	return r.db.Model(&models.Movie{ID: movieID}).Association("Genres").Delete(&models.Genre{ID: genreID})
}

func orderGenres(db *gorm.DB) *gorm.DB {
	return db.Order("genres.name asc")
}
