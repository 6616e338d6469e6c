package repositories

import (
	"strings"

	"movie-catalog/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	Create(genre *models.Genre) error
	GetByID(id uint) (*models.Genre, error)
	GetByName(name string) (*models.Genre, error)
	GetAll() ([]models.Genre, error)
	WithMovieCounts() ([]models.Genre, error)
	Update(genre *models.Genre) error
	Delete(id uint) (int64, error)
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(genre *models.Genre) error {
	return r.db.Create(genre).Error
}

func (r *genreRepository) GetByID(id uint) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.First(&genre, id).Error
	return &genre, err
}

// GetByName matches case-insensitively.
func (r *genreRepository) GetByName(name string) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&genre).Error
	return &genre, err
}

func (r *genreRepository) GetAll() ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.Order("name asc").Find(&genres).Error
	return genres, err
}

func (r *genreRepository) WithMovieCounts() ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.Model(&models.Genre{}).
		Select("genres.*, COUNT(movie_genres.movie_id) AS movie_count").
		Joins("LEFT JOIN movie_genres ON movie_genres.genre_id = genres.id").
		Group("genres.id").
		Order("movie_count desc, genres.name asc").
		Find(&genres).Error
	return genres, err
}

func (r *genreRepository) Update(genre *models.Genre) error {
	return r.db.Model(genre).Select("Name").Updates(genre).Error
}

// Delete unlinks the genre from every movie before removing it.
func (r *genreRepository) Delete(id uint) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM movie_genres WHERE genre_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Genre{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}
