package models

import (
	"time"
)

type Movie struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Director    string    `json:"director" gorm:"size:255"`
	Year        int       `json:"year" gorm:"index"`
	Description string    `json:"description" gorm:"type:text"`
	Duration    int       `json:"duration"`
	PosterURL   string    `json:"poster_url" gorm:"size:512"`
	Genres      []Genre   `json:"genres" gorm:"many2many:movie_genres;constraint:OnDelete:CASCADE"`
	Reviews     []Review  `json:"reviews,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Aggregates over approved reviews, filled by the listing queries.
	AverageRating float64 `json:"average_rating" gorm:"->;-:migration"`
	ReviewCount   int64   `json:"review_count" gorm:"->;-:migration"`
}

type Genre struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	Name       string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	CreatedAt  time.Time `json:"created_at"`
	MovieCount int64     `json:"movie_count" gorm:"->;-:migration"`
}

// MovieSort is the sort key accepted by the catalog listing.
type MovieSort string

const (
	SortDefault MovieSort = ""
	SortRating  MovieSort = "rating"
	SortYear    MovieSort = "year"
	SortTitle   MovieSort = "title"
	SortReviews MovieSort = "reviews"
)

type SortOrder string

const (
	OrderNone SortOrder = ""
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type MovieListParams struct {
	Sort  MovieSort
	Order SortOrder
	Limit int
}
