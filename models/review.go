package models

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 10
)

type Review struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	MovieID    uint      `json:"movie_id" gorm:"not null;uniqueIndex:idx_reviews_movie_user"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_movie_user;index"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
	IsApproved bool      `json:"is_approved" gorm:"not null;index"`
	User       *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Movie      *Movie    `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Username   string `json:"username,omitempty" gorm:"-"`
	MovieTitle string `json:"movie_title,omitempty" gorm:"-"`
}

// FillDisplayFields copies the joined username and movie title onto the
// flat response fields.
func (r *Review) FillDisplayFields() {
	if r.User != nil {
		r.Username = r.User.Username
	}
	if r.Movie != nil {
		r.MovieTitle = r.Movie.Title
	}
}

type ReviewFilter string

const (
	ReviewFilterAll      ReviewFilter = "all"
	ReviewFilterPending  ReviewFilter = "pending"
	ReviewFilterApproved ReviewFilter = "approved"
)
