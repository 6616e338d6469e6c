package services

import (
	"errors"
	"math"

	"movie-catalog/models"

	"gorm.io/gorm"
)

func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// storeErr wraps a repository failure as an internal error.
func storeErr(op string, err error) error {
	return models.Internal(op, err)
}

// paginate slices an already materialized listing. A page past the end
// yields an empty page rather than an error.
func paginate[T any](items []T, page, limit int) (models.Page[T], error) {
	if page < 1 {
		return models.Page[T]{}, models.InvalidArgumentf("page must be at least 1")
	}
	if limit < 1 {
		return models.Page[T]{}, models.InvalidArgumentf("limit must be at least 1")
	}

	total := len(items)
	offset := total
	if page-1 <= total/limit {
		offset = (page - 1) * limit
	}
	end := total
	if total-offset > limit {
		end = offset + limit
	}

	window := make([]T, end-offset)
	copy(window, items[offset:end])

	return models.Page[T]{
		Items: window,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
