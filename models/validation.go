package models

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	MinMovieYear     = 1888
	MaxMovieYear     = 2024
	MaxTitleLength   = 255
	MaxMovieDuration = 600
	MinPasswordLen   = 8
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)
)

func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPassword requires at least eight characters with a digit, a
// lowercase and an uppercase letter.
func IsValidPassword(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return false
	}
	var digit, lower, upper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}

func IsValidMovieTitle(title string) bool {
	n := utf8.RuneCountInString(title)
	return n >= 1 && n <= MaxTitleLength
}

func IsValidYear(year int) bool {
	return year >= MinMovieYear && year <= MaxMovieYear
}

func IsValidDuration(minutes int) bool {
	return minutes >= 1 && minutes <= MaxMovieDuration
}

func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
