package models

import "time"

type DashboardStats struct {
	TotalUsers     int64      `json:"total_users"`
	TotalMovies    int64      `json:"total_movies"`
	TotalReviews   int64      `json:"total_reviews"`
	PendingReviews int64      `json:"pending_reviews"`
	AverageRating  float64    `json:"average_rating"`
	ActiveUsers    int64      `json:"active_users"`
	TodayUsers     int64      `json:"today_users"`
	TodayReviews   int64      `json:"today_reviews"`
	TodayMovies    int64      `json:"today_movies"`
	TopMovies      []TopMovie `json:"top_movies"`
}

type MonthlyStats struct {
	Month   int `json:"month"`
	Users   int `json:"users"`
	Reviews int `json:"reviews"`
	Movies  int `json:"movies"`
}

type TopMovie struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Year          int     `json:"year"`
	Director      string  `json:"director"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type ActivityType string

const (
	ActivityUserRegistered ActivityType = "user_registered"
	ActivityReviewAdded    ActivityType = "review_added"
	ActivityMovieAdded     ActivityType = "movie_added"
)

type Activity struct {
	Type         ActivityType `json:"type"`
	Username     string       `json:"username"`
	ActivityDate time.Time    `json:"activity_date"`
	MovieTitle   string       `json:"movie_title,omitempty"`
	Rating       *int         `json:"rating,omitempty"`
	Comment      string       `json:"comment,omitempty"`
}

type UserFilter string

const (
	UserFilterAll      UserFilter = "all"
	UserFilterActive   UserFilter = "active"
	UserFilterInactive UserFilter = "inactive"
	UserFilterAdmins   UserFilter = "admins"
)

// Page is one slice of a materialized listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type SystemInfo struct {
	DBDialect    string    `json:"db_dialect"`
	ServerTime   time.Time `json:"server_time"`
	GoVersion    string    `json:"go_version"`
	OS           string    `json:"os"`
	Platform     string    `json:"platform,omitempty"`
	Hostname     string    `json:"hostname,omitempty"`
	Uptime       uint64    `json:"uptime_seconds,omitempty"`
	NumCPU       int       `json:"num_cpu"`
	Goroutines   int       `json:"goroutines"`
	HeapAllocMB  uint64    `json:"heap_alloc_mb"`
	MemTotalMB   uint64    `json:"mem_total_mb,omitempty"`
	MemUsedMB    uint64    `json:"mem_used_mb,omitempty"`
	ActiveTokens int       `json:"active_sessions"`
}
