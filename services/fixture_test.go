package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"movie-catalog/config"
	"movie-catalog/models"
	"movie-catalog/repositories"
	"movie-catalog/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db *gorm.DB

	userRepo   repositories.UserRepository
	movieRepo  repositories.MovieRepository
	genreRepo  repositories.GenreRepository
	reviewRepo repositories.ReviewRepository
	statsRepo  repositories.StatsRepository

	hasher   PasswordHasher
	sessions *session.Store

	auth    AuthService
	movies  MovieService
	reviews ReviewService
	admin   AdminService
}

var fixtureNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := config.OpenDatabase(config.DriverSQLite, dsn, false)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		_ = config.CloseDB(db)
	})
	return db
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithApproval(t, false)
}

func newFixtureWithApproval(t *testing.T, requireApproval bool) *fixture {
	t.Helper()

	db := openTestDB(t)
	f := &fixture{
		db:         db,
		userRepo:   repositories.NewUserRepository(db),
		movieRepo:  repositories.NewMovieRepository(db),
		genreRepo:  repositories.NewGenreRepository(db),
		reviewRepo: repositories.NewReviewRepository(db),
		statsRepo:  repositories.NewStatsRepository(db),
		hasher:     NewBcryptHasher(bcrypt.MinCost),
		sessions:   session.NewStore(),
	}

	f.auth = NewAuthService(f.userRepo, f.hasher)
	f.movies = NewMovieService(f.movieRepo, f.genreRepo)
	f.reviews = NewReviewService(f.reviewRepo, f.movieRepo, requireApproval)
	f.admin = NewAdminServiceWithClock(f.statsRepo, f.userRepo, f.reviewRepo, f.genreRepo, f.movies, f.sessions,
		func() time.Time { return fixtureNow })
	return f
}

func (f *fixture) user(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	return f.userAt(t, username, role, time.Time{})
}

func (f *fixture) userAt(t *testing.T, username string, role models.UserRole, createdAt time.Time) *models.User {
	t.Helper()

	hashed, err := f.hasher.Hash("Password1")
	require.NoError(t, err)

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  hashed,
		Role:      role,
		IsActive:  true,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.userRepo.Create(user))
	return user
}

func (f *fixture) movie(t *testing.T, title string, year int) *models.Movie {
	t.Helper()
	return f.movieAt(t, title, year, time.Time{})
}

func (f *fixture) movieAt(t *testing.T, title string, year int, createdAt time.Time) *models.Movie {
	t.Helper()

	movie := &models.Movie{
		Title:     title,
		Director:  "Director of " + title,
		Year:      year,
		Duration:  120,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.movieRepo.Create(movie))
	return movie
}

// review inserts straight through the repository so tests can seed
// unapproved rows and fixed timestamps.
func (f *fixture) review(t *testing.T, movieID, userID uint, rating int, approved bool) *models.Review {
	t.Helper()
	return f.reviewAt(t, movieID, userID, rating, approved, time.Time{})
}

func (f *fixture) reviewAt(t *testing.T, movieID, userID uint, rating int, approved bool, createdAt time.Time) *models.Review {
	t.Helper()

	review := &models.Review{
		MovieID:    movieID,
		UserID:     userID,
		Rating:     rating,
		Comment:    fmt.Sprintf("rated %d", rating),
		IsApproved: approved,
		CreatedAt:  createdAt,
	}
	require.NoError(t, f.reviewRepo.Create(review))
	return review
}

func assertKind[T error](t *testing.T, err error) {
	t.Helper()
	var target T
	assert.ErrorAs(t, err, &target)
}
