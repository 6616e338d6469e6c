package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-catalog/config"
	"movie-catalog/middleware"
	"movie-catalog/models"
	"movie-catalog/repositories"
	"movie-catalog/services"
	"movie-catalog/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "Adm1nPassword"
	userPassword  = "Password123"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	CodeType   string          `json:"code_type"`
	Data       json.RawMessage `json:"data"`
	Pagination map[string]any  `json:"pagination"`
}

type RoutesTestSuite struct {
	suite.Suite
	db       *gorm.DB
	sessions *session.Store
	router   *gin.Engine

	adminToken string
}

func (suite *RoutesTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *RoutesTestSuite) SetupTest() {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(suite.T().Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := config.OpenDatabase(config.DriverSQLite, dsn, false)
	suite.Require().NoError(err)
	suite.Require().NoError(config.Migrate(db))
	suite.db = db

	seeder := services.NewAuthService(repositories.NewUserRepository(db), services.NewBcryptHasher(bcrypt.MinCost))
	suite.Require().NoError(seeder.EnsureAdmin("admin", adminEmail, adminPassword))

	suite.sessions = session.NewStore()
	suite.router = SetupRouter(db, suite.sessions, Options{BcryptCost: bcrypt.MinCost})
	suite.adminToken = suite.login(adminEmail, adminPassword)
}

func (suite *RoutesTestSuite) TearDownTest() {
	_ = config.CloseDB(suite.db)
}

func (suite *RoutesTestSuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (suite *RoutesTestSuite) decode(env envelope, dst any) {
	suite.Require().NoError(json.Unmarshal(env.Data, dst))
}

func (suite *RoutesTestSuite) register(username, email string) string {
	w, env := suite.do(http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: userPassword,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var auth models.AuthResponse
	suite.decode(env, &auth)
	suite.Require().NotEmpty(auth.Token)
	return auth.Token
}

func (suite *RoutesTestSuite) login(email, password string) string {
	w, env := suite.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: email, Password: password})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var auth models.AuthResponse
	suite.decode(env, &auth)
	return auth.Token
}

func (suite *RoutesTestSuite) createMovie(title string, year int) models.Movie {
	w, env := suite.do(http.MethodPost, "/api/movies", suite.adminToken, models.MovieRequest{
		Title:    title,
		Director: "Christopher Nolan",
		Year:     year,
		Duration: 148,
		Genres:   []string{"Sci-Fi"},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var movie models.Movie
	suite.decode(env, &movie)
	return movie
}

func (suite *RoutesTestSuite) TestHealth() {
	w, _ := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.NotEmpty(w.Header().Get(middleware.RequestIDHeader))
}

func (suite *RoutesTestSuite) TestRegisterSetsSessionCookie() {
	raw, _ := json.Marshal(models.RegisterRequest{Username: "alex", Email: "alex@example.com", Password: userPassword})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusCreated, w.Code)
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	suite.Require().NotNil(cookie)
	suite.True(cookie.HttpOnly)
	suite.Equal("/", cookie.Path)
	suite.Len(cookie.Value, 64)

	w, env := suite.do(http.MethodGet, "/api/auth/me", cookie.Value, nil)
	suite.Equal(http.StatusOK, w.Code)
	var me models.User
	suite.decode(env, &me)
	suite.Equal("alex", me.Username)
	suite.Equal(models.RoleUser, me.Role)
}

func (suite *RoutesTestSuite) TestRegisterValidation() {
	w, env := suite.do(http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Username: "a!",
		Email:    "not-an-email",
		Password: "short",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(env.Success)

	suite.register("alex", "alex@example.com")
	w, env = suite.do(http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Username: "alex2",
		Email:    "alex@example.com",
		Password: userPassword,
	})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("conflict", env.CodeType)
}

func (suite *RoutesTestSuite) TestLoginFailures() {
	suite.register("alex", "alex@example.com")

	w, _ := suite.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "alex@example.com", Password: "Wrong1234"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, _ = suite.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "nobody@example.com", Password: userPassword})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RoutesTestSuite) TestLogoutInvalidatesSession() {
	token := suite.register("alex", "alex@example.com")

	w, _ := suite.do(http.MethodPost, "/api/auth/logout", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodGet, "/api/auth/me", token, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RoutesTestSuite) TestGuardDistinguishesUnauthenticatedFromForbidden() {
	userToken := suite.register("alex", "alex@example.com")

	w, env := suite.do(http.MethodGet, "/api/admin/dashboard", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.False(env.Success)

	w, env = suite.do(http.MethodGet, "/api/admin/dashboard", userToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("forbidden", env.CodeType)

	w, _ = suite.do(http.MethodGet, "/api/admin/dashboard", suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodPost, "/api/reviews", "", models.CreateReviewRequest{MovieID: 1, Rating: 5})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, _ = suite.do(http.MethodPost, "/api/movies", userToken, models.MovieRequest{Title: "X", Year: 2000, Duration: 90})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RoutesTestSuite) TestReviewLifecycle() {
	movie := suite.createMovie("Inception", 2010)
	alex := suite.register("alex", "alex@example.com")
	sam := suite.register("sam", "sam@example.com")

	w, env := suite.do(http.MethodPost, "/api/reviews", alex, models.CreateReviewRequest{MovieID: movie.ID, Rating: 9, Comment: "Great"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var review models.Review
	suite.decode(env, &review)
	suite.True(review.IsApproved)

	w, _ = suite.do(http.MethodPost, "/api/reviews", alex, models.CreateReviewRequest{MovieID: movie.ID, Rating: 7})
	suite.Equal(http.StatusConflict, w.Code)

	w, _ = suite.do(http.MethodPost, "/api/reviews", sam, models.CreateReviewRequest{MovieID: movie.ID, Rating: 11})
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.do(http.MethodPost, "/api/reviews", sam, models.CreateReviewRequest{MovieID: 9999, Rating: 5})
	suite.Equal(http.StatusNotFound, w.Code)

	path := fmt.Sprintf("/api/reviews/%d", review.ID)
	w, _ = suite.do(http.MethodPut, path, sam, models.UpdateReviewRequest{Rating: 1})
	suite.Equal(http.StatusForbidden, w.Code)
	w, _ = suite.do(http.MethodDelete, path, sam, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, env = suite.do(http.MethodPut, path, alex, models.UpdateReviewRequest{Rating: 8, Comment: "Still great"})
	suite.Equal(http.StatusOK, w.Code)
	suite.decode(env, &review)
	suite.Equal(8, review.Rating)

	w, env = suite.do(http.MethodGet, fmt.Sprintf("/api/movies/%d", movie.ID), "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var detail models.Movie
	suite.decode(env, &detail)
	suite.Equal(8.0, detail.AverageRating)
	suite.EqualValues(1, detail.ReviewCount)

	w, env = suite.do(http.MethodGet, "/api/reviews/my", alex, nil)
	suite.Equal(http.StatusOK, w.Code)
	var mine []models.Review
	suite.decode(env, &mine)
	suite.Len(mine, 1)

	w, _ = suite.do(http.MethodDelete, path, alex, nil)
	suite.Equal(http.StatusOK, w.Code)
	w, _ = suite.do(http.MethodGet, path, "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RoutesTestSuite) TestModeration() {
	movie := suite.createMovie("Inception", 2010)
	alex := suite.register("alex", "alex@example.com")

	w, env := suite.do(http.MethodPost, "/api/reviews", alex, models.CreateReviewRequest{MovieID: movie.ID, Rating: 6})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var review models.Review
	suite.decode(env, &review)

	w, _ = suite.do(http.MethodPatch, fmt.Sprintf("/api/reviews/%d/approve", review.ID), alex, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do(http.MethodPatch, fmt.Sprintf("/api/admin/reviews/%d/approve", review.ID), suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodPatch, fmt.Sprintf("/api/admin/reviews/%d/reject", review.ID), suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodPatch, fmt.Sprintf("/api/admin/reviews/%d/reject", review.ID), suite.adminToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RoutesTestSuite) TestCatalogQueries() {
	inception := suite.createMovie("Inception", 2010)
	suite.createMovie("Memento", 2000)
	alex := suite.register("alex", "alex@example.com")

	w, _ := suite.do(http.MethodPost, "/api/reviews", alex, models.CreateReviewRequest{MovieID: inception.ID, Rating: 9})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w, env := suite.do(http.MethodGet, "/api/movies/top?limit=5", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var top []models.Movie
	suite.decode(env, &top)
	suite.Require().Len(top, 1)
	suite.Equal("Inception", top[0].Title)

	w, env = suite.do(http.MethodGet, "/api/movies?sort=year&order=asc", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var byYear []models.Movie
	suite.decode(env, &byYear)
	suite.Require().Len(byYear, 2)
	suite.Equal("Memento", byYear[0].Title)

	w, _ = suite.do(http.MethodGet, "/api/movies?sort=budget", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, env = suite.do(http.MethodGet, "/api/movies/search?q=MEM", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var found []models.Movie
	suite.decode(env, &found)
	suite.Len(found, 1)

	w, _ = suite.do(http.MethodGet, "/api/movies/search?q=%20", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, env = suite.do(http.MethodGet, "/api/movies/years?from=2005&to=2015", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var ranged []models.Movie
	suite.decode(env, &ranged)
	suite.Len(ranged, 1)

	w, _ = suite.do(http.MethodGet, "/api/movies/abc", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	w, _ = suite.do(http.MethodGet, "/api/movies/9999", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RoutesTestSuite) TestAdminUserPagination() {
	for i := 1; i <= 14; i++ {
		suite.register(fmt.Sprintf("user%02d", i), fmt.Sprintf("user%02d@example.com", i))
	}

	w, env := suite.do(http.MethodGet, "/api/admin/users?page=2&limit=10", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var users []models.UserWithStats
	suite.decode(env, &users)
	suite.Len(users, 5)
	suite.EqualValues(15, env.Pagination["total_records"])
	suite.EqualValues(2, env.Pagination["total_pages"])

	w, env = suite.do(http.MethodGet, "/api/admin/users?page=3&limit=10", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(env, &users)
	suite.Empty(users)

	w, _ = suite.do(http.MethodGet, "/api/admin/users?page=0", suite.adminToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, env = suite.do(http.MethodGet, "/api/admin/users?filter=admins", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(env, &users)
	suite.Require().Len(users, 1)
	suite.Equal("admin", users[0].Username)
}

func (suite *RoutesTestSuite) TestAdminDeactivationRevokesSessions() {
	token := suite.register("alex", "alex@example.com")

	var alex models.User
	suite.Require().NoError(suite.db.Where("email = ?", "alex@example.com").First(&alex).Error)

	active := false
	w, _ := suite.do(http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/status", alex.ID), suite.adminToken,
		models.UpdateUserStatusRequest{IsActive: &active})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, _ = suite.do(http.MethodGet, "/api/auth/me", token, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, _ = suite.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "alex@example.com", Password: userPassword})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *RoutesTestSuite) TestAdminUpdateUserRequiresActiveFlag() {
	token := suite.register("alex", "alex@example.com")

	var alex models.User
	suite.Require().NoError(suite.db.Where("email = ?", "alex@example.com").First(&alex).Error)
	path := fmt.Sprintf("/api/admin/users/%d", alex.ID)

	w, env := suite.do(http.MethodPut, path, suite.adminToken, map[string]string{
		"username": "alex_renamed",
		"email":    "alex@example.com",
		"role":     "USER",
	})
	suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
	suite.False(env.Success)

	suite.Require().NoError(suite.db.First(&alex, alex.ID).Error)
	suite.True(alex.IsActive)
	suite.Equal("alex", alex.Username)

	w, _ = suite.do(http.MethodGet, "/api/auth/me", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	active := true
	w, env = suite.do(http.MethodPut, path, suite.adminToken, models.AdminUpdateUserRequest{
		Username: "alex_renamed",
		Email:    "alex@example.com",
		Role:     "USER",
		IsActive: &active,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated models.User
	suite.decode(env, &updated)
	suite.Equal("alex_renamed", updated.Username)
	suite.True(updated.IsActive)

	w, _ = suite.do(http.MethodGet, "/api/auth/me", token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RoutesTestSuite) TestProfile() {
	token := suite.register("alex", "alex@example.com")

	w, env := suite.do(http.MethodGet, "/api/user/profile", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var profile models.UserProfile
	suite.decode(env, &profile)
	suite.Equal("alex", profile.Username)
	suite.Zero(profile.ReviewCount)

	w, _ = suite.do(http.MethodPut, "/api/user/password", token, models.ChangePasswordRequest{
		OldPassword: "Wrong1234",
		NewPassword: "NewPassword1",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.do(http.MethodPut, "/api/user/password", token, models.ChangePasswordRequest{
		OldPassword: userPassword,
		NewPassword: "NewPassword1",
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.NotEmpty(suite.login("alex@example.com", "NewPassword1"))
}

func (suite *RoutesTestSuite) TestGenres() {
	w, env := suite.do(http.MethodPost, "/api/admin/genres", suite.adminToken, models.GenreRequest{Name: "Drama"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var drama models.Genre
	suite.decode(env, &drama)

	w, _ = suite.do(http.MethodPost, "/api/admin/genres", suite.adminToken, models.GenreRequest{Name: "drama"})
	suite.Equal(http.StatusConflict, w.Code)

	w, env = suite.do(http.MethodGet, "/api/genres", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var genres []models.Genre
	suite.decode(env, &genres)
	suite.Len(genres, 1)

	w, _ = suite.do(http.MethodDelete, fmt.Sprintf("/api/admin/genres/%d", drama.ID), suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}
