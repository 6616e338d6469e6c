package routes

import (
	"net/http"

	"movie-catalog/handlers"
	"movie-catalog/helper"
	"movie-catalog/middleware"
	"movie-catalog/repositories"
	"movie-catalog/services"
	"movie-catalog/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Options struct {
	ReviewsRequireApproval bool
	CookieSecure           bool
	// BcryptCost of 0 selects bcrypt.DefaultCost.
	BcryptCost int
}

func SetupRouter(db *gorm.DB, sessions *session.Store, opts Options) *gin.Engine {
	httpHelper := helper.NewHTTPHelper()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	movieRepo := repositories.NewMovieRepository(db)
	genreRepo := repositories.NewGenreRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, services.NewBcryptHasher(opts.BcryptCost))
	movieService := services.NewMovieService(movieRepo, genreRepo)
	reviewService := services.NewReviewService(reviewRepo, movieRepo, opts.ReviewsRequireApproval)
	adminService := services.NewAdminService(statsRepo, userRepo, reviewRepo, genreRepo, movieService, sessions)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, sessions, opts.CookieSecure, httpHelper)
	userHandler := handlers.NewUserHandler(authService, httpHelper)
	movieHandler := handlers.NewMovieHandler(movieService, httpHelper)
	reviewHandler := handlers.NewReviewHandler(reviewService, httpHelper)
	adminHandler := handlers.NewAdminHandler(adminService, httpHelper)

	guard := middleware.NewGuard(sessions, httpHelper)

	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", guard.RequireAuth(), authHandler.Me)
		}

		movies := api.Group("/movies")
		{
			movies.GET("", movieHandler.GetMovies)
			movies.GET("/search", movieHandler.SearchMovies)
			movies.GET("/top", movieHandler.GetTopRated)
			movies.GET("/years", movieHandler.GetByYearRange)
			movies.GET("/:id", movieHandler.GetMovie)

			admin := movies.Group("", guard.RequireAdmin())
			admin.POST("", movieHandler.CreateMovie)
			admin.PUT("/:id", movieHandler.UpdateMovie)
			admin.DELETE("/:id", movieHandler.DeleteMovie)
			admin.POST("/:id/genres", movieHandler.AddGenres)
			admin.DELETE("/:id/genres/:genreId", movieHandler.RemoveGenre)
		}

		api.GET("/genres", movieHandler.GetGenres)

		reviews := api.Group("/reviews")
		{
			reviews.GET("/movie/:movieId", reviewHandler.GetMovieReviews)
			reviews.GET("/my", guard.RequireAuth(), reviewHandler.GetMyReviews)
			reviews.GET("/pending", guard.RequireAdmin(), reviewHandler.GetPendingReviews)
			reviews.GET("/:id", reviewHandler.GetReview)

			owner := reviews.Group("", guard.RequireAuth())
			owner.POST("", reviewHandler.CreateReview)
			owner.PUT("/:id", reviewHandler.UpdateReview)
			owner.DELETE("/:id", reviewHandler.DeleteReview)

			moderation := reviews.Group("", guard.RequireAdmin())
			moderation.PATCH("/:id/approve", reviewHandler.ApproveReview)
			moderation.PATCH("/:id/reject", reviewHandler.RejectReview)
		}

		user := api.Group("/user", guard.RequireAuth())
		{
			user.GET("/profile", userHandler.GetProfile)
			user.PUT("/profile", userHandler.UpdateProfile)
			user.PUT("/password", userHandler.ChangePassword)
		}

		admin := api.Group("/admin", guard.RequireAdmin())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/stats/monthly", adminHandler.MonthlyStats)
			admin.GET("/activity", adminHandler.RecentActivity)
			admin.GET("/top-movies", adminHandler.TopMovies)
			admin.GET("/system", adminHandler.SystemInfo)

			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/search", adminHandler.SearchUsers)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.PATCH("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			admin.GET("/movies", adminHandler.ListMovies)
			admin.GET("/movies/search", movieHandler.SearchMovies)
			admin.POST("/movies", movieHandler.CreateMovie)
			admin.PUT("/movies/:id", movieHandler.UpdateMovie)
			admin.DELETE("/movies/:id", movieHandler.DeleteMovie)

			admin.GET("/reviews", adminHandler.ListReviews)
			admin.GET("/reviews/pending", reviewHandler.GetPendingReviews)
			admin.PATCH("/reviews/:id/approve", reviewHandler.ApproveReview)
			admin.PATCH("/reviews/:id/reject", reviewHandler.RejectReview)
			admin.DELETE("/reviews/:id", reviewHandler.AdminDeleteReview)

			admin.GET("/genres", adminHandler.ListGenres)
			admin.POST("/genres", adminHandler.CreateGenre)
			admin.PUT("/genres/:id", adminHandler.UpdateGenre)
			admin.DELETE("/genres/:id", adminHandler.DeleteGenre)
		}
	}

	return router
}
