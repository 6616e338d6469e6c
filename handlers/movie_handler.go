package handlers

import (
	"strings"

	"movie-catalog/helper"
	"movie-catalog/models"
	"movie-catalog/services"

	"github.com/gin-gonic/gin"
)

const defaultTopLimit = 10

type MovieHandler struct {
	movieService services.MovieService
	Helper       *helper.HTTPHelper
}

func NewMovieHandler(movieService services.MovieService, h *helper.HTTPHelper) *MovieHandler {
	return &MovieHandler{movieService: movieService, Helper: h}
}

func (h *MovieHandler) GetMovies(c *gin.Context) {
	limit, ok := h.Helper.QueryInt(c, "limit", 0)
	if !ok {
		return
	}

	movies, err := h.movieService.ListMovies(models.MovieListParams{
		Sort:  models.MovieSort(strings.ToLower(c.Query("sort"))),
		Order: models.SortOrder(strings.ToLower(c.Query("order"))),
		Limit: limit,
	})
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Movies loaded", movies)
}

func (h *MovieHandler) SearchMovies(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		h.Helper.SendBadRequest(c, "search query is required")
		return
	}

	movies, err := h.movieService.SearchMovies(query)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Search results", movies)
}

func (h *MovieHandler) GetTopRated(c *gin.Context) {
	limit, ok := h.Helper.QueryInt(c, "limit", defaultTopLimit)
	if !ok {
		return
	}

	movies, err := h.movieService.GetTopRated(limit)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Top rated movies", movies)
}

func (h *MovieHandler) GetByYearRange(c *gin.Context) {
	from, ok := h.Helper.QueryInt(c, "from", models.MinMovieYear)
	if !ok {
		return
	}
	to, ok := h.Helper.QueryInt(c, "to", models.MaxMovieYear)
	if !ok {
		return
	}

	movies, err := h.movieService.GetMoviesByYearRange(from, to)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Movies loaded", movies)
}

func (h *MovieHandler) GetMovie(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	movie, err := h.movieService.GetMovieByID(id)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Movie loaded", movie)
}

func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req models.MovieRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	movie, err := h.movieService.CreateMovie(req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendCreated(c, "Movie created", movie)
}

func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	var req models.MovieRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	movie, err := h.movieService.UpdateMovie(id, req)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Movie updated", movie)
}

func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.movieService.DeleteMovie(id); err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Movie deleted", nil)
}

func (h *MovieHandler) AddGenres(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	var req models.MovieGenresRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	movie, err := h.movieService.AddGenresToMovie(id, req.Genres)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Genres added", movie)
}

func (h *MovieHandler) RemoveGenre(c *gin.Context) {
	id, ok := h.Helper.ParamID(c, "id")
	if !ok {
		return
	}
	genreID, ok := h.Helper.ParamID(c, "genreId")
	if !ok {
		return
	}

	movie, err := h.movieService.RemoveGenreFromMovie(id, genreID)
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Genre removed", movie)
}

func (h *MovieHandler) GetGenres(c *gin.Context) {
	genres, err := h.movieService.ListGenres()
	if err != nil {
		h.Helper.SendErrorFromErr(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Genres loaded", genres)
}
