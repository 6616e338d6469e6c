package services

import (
	"strings"

	"movie-catalog/logger"
	"movie-catalog/models"
	"movie-catalog/repositories"
)

type MovieService interface {
	ListMovies(params models.MovieListParams) ([]models.Movie, error)
	SearchMovies(query string) ([]models.Movie, error)
	GetMovieByID(id uint) (*models.Movie, error)
	GetTopRated(limit int) ([]models.Movie, error)
	GetMoviesByYearRange(from, to int) ([]models.Movie, error)
	CreateMovie(req models.MovieRequest) (*models.Movie, error)
	UpdateMovie(id uint, req models.MovieRequest) (*models.Movie, error)
	DeleteMovie(id uint) error
	AddGenresToMovie(id uint, names []string) (*models.Movie, error)
	RemoveGenreFromMovie(id, genreID uint) (*models.Movie, error)
	ListGenres() ([]models.Genre, error)
}

type movieService struct {
	movieRepo repositories.MovieRepository
	genreRepo repositories.GenreRepository
}

func NewMovieService(movieRepo repositories.MovieRepository, genreRepo repositories.GenreRepository) MovieService {
	return &movieService{
		movieRepo: movieRepo,
		genreRepo: genreRepo,
	}
}

func (s *movieService) ListMovies(params models.MovieListParams) ([]models.Movie, error) {
	switch params.Sort {
	case models.SortDefault, models.SortRating, models.SortYear, models.SortTitle, models.SortReviews:
	default:
		return nil, models.InvalidArgumentf("unknown sort key %q", params.Sort)
	}
	switch params.Order {
	case models.OrderNone, models.OrderAsc, models.OrderDesc:
	default:
		return nil, models.InvalidArgumentf("order must be asc or desc")
	}
	if params.Limit < 0 {
		return nil, models.InvalidArgumentf("limit must not be negative")
	}

	movies, err := s.movieRepo.List(params)
	if err != nil {
		return nil, storeErr("list movies", err)
	}
	return roundMovies(movies), nil
}

func (s *movieService) SearchMovies(query string) ([]models.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.InvalidArgumentf("search query is required")
	}
	movies, err := s.movieRepo.Search(query)
	if err != nil {
		return nil, storeErr("search movies", err)
	}
	return roundMovies(movies), nil
}

// GetMovieByID returns the movie with its genres and every review,
// including the ones still waiting for approval.
func (s *movieService) GetMovieByID(id uint) (*models.Movie, error) {
	movie, err := s.movieRepo.GetDetail(id)
	if err != nil {
		if isNotFound(err) {
			return nil, movieNotFound(id)
		}
		return nil, storeErr("load movie", err)
	}
	movie.AverageRating = roundRating(movie.AverageRating)
	for i := range movie.Reviews {
		movie.Reviews[i].FillDisplayFields()
		movie.Reviews[i].MovieTitle = movie.Title
	}
	return movie, nil
}

func (s *movieService) GetTopRated(limit int) ([]models.Movie, error) {
	if limit < 1 {
		return nil, models.InvalidArgumentf("limit must be at least 1")
	}
	movies, err := s.movieRepo.TopRated(limit)
	if err != nil {
		return nil, storeErr("top rated movies", err)
	}
	return roundMovies(movies), nil
}

func (s *movieService) GetMoviesByYearRange(from, to int) ([]models.Movie, error) {
	if from > to {
		return nil, models.InvalidArgumentf("year range start %d is after end %d", from, to)
	}
	movies, err := s.movieRepo.ByYearRange(from, to)
	if err != nil {
		return nil, storeErr("movies by year", err)
	}
	return roundMovies(movies), nil
}

func (s *movieService) CreateMovie(req models.MovieRequest) (*models.Movie, error) {
	if err := validateMovie(req); err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(req.Genres)
	if err != nil {
		return nil, err
	}

	movie := &models.Movie{
		Title:       strings.TrimSpace(req.Title),
		Director:    strings.TrimSpace(req.Director),
		Year:        req.Year,
		Description: req.Description,
		Duration:    req.Duration,
		PosterURL:   strings.TrimSpace(req.PosterURL),
		Genres:      genres,
	}
	if err := s.movieRepo.Create(movie); err != nil {
		return nil, storeErr("create movie", err)
	}

	logger.Infof("movie %d created: %s (%d)", movie.ID, movie.Title, movie.Year)
	return s.reload(movie.ID)
}

// UpdateMovie overwrites the movie fields. Genres are replaced only when
// the request names at least one.
func (s *movieService) UpdateMovie(id uint, req models.MovieRequest) (*models.Movie, error) {
	if err := s.requireMovie(id); err != nil {
		return nil, err
	}
	if err := validateMovie(req); err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(req.Genres)
	if err != nil {
		return nil, err
	}

	movie := &models.Movie{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Director:    strings.TrimSpace(req.Director),
		Year:        req.Year,
		Description: req.Description,
		Duration:    req.Duration,
		PosterURL:   strings.TrimSpace(req.PosterURL),
	}
	if err := s.movieRepo.Update(movie, genres, len(req.Genres) > 0); err != nil {
		return nil, storeErr("update movie", err)
	}
	return s.reload(id)
}

func (s *movieService) DeleteMovie(id uint) error {
	if err := s.requireMovie(id); err != nil {
		return err
	}
	affected, err := s.movieRepo.Delete(id)
	if err != nil {
		return storeErr("delete movie", err)
	}
	if affected == 0 {
		return movieNotFound(id)
	}
	logger.Infof("movie %d deleted", id)
	return nil
}

func (s *movieService) AddGenresToMovie(id uint, names []string) (*models.Movie, error) {
	if err := s.requireMovie(id); err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(names)
	if err != nil {
		return nil, err
	}
	if err := s.movieRepo.AddGenres(id, genres); err != nil {
		return nil, storeErr("add genres", err)
	}
	return s.reload(id)
}

func (s *movieService) RemoveGenreFromMovie(id, genreID uint) (*models.Movie, error) {
	if err := s.requireMovie(id); err != nil {
		return nil, err
	}
	if _, err := s.genreRepo.GetByID(genreID); err != nil {
		if isNotFound(err) {
			return nil, models.NotFoundf("genre %d not found", genreID)
		}
		return nil, storeErr("load genre", err)
	}
	if err := s.movieRepo.RemoveGenre(id, genreID); err != nil {
		return nil, storeErr("remove genre", err)
	}
	return s.reload(id)
}

func (s *movieService) ListGenres() ([]models.Genre, error) {
	genres, err := s.genreRepo.GetAll()
	if err != nil {
		return nil, storeErr("list genres", err)
	}
	return genres, nil
}

// resolveGenres looks genres up by name, creating the missing ones.
// Names are matched case-insensitively and duplicates collapse.
func (s *movieService) resolveGenres(names []string) ([]models.Genre, error) {
	seen := make(map[string]bool, len(names))
	genres := make([]models.Genre, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		genre, err := s.genreRepo.GetByName(name)
		if err == nil {
			genres = append(genres, *genre)
			continue
		}
		if !isNotFound(err) {
			return nil, storeErr("load genre", err)
		}

		genre = &models.Genre{Name: name}
		if err := s.genreRepo.Create(genre); err != nil {
			if !isDuplicate(err) {
				return nil, storeErr("create genre", err)
			}
			// created concurrently
			if genre, err = s.genreRepo.GetByName(name); err != nil {
				return nil, storeErr("load genre", err)
			}
		}
		genres = append(genres, *genre)
	}
	return genres, nil
}

func (s *movieService) requireMovie(id uint) error {
	exists, err := s.movieRepo.Exists(id)
	if err != nil {
		return storeErr("load movie", err)
	}
	if !exists {
		return movieNotFound(id)
	}
	return nil
}

func (s *movieService) reload(id uint) (*models.Movie, error) {
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, movieNotFound(id)
		}
		return nil, storeErr("load movie", err)
	}
	movie.AverageRating = roundRating(movie.AverageRating)
	return movie, nil
}

func validateMovie(req models.MovieRequest) error {
	if !models.IsValidMovieTitle(strings.TrimSpace(req.Title)) {
		return models.InvalidArgumentf("title must be between 1 and %d characters", models.MaxTitleLength)
	}
	if !models.IsValidYear(req.Year) {
		return models.InvalidArgumentf("year must be between %d and %d", models.MinMovieYear, models.MaxMovieYear)
	}
	if !models.IsValidDuration(req.Duration) {
		return models.InvalidArgumentf("duration must be between 1 and %d minutes", models.MaxMovieDuration)
	}
	return nil
}

func roundMovies(movies []models.Movie) []models.Movie {
	for i := range movies {
		movies[i].AverageRating = roundRating(movies[i].AverageRating)
	}
	return movies
}

func movieNotFound(id uint) error {
	return models.NotFoundf("movie %d not found", id)
}
