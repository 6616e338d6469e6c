package services

import (
	"runtime"
	"sort"
	"strings"
	"time"

	"movie-catalog/logger"
	"movie-catalog/models"
	"movie-catalog/repositories"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const (
	dashboardTopMovies = 5
	activityWindow     = 7 * 24 * time.Hour
)

// SessionRegistry is the part of the session store the admin views need.
type SessionRegistry interface {
	RevokeUser(userID uint) int
	Len() int
}

type AdminService interface {
	Dashboard() (*models.DashboardStats, error)
	MonthlyStats(year int) ([]models.MonthlyStats, error)
	TopMovies(limit int) ([]models.TopMovie, error)
	RecentActivity(limit int) ([]models.Activity, error)
	GenresWithCounts() ([]models.Genre, error)

	ListUsers(page, limit int, filter models.UserFilter) (models.Page[models.UserWithStats], error)
	SearchUsers(query string) ([]models.UserWithStats, error)
	UpdateUser(id, actorID uint, req models.AdminUpdateUserRequest) (*models.User, error)
	UpdateUserStatus(id, actorID uint, active bool) (*models.User, error)
	UpdateUserRole(id, actorID uint, role string) (*models.User, error)
	DeleteUser(id, actorID uint) error

	ListReviews(page, limit int, filter models.ReviewFilter) (models.Page[models.Review], error)
	ListMovies(page, limit int, params models.MovieListParams) (models.Page[models.Movie], error)

	CreateGenre(name string) (*models.Genre, error)
	UpdateGenre(id uint, name string) (*models.Genre, error)
	DeleteGenre(id uint) error

	SystemInfo() (*models.SystemInfo, error)
}

type adminService struct {
	statsRepo    repositories.StatsRepository
	userRepo     repositories.UserRepository
	reviewRepo   repositories.ReviewRepository
	genreRepo    repositories.GenreRepository
	movieService MovieService
	sessions     SessionRegistry
	now          func() time.Time
}

func NewAdminService(
	statsRepo repositories.StatsRepository,
	userRepo repositories.UserRepository,
	reviewRepo repositories.ReviewRepository,
	genreRepo repositories.GenreRepository,
	movieService MovieService,
	sessions SessionRegistry,
) AdminService {
	return &adminService{
		statsRepo:    statsRepo,
		userRepo:     userRepo,
		reviewRepo:   reviewRepo,
		genreRepo:    genreRepo,
		movieService: movieService,
		sessions:     sessions,
		now:          time.Now,
	}
}

// NewAdminServiceWithClock is NewAdminService with a fixed time source.
func NewAdminServiceWithClock(
	statsRepo repositories.StatsRepository,
	userRepo repositories.UserRepository,
	reviewRepo repositories.ReviewRepository,
	genreRepo repositories.GenreRepository,
	movieService MovieService,
	sessions SessionRegistry,
	now func() time.Time,
) AdminService {
	s := NewAdminService(statsRepo, userRepo, reviewRepo, genreRepo, movieService, sessions).(*adminService)
	s.now = now
	return s
}

func (s *adminService) Dashboard() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	counters := []struct {
		name string
		dst  *int64
		fn   func() (int64, error)
	}{
		{"count users", &stats.TotalUsers, s.statsRepo.CountUsers},
		{"count movies", &stats.TotalMovies, s.statsRepo.CountMovies},
		{"count reviews", &stats.TotalReviews, s.statsRepo.CountReviews},
		{"count pending reviews", &stats.PendingReviews, s.statsRepo.CountPendingReviews},
		{"count reviewers", &stats.ActiveUsers, s.statsRepo.CountReviewers},
	}
	for _, c := range counters {
		n, err := c.fn()
		if err != nil {
			return nil, storeErr(c.name, err)
		}
		*c.dst = n
	}

	avg, err := s.statsRepo.AverageApprovedRating()
	if err != nil {
		return nil, storeErr("average rating", err)
	}
	stats.AverageRating = roundRating(avg)

	from := startOfDay(s.now())
	to := from.AddDate(0, 0, 1)
	if stats.TodayUsers, err = s.statsRepo.CountUsersBetween(from, to); err != nil {
		return nil, storeErr("count today users", err)
	}
	if stats.TodayReviews, err = s.statsRepo.CountReviewsBetween(from, to); err != nil {
		return nil, storeErr("count today reviews", err)
	}
	if stats.TodayMovies, err = s.statsRepo.CountMoviesBetween(from, to); err != nil {
		return nil, storeErr("count today movies", err)
	}

	if stats.TopMovies, err = s.TopMovies(dashboardTopMovies); err != nil {
		return nil, err
	}
	return stats, nil
}

// MonthlyStats returns twelve rows for the year, one per month, with zero
// counts for months without activity.
func (s *adminService) MonthlyStats(year int) ([]models.MonthlyStats, error) {
	if year < 1 || year > 9999 {
		return nil, models.InvalidArgumentf("invalid year %d", year)
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	result := make([]models.MonthlyStats, 12)
	for i := range result {
		result[i].Month = i + 1
	}

	series := []struct {
		name  string
		fetch func(from, to time.Time) ([]time.Time, error)
		add   func(row *models.MonthlyStats)
	}{
		{"user creation times", s.statsRepo.UserCreationTimes, func(row *models.MonthlyStats) { row.Users++ }},
		{"review creation times", s.statsRepo.ReviewCreationTimes, func(row *models.MonthlyStats) { row.Reviews++ }},
		{"movie creation times", s.statsRepo.MovieCreationTimes, func(row *models.MonthlyStats) { row.Movies++ }},
	}
	for _, serie := range series {
		times, err := serie.fetch(from, to)
		if err != nil {
			return nil, storeErr(serie.name, err)
		}
		for _, t := range times {
			serie.add(&result[t.UTC().Month()-1])
		}
	}
	return result, nil
}

func (s *adminService) TopMovies(limit int) ([]models.TopMovie, error) {
	movies, err := s.movieService.GetTopRated(limit)
	if err != nil {
		return nil, err
	}
	top := make([]models.TopMovie, 0, len(movies))
	for _, m := range movies {
		top = append(top, models.TopMovie{
			ID:            m.ID,
			Title:         m.Title,
			Year:          m.Year,
			Director:      m.Director,
			AverageRating: m.AverageRating,
			ReviewCount:   m.ReviewCount,
		})
	}
	return top, nil
}

// RecentActivity merges registrations, reviews and new movies from the
// last seven days, newest first.
func (s *adminService) RecentActivity(limit int) ([]models.Activity, error) {
	if limit < 1 {
		return nil, models.InvalidArgumentf("limit must be at least 1")
	}
	since := s.now().UTC().Add(-activityWindow)

	users, err := s.statsRepo.RecentUsers(since, limit)
	if err != nil {
		return nil, storeErr("recent users", err)
	}
	reviews, err := s.statsRepo.RecentReviews(since, limit)
	if err != nil {
		return nil, storeErr("recent reviews", err)
	}
	movies, err := s.statsRepo.RecentMovies(since, limit)
	if err != nil {
		return nil, storeErr("recent movies", err)
	}

	activities := make([]models.Activity, 0, len(users)+len(reviews)+len(movies))
	for _, u := range users {
		activities = append(activities, models.Activity{
			Type:         models.ActivityUserRegistered,
			Username:     u.Username,
			ActivityDate: u.CreatedAt,
		})
	}
	for _, r := range reviews {
		rating := r.Rating
		activities = append(activities, models.Activity{
			Type:         models.ActivityReviewAdded,
			Username:     r.Username,
			ActivityDate: r.CreatedAt,
			MovieTitle:   r.MovieTitle,
			Rating:       &rating,
			Comment:      r.Comment,
		})
	}
	for _, m := range movies {
		activities = append(activities, models.Activity{
			Type:         models.ActivityMovieAdded,
			ActivityDate: m.CreatedAt,
			MovieTitle:   m.Title,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].ActivityDate.After(activities[j].ActivityDate)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

func (s *adminService) GenresWithCounts() ([]models.Genre, error) {
	genres, err := s.genreRepo.WithMovieCounts()
	if err != nil {
		return nil, storeErr("genre counts", err)
	}
	return genres, nil
}

func (s *adminService) ListUsers(page, limit int, filter models.UserFilter) (models.Page[models.UserWithStats], error) {
	var keep func(u models.UserWithStats) bool
	switch filter {
	case "", models.UserFilterAll:
	case models.UserFilterActive:
		keep = func(u models.UserWithStats) bool { return u.IsActive }
	case models.UserFilterInactive:
		keep = func(u models.UserWithStats) bool { return !u.IsActive }
	case models.UserFilterAdmins:
		keep = func(u models.UserWithStats) bool { return u.Role.IsAdmin() }
	default:
		return models.Page[models.UserWithStats]{}, models.InvalidArgumentf("unknown user filter %q", filter)
	}

	users, err := s.userRepo.ListWithStats()
	if err != nil {
		return models.Page[models.UserWithStats]{}, storeErr("list users", err)
	}
	return paginate(filterItems(users, keep), page, limit)
}

func (s *adminService) SearchUsers(query string) ([]models.UserWithStats, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.InvalidArgumentf("search query is required")
	}
	users, err := s.userRepo.Search(query)
	if err != nil {
		return nil, storeErr("search users", err)
	}
	return users, nil
}

func (s *adminService) UpdateUser(id, actorID uint, req models.AdminUpdateUserRequest) (*models.User, error) {
	user, err := s.loadUser(id)
	if err != nil {
		return nil, err
	}
	role, ok := models.ParseUserRole(req.Role)
	if !ok {
		return nil, models.InvalidArgumentf("role must be USER or ADMIN")
	}
	if req.IsActive == nil {
		return nil, models.InvalidArgumentf("is_active is required")
	}
	active := *req.IsActive
	if id == actorID && (!active || !role.IsAdmin()) {
		return nil, models.Forbiddenf("you cannot deactivate or demote your own account")
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if err := validateIdentity(username, email); err != nil {
		return nil, err
	}
	if err := checkUserAvailable(s.userRepo, username, email, id); err != nil {
		return nil, err
	}

	revoke := user.Role != role || (user.IsActive && !active)
	user.Username = username
	user.Email = email
	user.Role = role
	user.IsActive = active
	return s.saveUser(user, revoke)
}

func (s *adminService) UpdateUserStatus(id, actorID uint, active bool) (*models.User, error) {
	if id == actorID && !active {
		return nil, models.Forbiddenf("you cannot deactivate your own account")
	}
	user, err := s.loadUser(id)
	if err != nil {
		return nil, err
	}
	revoke := user.IsActive && !active
	user.IsActive = active
	return s.saveUser(user, revoke)
}

func (s *adminService) UpdateUserRole(id, actorID uint, role string) (*models.User, error) {
	parsed, ok := models.ParseUserRole(role)
	if !ok {
		return nil, models.InvalidArgumentf("role must be USER or ADMIN")
	}
	if id == actorID && !parsed.IsAdmin() {
		return nil, models.Forbiddenf("you cannot demote your own account")
	}
	user, err := s.loadUser(id)
	if err != nil {
		return nil, err
	}
	revoke := user.Role != parsed
	user.Role = parsed
	return s.saveUser(user, revoke)
}

// DeleteUser removes the user and their reviews and ends their sessions.
func (s *adminService) DeleteUser(id, actorID uint) error {
	if id == actorID {
		return models.Forbiddenf("you cannot delete your own account")
	}
	affected, err := s.userRepo.Delete(id)
	if err != nil {
		return storeErr("delete user", err)
	}
	if affected == 0 {
		return models.NotFoundf("user %d not found", id)
	}
	s.sessions.RevokeUser(id)
	logger.Infof("user %d deleted", id)
	return nil
}

func (s *adminService) loadUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NotFoundf("user %d not found", id)
		}
		return nil, storeErr("load user", err)
	}
	return user, nil
}

// saveUser persists the user; revoke ends the user's sessions so a lost
// role or a deactivation takes effect on the next request.
func (s *adminService) saveUser(user *models.User, revoke bool) (*models.User, error) {
	if err := s.userRepo.Update(user); err != nil {
		if isDuplicate(err) {
			return nil, models.Conflictf("username or email already registered")
		}
		return nil, storeErr("update user", err)
	}
	if revoke {
		n := s.sessions.RevokeUser(user.ID)
		logger.Infof("revoked %d sessions of user %d", n, user.ID)
	}
	return user, nil
}

func (s *adminService) ListReviews(page, limit int, filter models.ReviewFilter) (models.Page[models.Review], error) {
	var keep func(r models.Review) bool
	switch filter {
	case "", models.ReviewFilterAll:
	case models.ReviewFilterPending:
		keep = func(r models.Review) bool { return !r.IsApproved }
	case models.ReviewFilterApproved:
		keep = func(r models.Review) bool { return r.IsApproved }
	default:
		return models.Page[models.Review]{}, models.InvalidArgumentf("unknown review filter %q", filter)
	}

	reviews, err := s.reviewRepo.ListAll()
	if err != nil {
		return models.Page[models.Review]{}, storeErr("list reviews", err)
	}
	return paginate(filterItems(reviews, keep), page, limit)
}

func (s *adminService) ListMovies(page, limit int, params models.MovieListParams) (models.Page[models.Movie], error) {
	params.Limit = 0
	movies, err := s.movieService.ListMovies(params)
	if err != nil {
		return models.Page[models.Movie]{}, err
	}
	return paginate(movies, page, limit)
}

func (s *adminService) CreateGenre(name string) (*models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.InvalidArgumentf("genre name is required")
	}
	if err := s.genreNameFree(name, 0); err != nil {
		return nil, err
	}

	genre := &models.Genre{Name: name}
	if err := s.genreRepo.Create(genre); err != nil {
		if isDuplicate(err) {
			return nil, models.Conflictf("genre %q already exists", name)
		}
		return nil, storeErr("create genre", err)
	}
	return genre, nil
}

func (s *adminService) UpdateGenre(id uint, name string) (*models.Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.InvalidArgumentf("genre name is required")
	}
	genre, err := s.genreRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NotFoundf("genre %d not found", id)
		}
		return nil, storeErr("load genre", err)
	}
	if err := s.genreNameFree(name, id); err != nil {
		return nil, err
	}

	genre.Name = name
	if err := s.genreRepo.Update(genre); err != nil {
		if isDuplicate(err) {
			return nil, models.Conflictf("genre %q already exists", name)
		}
		return nil, storeErr("update genre", err)
	}
	return genre, nil
}

func (s *adminService) DeleteGenre(id uint) error {
	affected, err := s.genreRepo.Delete(id)
	if err != nil {
		return storeErr("delete genre", err)
	}
	if affected == 0 {
		return models.NotFoundf("genre %d not found", id)
	}
	return nil
}

func (s *adminService) genreNameFree(name string, exceptID uint) error {
	existing, err := s.genreRepo.GetByName(name)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return storeErr("load genre", err)
	}
	if existing.ID != exceptID {
		return models.Conflictf("genre %q already exists", existing.Name)
	}
	return nil
}

// SystemInfo reports runtime and host figures. Host probes that fail are
// logged and left empty.
func (s *adminService) SystemInfo() (*models.SystemInfo, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	info := &models.SystemInfo{
		DBDialect:    s.statsRepo.Dialect(),
		ServerTime:   s.now().UTC(),
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		NumCPU:       runtime.NumCPU(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAllocMB:  ms.HeapAlloc / 1024 / 1024,
		ActiveTokens: s.sessions.Len(),
	}

	if hostInfo, err := host.Info(); err != nil {
		logger.Warning("get host info failed:", err)
	} else {
		info.Hostname = hostInfo.Hostname
		info.Platform = strings.TrimSpace(hostInfo.Platform + " " + hostInfo.PlatformVersion)
		info.Uptime = hostInfo.Uptime
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		info.MemTotalMB = memInfo.Total / 1024 / 1024
		info.MemUsedMB = memInfo.Used / 1024 / 1024
	}

	return info, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func filterItems[T any](items []T, keep func(T) bool) []T {
	if keep == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
