package repositories

import (
	"strings"
	"time"

	"movie-catalog/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	EmailTaken(email string, exceptID uint) (bool, error)
	UsernameTaken(username string, exceptID uint) (bool, error)
	ListWithStats() ([]models.UserWithStats, error)
	Search(query string) ([]models.UserWithStats, error)
	Update(user *models.User) error
	UpdatePassword(id uint, passwordHash string) error
	Delete(id uint) (int64, error)
	CountReviews(id uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	return &user, err
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("LOWER(username) = ?", strings.ToLower(username)).First(&user).Error
	return &user, err
}

func (r *userRepository) EmailTaken(email string, exceptID uint) (bool, error) {
	return r.taken("LOWER(email) = ?", strings.ToLower(email), exceptID)
}

func (r *userRepository) UsernameTaken(username string, exceptID uint) (bool, error) {
	return r.taken("LOWER(username) = ?", strings.ToLower(username), exceptID)
}

func (r *userRepository) taken(cond string, value string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where(cond, value)
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ListWithStats() ([]models.UserWithStats, error) {
	var users []models.User
	if err := r.db.Order("created_at desc, id desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return r.withStats(users)
}

func (r *userRepository) Search(query string) ([]models.UserWithStats, error) {
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"

	var users []models.User
	err := r.db.Where(`(LOWER(username) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, like, like).
		Order("username asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return r.withStats(users)
}

// withStats attaches review counts and the latest review time. The review
// timestamps are folded in Go so the result does not depend on how the
// driver types MAX() over a timestamp column.
func (r *userRepository) withStats(users []models.User) ([]models.UserWithStats, error) {
	result := make([]models.UserWithStats, 0, len(users))
	if len(users) == 0 {
		return result, nil
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	var rows []struct {
		UserID    uint
		CreatedAt time.Time
	}
	err := r.db.Model(&models.Review{}).
		Select("user_id, created_at").
		Where("user_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(users))
	latest := make(map[uint]time.Time, len(users))
	for _, row := range rows {
		counts[row.UserID]++
		if row.CreatedAt.After(latest[row.UserID]) {
			latest[row.UserID] = row.CreatedAt
		}
	}

	for _, u := range users {
		item := models.UserWithStats{User: u, ReviewCount: counts[u.ID]}
		if t, ok := latest[u.ID]; ok {
			t := t
			item.LastReviewDate = &t
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Model(user).
		Select("Username", "Email", "Role", "IsActive").
		Updates(user).Error
}

func (r *userRepository) UpdatePassword(id uint, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error
}

// Delete removes the user together with their reviews.
func (r *userRepository) Delete(id uint) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *userRepository) CountReviews(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).Where("user_id = ?", id).Count(&count).Error
	return count, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
