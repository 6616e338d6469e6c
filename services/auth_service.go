package services

import (
	"strings"

	"movie-catalog/logger"
	"movie-catalog/models"
	"movie-catalog/repositories"
)

type AuthService interface {
	Register(req models.RegisterRequest) (*models.User, error)
	Login(req models.LoginRequest) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetProfile(id uint) (*models.UserProfile, error)
	UpdateProfile(id uint, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(id uint, req models.ChangePasswordRequest) error
	EnsureAdmin(username, email, password string) error
}

type authService struct {
	userRepo repositories.UserRepository
	hasher   PasswordHasher
}

func NewAuthService(userRepo repositories.UserRepository, hasher PasswordHasher) AuthService {
	return &authService{userRepo: userRepo, hasher: hasher}
}

func (s *authService) Register(req models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if err := validateIdentity(username, email); err != nil {
		return nil, err
	}
	if !models.IsValidPassword(req.Password) {
		return nil, models.InvalidArgumentf("password must be at least %d characters and contain a digit, a lowercase and an uppercase letter", models.MinPasswordLen)
	}
	if err := checkUserAvailable(s.userRepo, username, email, 0); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, storeErr("hash password", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		if isDuplicate(err) {
			return nil, models.Conflictf("username or email already registered")
		}
		return nil, storeErr("create user", err)
	}

	logger.Infof("user %d registered as %s", user.ID, user.Username)
	return user, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, models.Unauthorizedf("invalid email or password")
		}
		return nil, storeErr("load user", err)
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, models.Unauthorizedf("invalid email or password")
	}
	if !user.IsActive {
		return nil, models.Forbiddenf("account is deactivated")
	}
	return user, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NotFoundf("user %d not found", id)
		}
		return nil, storeErr("load user", err)
	}
	return user, nil
}

func (s *authService) GetProfile(id uint) (*models.UserProfile, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	count, err := s.userRepo.CountReviews(id)
	if err != nil {
		return nil, storeErr("count reviews", err)
	}
	return &models.UserProfile{User: *user, ReviewCount: int(count)}, nil
}

func (s *authService) UpdateProfile(id uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if err := validateIdentity(username, email); err != nil {
		return nil, err
	}
	if err := checkUserAvailable(s.userRepo, username, email, id); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if err := s.userRepo.Update(user); err != nil {
		if isDuplicate(err) {
			return nil, models.Conflictf("username or email already registered")
		}
		return nil, storeErr("update user", err)
	}
	return user, nil
}

func (s *authService) ChangePassword(id uint, req models.ChangePasswordRequest) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(req.OldPassword, user.Password) {
		return models.InvalidArgumentf("current password is incorrect")
	}
	if !models.IsValidPassword(req.NewPassword) {
		return models.InvalidArgumentf("password must be at least %d characters and contain a digit, a lowercase and an uppercase letter", models.MinPasswordLen)
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return storeErr("hash password", err)
	}
	if err := s.userRepo.UpdatePassword(id, hashed); err != nil {
		return storeErr("update password", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account unless a user with that
// email already exists. Empty credentials skip seeding.
func (s *authService) EnsureAdmin(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return nil
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err == nil {
		if !existing.Role.IsAdmin() {
			logger.Warningf("bootstrap admin email %s belongs to a non-admin user", email)
		}
		return nil
	}
	if !isNotFound(err) {
		return storeErr("load user", err)
	}

	user, err := s.Register(models.RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return err
	}
	user.Role = models.RoleAdmin
	if err := s.userRepo.Update(user); err != nil {
		return storeErr("promote admin", err)
	}
	logger.Infof("bootstrap admin %s created", user.Username)
	return nil
}

func validateIdentity(username, email string) error {
	if !models.IsValidUsername(username) {
		return models.InvalidArgumentf("username must be 3-20 characters of letters, digits or underscore")
	}
	if !models.IsValidEmail(email) {
		return models.InvalidArgumentf("invalid email address")
	}
	return nil
}

func checkUserAvailable(users repositories.UserRepository, username, email string, exceptID uint) error {
	taken, err := users.EmailTaken(email, exceptID)
	if err != nil {
		return storeErr("check email", err)
	}
	if taken {
		return models.Conflictf("email already registered")
	}
	taken, err = users.UsernameTaken(username, exceptID)
	if err != nil {
		return storeErr("check username", err)
	}
	if taken {
		return models.Conflictf("username already taken")
	}
	return nil
}
