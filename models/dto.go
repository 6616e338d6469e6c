package models

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the session token for clients that cannot keep the
// cookie and send it as a bearer token instead.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,password"`
}

type MovieRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Director    string   `json:"director" validate:"max=255"`
	Year        int      `json:"year" validate:"required,min=1888,max=2024"`
	Description string   `json:"description"`
	Duration    int      `json:"duration" validate:"required,min=1,max=600"`
	PosterURL   string   `json:"poster_url" validate:"max=512"`
	Genres      []string `json:"genres" validate:"dive,required,max=100"`
}

type MovieGenresRequest struct {
	Genres []string `json:"genres" validate:"required,min=1,dive,required,max=100"`
}

// Rating is validated by the review workflow itself so that an out of
// range value surfaces as the same error from every entry point.
type CreateReviewRequest struct {
	MovieID uint   `json:"movie_id" validate:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=5000"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=5000"`
}

type GenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type AdminUpdateUserRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Role     string `json:"role" validate:"required"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

type PageParams struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Filter string `form:"filter"`
	Sort   string `form:"sort"`
	Order  string `form:"order"`
}
