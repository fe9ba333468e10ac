package dto

import "discussify.com/api/internal/entity"

type SignupInput struct {
	Username        string `json:"username" binding:"required,min=3,max=20"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput is bound from json or a multipart form carrying a photo.
type UpdateProfileInput struct {
	Username *string `form:"username" json:"username" binding:"omitempty,min=3,max=20"`
	Bio      *string `form:"bio" json:"bio" binding:"omitempty,max=250"`
}

type UserResponse struct {
	ID          string                         `json:"id"`
	Username    string                         `json:"username"`
	Email       string                         `json:"email"`
	Photo       *string                        `json:"photo"`
	Role        string                         `json:"role"`
	Bio         *string                        `json:"bio"`
	Preferences entity.NotificationPreferences `json:"notificationPreferences"`
}

type AuthResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	ExpiresIn int64         `json:"expires_in"`
	User      *UserResponse `json:"user"`
}

func NewUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		Photo:       u.Photo,
		Role:        u.Role,
		Bio:         u.Bio,
		Preferences: u.Preferences(),
	}
}
