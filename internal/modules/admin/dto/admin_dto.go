package dto

import (
	"time"

	"discussify.com/api/internal/entity"
)

type UpdateUserStatusInput struct {
	Active *bool `json:"active" binding:"required"`
}

type StatsResponse struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalCommunities int64 `json:"totalCommunities"`
	TotalDiscussions int64 `json:"totalDiscussions"`
	TotalResources   int64 `json:"totalResources"`
}

type AdminUserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Photo     *string   `json:"photo"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewAdminUserResponse(u *entity.User) AdminUserResponse {
	return AdminUserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Photo:     u.Photo,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
