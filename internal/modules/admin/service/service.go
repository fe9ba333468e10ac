package service

import (
	"context"
	"errors"
	"log"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/admin/dto"
	"discussify.com/api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	ListUsers(ctx context.Context) ([]dto.AdminUserResponse, error)
	SetUserStatus(ctx context.Context, adminID, userID uuid.UUID, active bool) (*dto.AdminUserResponse, error)
	DeleteCommunity(ctx context.Context, adminID, communityID uuid.UUID) error
}

// UserStore is the unscoped slice of the user directory.
type UserStore interface {
	ListAll(ctx context.Context) ([]entity.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
}

type Counter interface {
	CountAll(ctx context.Context) (int64, error)
}

type CommunityRemover interface {
	ForceDelete(ctx context.Context, id, adminID uuid.UUID) error
}

type adminService struct {
	users       UserStore
	communities Counter
	discussions Counter
	resources   Counter
	remover     CommunityRemover
}

func NewAdminService(users UserStore, communities, discussions, resources Counter, remover CommunityRemover) AdminService {
	return &adminService{
		users:       users,
		communities: communities,
		discussions: discussions,
		resources:   resources,
		remover:     remover,
	}
}

func (s *adminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	var err error

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCommunities, err = s.communities.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDiscussions, err = s.discussions.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalResources, err = s.resources.CountAll(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]dto.AdminUserResponse, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.NewAdminUserResponse(&users[i]))
	}
	return result, nil
}

func (s *adminService) SetUserStatus(ctx context.Context, adminID, userID uuid.UUID, active bool) (*dto.AdminUserResponse, error) {
	if adminID == userID && !active {
		return nil, apperror.InvalidOperation("You cannot deactivate your own account")
	}

	user, err := s.users.SetActive(ctx, userID, active)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}

	log.Printf("[admin] %s set user %s active=%t", adminID, userID, active)
	resp := dto.NewAdminUserResponse(user)
	return &resp, nil
}

func (s *adminService) DeleteCommunity(ctx context.Context, adminID, communityID uuid.UUID) error {
	if err := s.remover.ForceDelete(ctx, communityID, adminID); err != nil {
		return err
	}
	log.Printf("[admin] %s force deleted community %s", adminID, communityID)
	return nil
}
