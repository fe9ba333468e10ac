package service

import (
	"context"
	"errors"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/community/access"
	"discussify.com/api/internal/modules/reaction/dto"
	"discussify.com/api/internal/modules/reaction/repository"
	"discussify.com/api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeService interface {
	LikeDiscussion(ctx context.Context, communityID, discussionID, userID uuid.UUID) (*dto.LikeResponse, error)
	LikeComment(ctx context.Context, communityID, discussionID, commentID, userID uuid.UUID) (*dto.LikeResponse, error)
}

type DiscussionFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Discussion, error)
}

type CommentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
}

type likeService struct {
	repo        repository.LikeRepository
	gate        *access.Gate
	discussions DiscussionFinder
	comments    CommentFinder
}

func NewLikeService(repo repository.LikeRepository, gate *access.Gate, discussions DiscussionFinder, comments CommentFinder) LikeService {
	return &likeService{repo: repo, gate: gate, discussions: discussions, comments: comments}
}

func (s *likeService) checkDiscussion(ctx context.Context, communityID, discussionID, userID uuid.UUID) error {
	if _, err := s.gate.CanView(ctx, communityID, &userID); err != nil {
		return err
	}
	discussion, err := s.discussions.FindByID(ctx, discussionID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && discussion.CommunityID != communityID) {
		return apperror.NotFound("Discussion not found")
	}
	return err
}

func (s *likeService) toggle(ctx context.Context, userID, refID uuid.UUID, refType entity.LikeTarget) (*dto.LikeResponse, error) {
	liked, err := s.repo.Toggle(ctx, userID, refID, refType)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.Count(ctx, refID, refType)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: liked, Likes: count}, nil
}

func (s *likeService) LikeDiscussion(ctx context.Context, communityID, discussionID, userID uuid.UUID) (*dto.LikeResponse, error) {
	if err := s.checkDiscussion(ctx, communityID, discussionID, userID); err != nil {
		return nil, err
	}
	return s.toggle(ctx, userID, discussionID, entity.LikeTargetDiscussion)
}

func (s *likeService) LikeComment(ctx context.Context, communityID, discussionID, commentID, userID uuid.UUID) (*dto.LikeResponse, error) {
	if err := s.checkDiscussion(ctx, communityID, discussionID, userID); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && comment.DiscussionID != discussionID) {
		return nil, apperror.NotFound("Comment not found")
	}
	if err != nil {
		return nil, err
	}
	return s.toggle(ctx, userID, commentID, entity.LikeTargetComment)
}
