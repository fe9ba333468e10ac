package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"discussify.com/api/internal/entity"
	activity "discussify.com/api/internal/modules/activity/service"
	"discussify.com/api/internal/modules/community/access"
	"discussify.com/api/internal/modules/discussion/dto"
	"discussify.com/api/internal/modules/discussion/repository"
	notification "discussify.com/api/internal/modules/notification/service"
	"discussify.com/api/pkg/apperror"
	commonDto "discussify.com/api/pkg/dto"
	"discussify.com/api/pkg/ratelimiter"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscussionService interface {
	Create(ctx context.Context, communityID, authorID uuid.UUID, req dto.CreateDiscussionRequest) (*dto.DiscussionResponse, error)
	List(ctx context.Context, communityID uuid.UUID, viewer *uuid.UUID, filter commonDto.PaginationFilter) (*dto.PaginatedDiscussionResponse, error)
	Get(ctx context.Context, communityID, discussionID uuid.UUID, viewer *uuid.UUID) (*dto.DiscussionResponse, error)

	CreateComment(ctx context.Context, communityID, discussionID, authorID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, communityID, discussionID uuid.UUID, viewer *uuid.UUID) ([]dto.CommentResponse, error)
}

type discussionService struct {
	discussions    repository.DiscussionRepository
	comments       repository.CommentRepository
	gate           *access.Gate
	notifier       notification.Dispatcher
	activity       activity.Recorder
	limiter        *ratelimiter.Limiter
	createCooldown time.Duration
}

func NewDiscussionService(discussions repository.DiscussionRepository, comments repository.CommentRepository, gate *access.Gate, notifier notification.Dispatcher, activity activity.Recorder, limiter *ratelimiter.Limiter, createCooldown time.Duration) DiscussionService {
	return &discussionService{
		discussions:    discussions,
		comments:       comments,
		gate:           gate,
		notifier:       notifier,
		activity:       activity,
		limiter:        limiter,
		createCooldown: createCooldown,
	}
}

func (s *discussionService) Create(ctx context.Context, communityID, authorID uuid.UUID, req dto.CreateDiscussionRequest) (*dto.DiscussionResponse, error) {
	community, err := s.gate.RequireMember(ctx, communityID, authorID, "You must join the community to post")
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx, authorID, "create_discussion", s.createCooldown); err != nil {
		return nil, err
	}

	discussion := &entity.Discussion{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		CommunityID: communityID,
		AuthorID:    authorID,
	}
	if err := s.discussions.Create(ctx, discussion); err != nil {
		s.limiter.Release(ctx, authorID, "create_discussion")
		return nil, err
	}

	s.notifier.Dispatch(entity.NotificationDiscussion, notification.NotificationData{
		ActorID:     authorID,
		CommunityID: &communityID,
		Message:     fmt.Sprintf("started a new discussion: \"%s\"", discussion.Title),
		Link:        fmt.Sprintf("/discussion/%s", discussion.ID),
	})
	s.activity.Record(authorID, entity.ActivityDiscussion, discussion.ID, discussion.Title, community.Name)

	resp := dto.NewDiscussionResponse(discussion)
	return &resp, nil
}

func (s *discussionService) List(ctx context.Context, communityID uuid.UUID, viewer *uuid.UUID, filter commonDto.PaginationFilter) (*dto.PaginatedDiscussionResponse, error) {
	if _, err := s.gate.CanView(ctx, communityID, viewer); err != nil {
		return nil, err
	}

	offset := filter.Normalize()
	discussions, total, err := s.discussions.ListByCommunity(ctx, communityID, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.DiscussionResponse, 0, len(discussions))
	for i := range discussions {
		data = append(data, dto.NewDiscussionResponse(&discussions[i]))
	}

	return &dto.PaginatedDiscussionResponse{
		Data: data,
		Meta: commonDto.NewPaginationMeta(filter, total),
	}, nil
}

// findDiscussion loads a discussion that belongs to communityID.
func (s *discussionService) findDiscussion(ctx context.Context, communityID, discussionID uuid.UUID) (*entity.Discussion, error) {
	discussion, err := s.discussions.FindByID(ctx, discussionID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && discussion.CommunityID != communityID) {
		return nil, apperror.NotFound("Discussion not found")
	}
	return discussion, err
}

func (s *discussionService) Get(ctx context.Context, communityID, discussionID uuid.UUID, viewer *uuid.UUID) (*dto.DiscussionResponse, error) {
	if _, err := s.gate.CanView(ctx, communityID, viewer); err != nil {
		return nil, err
	}

	discussion, err := s.findDiscussion(ctx, communityID, discussionID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewDiscussionResponse(discussion)
	return &resp, nil
}

func (s *discussionService) CreateComment(ctx context.Context, communityID, discussionID, authorID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	community, err := s.gate.CanView(ctx, communityID, &authorID)
	if err != nil {
		return nil, err
	}

	discussion, err := s.findDiscussion(ctx, communityID, discussionID)
	if err != nil {
		return nil, err
	}

	// replies go to the parent comment's author, top level comments to the discussion author
	recipient := discussion.AuthorID
	var parentID *uuid.UUID
	if req.ParentComment != nil && *req.ParentComment != "" {
		id, err := uuid.Parse(*req.ParentComment)
		if err != nil {
			return nil, apperror.Validation("Invalid parentComment")
		}
		parent, err := s.comments.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.DiscussionID != discussionID) {
			return nil, apperror.NotFound("Parent comment not found")
		}
		if err != nil {
			return nil, err
		}
		parentID = &parent.ID
		recipient = parent.AuthorID
	}

	comment := &entity.Comment{
		Content:         req.Content,
		DiscussionID:    discussionID,
		AuthorID:        authorID,
		ParentCommentID: parentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(entity.NotificationReply, notification.NotificationData{
		ActorID:     authorID,
		CommunityID: &communityID,
		RecipientID: &recipient,
		Message:     fmt.Sprintf("replied to your post in \"%s\"", discussion.Title),
		Link:        fmt.Sprintf("/discussion/%s", discussion.ID),
	})
	s.activity.Record(authorID, entity.ActivityComment, comment.ID, discussion.Title, community.Name)

	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}

func (s *discussionService) ListComments(ctx context.Context, communityID, discussionID uuid.UUID, viewer *uuid.UUID) ([]dto.CommentResponse, error) {
	if _, err := s.gate.CanView(ctx, communityID, viewer); err != nil {
		return nil, err
	}
	if _, err := s.findDiscussion(ctx, communityID, discussionID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByDiscussion(ctx, discussionID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, dto.NewCommentResponse(&comments[i]))
	}
	return result, nil
}
