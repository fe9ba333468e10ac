package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"discussify.com/api/internal/entity"
	activity "discussify.com/api/internal/modules/activity/service"
	"discussify.com/api/internal/modules/community/dto"
	"discussify.com/api/internal/modules/community/repository"
	notification "discussify.com/api/internal/modules/notification/service"
	search "discussify.com/api/internal/modules/search/service"
	"discussify.com/api/pkg/apperror"
	"discussify.com/api/pkg/async"
	commonDto "discussify.com/api/pkg/dto"
	"discussify.com/api/pkg/eventbus"
	"discussify.com/api/pkg/ratelimiter"
	"discussify.com/api/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	iconFolder  = "icons"
	searchLimit = 50
)

type CommunityService interface {
	Create(ctx context.Context, creatorID uuid.UUID, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error)
	List(ctx context.Context, search string) ([]dto.CommunityResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CommunityResponse, error)
	Update(ctx context.Context, id, requesterID uuid.UUID, req dto.UpdateCommunityRequest, icon *commonDto.UploadedFile) (*dto.CommunityResponse, error)
	Delete(ctx context.Context, id, requesterID uuid.UUID) error
	ForceDelete(ctx context.Context, id, adminID uuid.UUID) error
	Reindex(ctx context.Context) error

	Join(ctx context.Context, communityID, userID uuid.UUID) (*dto.JoinResult, error)
	Leave(ctx context.Context, communityID, userID uuid.UUID) error
	Kick(ctx context.Context, communityID, requesterID, targetID uuid.UUID) error
	UpdateRole(ctx context.Context, communityID, requesterID, targetID uuid.UUID, role entity.MemberRole) error
	Invite(ctx context.Context, communityID, requesterID, targetID uuid.UUID) error
	RespondToInvite(ctx context.Context, communityID, userID uuid.UUID, status string) (string, error)
	HandleJoinRequest(ctx context.Context, communityID, requesterID, targetID uuid.UUID, status string) (string, error)
}

// UserFinder looks up active users.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// DiscussionCounter counts live discussions of a community.
type DiscussionCounter interface {
	CountByCommunity(ctx context.Context, communityID uuid.UUID) (int64, error)
}

type communityService struct {
	repo           repository.CommunityRepository
	users          UserFinder
	discussions    DiscussionCounter
	notifier       notification.Dispatcher
	activity       activity.Recorder
	runner         async.Runner
	events         eventbus.Publisher
	searcher       search.CommunitySearcher
	fileStorage    storage.FileStorage
	limiter        *ratelimiter.Limiter
	createCooldown time.Duration
}

func NewCommunityService(repo repository.CommunityRepository, users UserFinder, discussions DiscussionCounter, notifier notification.Dispatcher, activity activity.Recorder, runner async.Runner, events eventbus.Publisher, searcher search.CommunitySearcher, fileStorage storage.FileStorage, limiter *ratelimiter.Limiter, createCooldown time.Duration) CommunityService {
	if events == nil {
		events = eventbus.Noop()
	}
	return &communityService{
		repo:           repo,
		users:          users,
		discussions:    discussions,
		notifier:       notifier,
		activity:       activity,
		runner:         runner,
		events:         events,
		searcher:       searcher,
		fileStorage:    fileStorage,
		limiter:        limiter,
		createCooldown: createCooldown,
	}
}

func notFoundAs(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(message)
	}
	return err
}

func (s *communityService) findCommunity(ctx context.Context, id uuid.UUID) (*entity.Community, error) {
	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "No community found with that ID")
	}
	return community, nil
}

func duplicateName(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("A community with this name already exists").WithStatus(http.StatusConflict)
	}
	return err
}

func (s *communityService) Create(ctx context.Context, creatorID uuid.UUID, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	if err := s.limiter.Acquire(ctx, creatorID, "create_community", s.createCooldown); err != nil {
		return nil, err
	}

	community := &entity.Community{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		IsPrivate:   req.IsPrivate,
		CreatorID:   creatorID,
	}

	if err := s.repo.Create(ctx, community); err != nil {
		s.limiter.Release(ctx, creatorID, "create_community")
		return nil, duplicateName(err)
	}

	s.activity.Record(creatorID, entity.ActivityCreatedCommunity, community.ID, community.Name, community.Name)
	s.emit(EventCommunityCreated, community.ID, creatorID, creatorID, entity.MemberRoleAdmin)
	s.index(community)

	if creator, err := s.users.FindByID(ctx, creatorID); err == nil {
		community.Creator = *creator
	}
	resp := dto.NewCommunitySummaryResponse(community)
	return &resp, nil
}

func (s *communityService) List(ctx context.Context, query string) ([]dto.CommunityResponse, error) {
	filter := repository.ListFilter{}

	query = strings.TrimSpace(query)
	if query != "" {
		if ids, ok := s.searchIDs(query); ok {
			filter.IDs = ids
		} else {
			filter.Search = query
		}
	}

	communities, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// keep relevance order from the search engine
	if filter.IDs != nil {
		rank := make(map[uuid.UUID]int, len(filter.IDs))
		for i, id := range filter.IDs {
			rank[id] = i
		}
		ordered := make([]entity.Community, len(communities))
		copy(ordered, communities)
		sortByRank(ordered, rank)
		communities = ordered
	}

	result := make([]dto.CommunityResponse, 0, len(communities))
	for i := range communities {
		result = append(result, dto.NewCommunitySummaryResponse(&communities[i]))
	}
	return result, nil
}

func sortByRank(communities []entity.Community, rank map[uuid.UUID]int) {
	slices.SortStableFunc(communities, func(a, b entity.Community) int {
		return cmp.Compare(rank[a.ID], rank[b.ID])
	})
}

func (s *communityService) searchIDs(query string) ([]uuid.UUID, bool) {
	if s.searcher == nil {
		return nil, false
	}
	ids, err := s.searcher.SearchCommunities(query, searchLimit)
	if err != nil {
		log.Printf("[search] community search failed, falling back to database: %v", err)
		return nil, false
	}
	return ids, true
}

func (s *communityService) Get(ctx context.Context, id uuid.UUID) (*dto.CommunityResponse, error) {
	community, err := s.repo.FindDetailed(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "No community found with that ID")
	}
	return dto.NewCommunityResponse(community), nil
}

func (s *communityService) Update(ctx context.Context, id, requesterID uuid.UUID, req dto.UpdateCommunityRequest, icon *commonDto.UploadedFile) (*dto.CommunityResponse, error) {
	community, err := s.findCommunity(ctx, id)
	if err != nil {
		return nil, err
	}
	if community.CreatorID != requesterID {
		return nil, apperror.Forbidden("Only the community creator can update settings")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsPrivate != nil {
		updates["is_private"] = *req.IsPrivate
	}

	var oldIcon *string
	if icon != nil {
		if s.fileStorage == nil {
			return nil, apperror.Validation("File uploads are not available")
		}
		url, err := s.fileStorage.Upload(ctx, icon.Reader, iconFolder, icon.FileName)
		if err != nil {
			return nil, fmt.Errorf("upload icon: %w", err)
		}
		updates["icon"] = url
		oldIcon = community.Icon
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, duplicateName(notFoundAs(err, "No community found with that ID"))
		}
	}

	if oldIcon != nil && *oldIcon != "" {
		old := *oldIcon
		s.runner.Go("storage:delete-icon", func(ctx context.Context) error {
			return s.fileStorage.Delete(ctx, old)
		})
	}

	updated, err := s.repo.FindDetailed(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "No community found with that ID")
	}
	s.index(updated)
	return dto.NewCommunityResponse(updated), nil
}

func (s *communityService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	community, err := s.findCommunity(ctx, id)
	if err != nil {
		return err
	}
	if community.CreatorID != requesterID {
		return apperror.Forbidden("Only the community creator can delete this community")
	}

	// the delete only matches a community without live discussions
	deleted, err := s.repo.DeleteEmpty(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		count, err := s.discussions.CountByCommunity(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.InvalidOperation(fmt.Sprintf("Cannot delete community. There are %d active discussions. Please delete them first.", count))
		}
		return apperror.NotFound("No community found with that ID")
	}

	s.afterRemove(community, requesterID)
	return nil
}

// ForceDelete drops a community together with its discussions and resources.
func (s *communityService) ForceDelete(ctx context.Context, id, adminID uuid.UUID) error {
	community, err := s.findCommunity(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("No community found with that ID")
	}

	s.afterRemove(community, adminID)
	return nil
}

func (s *communityService) afterRemove(community *entity.Community, actorID uuid.UUID) {
	id := community.ID
	s.emit(EventCommunityDeleted, id, actorID, actorID, "")
	if s.searcher != nil {
		s.runner.Go("search:delete-community", func(ctx context.Context) error {
			return s.searcher.DeleteCommunity(id)
		})
	}
	if community.Icon != nil && *community.Icon != "" && s.fileStorage != nil {
		icon := *community.Icon
		s.runner.Go("storage:delete-icon", func(ctx context.Context) error {
			return s.fileStorage.Delete(ctx, icon)
		})
	}
}

// Reindex pushes every community to the search engine.
func (s *communityService) Reindex(ctx context.Context) error {
	if s.searcher == nil {
		return nil
	}
	communities, err := s.repo.List(ctx, repository.ListFilter{})
	if err != nil {
		return err
	}
	docs := make([]*entity.Community, 0, len(communities))
	for i := range communities {
		docs = append(docs, &communities[i])
	}
	return s.searcher.IndexCommunities(docs...)
}

func (s *communityService) index(c *entity.Community) {
	if s.searcher == nil {
		return
	}
	doc := *c
	s.runner.Go("search:index-community", func(ctx context.Context) error {
		return s.searcher.IndexCommunities(&doc)
	})
}
