package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"discussify.com/api/internal/entity"
	activity "discussify.com/api/internal/modules/activity/service"
	"discussify.com/api/internal/modules/community/access"
	notification "discussify.com/api/internal/modules/notification/service"
	"discussify.com/api/internal/modules/resource/dto"
	"discussify.com/api/internal/modules/resource/repository"
	"discussify.com/api/pkg/apperror"
	commonDto "discussify.com/api/pkg/dto"
	"discussify.com/api/pkg/storage"
	"github.com/google/uuid"
)

const resourceFolder = "resources"

var errStorageDisabled = errors.New("file storage is not configured")

type ResourceService interface {
	Create(ctx context.Context, communityID, authorID uuid.UUID, req dto.CreateResourceRequest, file *commonDto.UploadedFile) (*dto.ResourceResponse, error)
	List(ctx context.Context, communityID uuid.UUID, viewer *uuid.UUID) ([]dto.ResourceResponse, error)
}

type resourceService struct {
	repo        repository.ResourceRepository
	gate        *access.Gate
	fileStorage storage.FileStorage
	notifier    notification.Dispatcher
	activity    activity.Recorder
}

func NewResourceService(repo repository.ResourceRepository, gate *access.Gate, fileStorage storage.FileStorage, notifier notification.Dispatcher, activity activity.Recorder) ResourceService {
	return &resourceService{
		repo:        repo,
		gate:        gate,
		fileStorage: fileStorage,
		notifier:    notifier,
		activity:    activity,
	}
}

func (s *resourceService) Create(ctx context.Context, communityID, authorID uuid.UUID, req dto.CreateResourceRequest, file *commonDto.UploadedFile) (*dto.ResourceResponse, error) {
	if file == nil {
		return nil, apperror.Validation("Please upload a file")
	}

	community, err := s.gate.RequireMember(ctx, communityID, authorID, "You must join the community to share resources")
	if err != nil {
		return nil, err
	}

	if s.fileStorage == nil {
		return nil, apperror.Internal(errStorageDisabled)
	}
	url, err := s.fileStorage.Upload(ctx, file.Reader, resourceFolder, file.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload resource: %w", err)
	}

	resource := &entity.Resource{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		FileURL:     url,
		FileType:    file.ContentType,
		CommunityID: communityID,
		AuthorID:    authorID,
	}
	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(entity.NotificationResource, notification.NotificationData{
		ActorID:     authorID,
		CommunityID: &communityID,
		Message:     fmt.Sprintf("shared a new resource: \"%s\"", resource.Title),
		Link:        fmt.Sprintf("/communities/%s", communityID),
	})
	s.activity.Record(authorID, entity.ActivityResource, resource.ID, resource.Title, community.Name)

	resp := dto.NewResourceResponse(resource)
	return &resp, nil
}

func (s *resourceService) List(ctx context.Context, communityID uuid.UUID, viewer *uuid.UUID) ([]dto.ResourceResponse, error) {
	if _, err := s.gate.CanView(ctx, communityID, viewer); err != nil {
		return nil, err
	}

	resources, err := s.repo.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ResourceResponse, 0, len(resources))
	for i := range resources {
		result = append(result, dto.NewResourceResponse(&resources[i]))
	}
	return result, nil
}
