package service

import (
	"context"
	"fmt"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/activity/dto"
	"discussify.com/api/internal/modules/activity/repository"
	"discussify.com/api/pkg/async"
	"github.com/google/uuid"
)

// RecentLimit caps every activity feed query.
const RecentLimit = 50

// Recorder appends user actions to the activity log.
type Recorder interface {
	// Record is fire-and-forget: persistence happens on the async runner
	// and a failure is only logged.
	Record(userID uuid.UUID, kind entity.ActivityType, targetID uuid.UUID, title, communityName string)
	ListRecent(ctx context.Context, userID uuid.UUID) ([]dto.ActivityResponse, error)
}

type recorder struct {
	repo   repository.ActivityRepository
	runner async.Runner
}

func NewRecorder(repo repository.ActivityRepository, runner async.Runner) Recorder {
	return &recorder{repo: repo, runner: runner}
}

func (r *recorder) Record(userID uuid.UUID, kind entity.ActivityType, targetID uuid.UUID, title, communityName string) {
	activity := &entity.Activity{
		UserID:        userID,
		Type:          kind,
		TargetID:      targetID,
		Title:         title,
		CommunityName: communityName,
	}

	r.runner.Go("activity:"+string(kind), func(ctx context.Context) error {
		if err := r.repo.Create(ctx, activity); err != nil {
			return fmt.Errorf("record %s for user %s: %w", kind, userID, err)
		}
		return nil
	})
}

func (r *recorder) ListRecent(ctx context.Context, userID uuid.UUID) ([]dto.ActivityResponse, error) {
	activities, err := r.repo.ListByUser(ctx, userID, RecentLimit)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		result = append(result, dto.ActivityResponse{
			ID:            a.ID,
			Type:          string(a.Type),
			TargetID:      a.TargetID,
			Title:         a.Title,
			CommunityName: a.CommunityName,
			Date:          a.CreatedAt,
		})
	}
	return result, nil
}
