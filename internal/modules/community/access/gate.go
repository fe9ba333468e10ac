package access

import (
	"context"
	"errors"

	"discussify.com/api/internal/entity"
	"discussify.com/api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipReader is the read side of the community store.
type MembershipReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Community, error)
	FindMember(ctx context.Context, communityID, userID uuid.UUID) (*entity.CommunityMember, error)
}

// Gate answers who may read or write content inside a community.
type Gate struct {
	repo MembershipReader
}

func NewGate(repo MembershipReader) *Gate {
	return &Gate{repo: repo}
}

func (g *Gate) community(ctx context.Context, id uuid.UUID) (*entity.Community, error) {
	community, err := g.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Community not found")
	}
	return community, err
}

func (g *Gate) isMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	_, err := g.repo.FindMember(ctx, communityID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// RequireMember loads the community and fails with Forbidden unless userID is a member.
func (g *Gate) RequireMember(ctx context.Context, communityID, userID uuid.UUID, message string) (*entity.Community, error) {
	community, err := g.community(ctx, communityID)
	if err != nil {
		return nil, err
	}
	ok, err := g.isMember(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Forbidden(message)
	}
	return community, nil
}

// CanView lets anyone into a public community. A private one needs a logged
// in viewer (Unauthorized) who is a member (Forbidden).
func (g *Gate) CanView(ctx context.Context, communityID uuid.UUID, viewer *uuid.UUID) (*entity.Community, error) {
	community, err := g.community(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if !community.IsPrivate {
		return community, nil
	}
	if viewer == nil {
		return nil, apperror.Unauthorized("This community is private. Please login to view.")
	}
	ok, err := g.isMember(ctx, communityID, *viewer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Forbidden("This community is private. You must join to view.")
	}
	return community, nil
}
