package service

import (
	"context"
	"time"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
)

type EventType string

const (
	EventCommunityCreated  EventType = "community_created"
	EventCommunityDeleted  EventType = "community_deleted"
	EventMemberJoined      EventType = "member_joined"
	EventMemberLeft        EventType = "member_left"
	EventMemberKicked      EventType = "member_kicked"
	EventMemberRoleChanged EventType = "member_role_changed"
	EventJoinRequested     EventType = "join_requested"
	EventJoinRejected      EventType = "join_rejected"
	EventUserInvited       EventType = "user_invited"
	EventInviteDeclined    EventType = "invite_declined"
)

// MembershipEvent is published for every successful membership change.
type MembershipEvent struct {
	Type        EventType         `json:"type"`
	CommunityID uuid.UUID         `json:"community_id"`
	UserID      uuid.UUID         `json:"user_id"`
	ActorID     uuid.UUID         `json:"actor_id"`
	Role        entity.MemberRole `json:"role,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

func (s *communityService) emit(kind EventType, communityID, userID, actorID uuid.UUID, role entity.MemberRole) {
	event := MembershipEvent{
		Type:        kind,
		CommunityID: communityID,
		UserID:      userID,
		ActorID:     actorID,
		Role:        role,
		OccurredAt:  time.Now().UTC(),
	}
	s.runner.Go("event:"+string(kind), func(ctx context.Context) error {
		return s.events.Publish(ctx, communityID.String(), event)
	})
}
