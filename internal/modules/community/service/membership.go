package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/community/dto"
	notification "discussify.com/api/internal/modules/notification/service"
	"discussify.com/api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InviteAccept  = "accept"
	InviteDecline = "decline"

	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// memberRole returns the user's role, or "" when they are not a member.
func (s *communityService) memberRole(ctx context.Context, communityID, userID uuid.UUID) (entity.MemberRole, error) {
	member, err := s.repo.FindMember(ctx, communityID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (s *communityService) Join(ctx context.Context, communityID, userID uuid.UUID) (*dto.JoinResult, error) {
	community, err := s.findCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	role, err := s.memberRole(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if role != "" {
		return nil, apperror.Conflict("You are already a member of this community")
	}

	if community.IsPrivate {
		added, err := s.repo.AddJoinRequest(ctx, communityID, userID)
		if err != nil {
			return nil, err
		}
		if !added {
			return nil, apperror.Conflict("You have already requested to join this community")
		}

		s.emit(EventJoinRequested, communityID, userID, userID, "")
		s.notifyManagers(ctx, community, userID)

		return &dto.JoinResult{
			Status:  dto.JoinStatusPending,
			Message: "Request sent. Waiting for approval.",
		}, nil
	}

	added, err := s.repo.AddMember(ctx, communityID, userID, entity.MemberRoleMember)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, apperror.Conflict("You are already a member of this community")
	}

	s.activity.Record(userID, entity.ActivityJoinedCommunity, communityID, community.Name, community.Name)
	s.emit(EventMemberJoined, communityID, userID, userID, entity.MemberRoleMember)

	summary := dto.NewCommunitySummaryResponse(community)
	return &dto.JoinResult{
		Status:    dto.JoinStatusJoined,
		Message:   "Successfully joined community",
		Community: &summary,
	}, nil
}

// notifyManagers tells every admin and moderator about a new join request.
func (s *communityService) notifyManagers(ctx context.Context, community *entity.Community, requesterID uuid.UUID) {
	members, err := s.repo.ListMembers(ctx, community.ID)
	if err != nil {
		log.Printf("[community] failed to load managers of %s: %v", community.ID, err)
		return
	}

	communityID := community.ID
	for _, m := range members {
		if !m.Role.CanManage() {
			continue
		}
		recipient := m.UserID
		s.notifier.Dispatch(entity.NotificationJoinRequest, notification.NotificationData{
			ActorID:     requesterID,
			CommunityID: &communityID,
			RecipientID: &recipient,
			Message:     fmt.Sprintf("requested to join \"%s\"", community.Name),
			Link:        fmt.Sprintf("/communities/%s", community.ID),
		})
	}
}

func (s *communityService) Leave(ctx context.Context, communityID, userID uuid.UUID) error {
	community, err := s.findCommunity(ctx, communityID)
	if err != nil {
		return err
	}
	if community.CreatorID == userID {
		return apperror.InvalidOperation("Creator cannot leave the community. Delete it instead.")
	}

	removed, err := s.repo.RemoveMember(ctx, communityID, userID, []entity.MemberRole{entity.MemberRoleMember, entity.MemberRoleModerator})
	if err != nil {
		return err
	}
	if !removed {
		return apperror.NotFound("You are not a member of this community")
	}

	s.activity.Record(userID, entity.ActivityLeftCommunity, communityID, community.Name, community.Name)
	s.emit(EventMemberLeft, communityID, userID, userID, "")
	return nil
}

func (s *communityService) Kick(ctx context.Context, communityID, requesterID, targetID uuid.UUID) error {
	community, err := s.findCommunity(ctx, communityID)
	if err != nil {
		return err
	}

	requesterRole, err := s.memberRole(ctx, communityID, requesterID)
	if err != nil {
		return err
	}
	if !requesterRole.CanManage() {
		return apperror.Forbidden("You do not have permission to kick members")
	}

	targetRole, err := s.memberRole(ctx, communityID, targetID)
	if err != nil {
		return err
	}
	if requesterRole == entity.MemberRoleModerator && targetRole.CanManage() {
		return apperror.Forbidden("Moderators can only kick regular members")
	}
	if targetID == community.CreatorID {
		return apperror.InvalidOperation("You cannot kick the community creator")
	}
	if targetRole == "" {
		return apperror.NotFound("User is not a member of this community")
	}

	removed, err := s.repo.RemoveMember(ctx, communityID, targetID, requesterRole.Kickable())
	if err != nil {
		return err
	}
	if !removed {
		// the target changed between the check and the delete
		role, err := s.memberRole(ctx, communityID, targetID)
		if err != nil {
			return err
		}
		if role != "" {
			return apperror.Forbidden("You do not have permission to kick this member")
		}
		return apperror.NotFound("User is not a member of this community")
	}

	s.emit(EventMemberKicked, communityID, targetID, requesterID, targetRole)
	return nil
}

func (s *communityService) UpdateRole(ctx context.Context, communityID, requesterID, targetID uuid.UUID, role entity.MemberRole) error {
	community, err := s.findCommunity(ctx, communityID)
	if err != nil {
		return err
	}
	if community.CreatorID != requesterID {
		return apperror.Forbidden("Only the community creator can change roles")
	}
	if targetID == requesterID {
		return apperror.InvalidOperation("You cannot change your own role")
	}
	if role != entity.MemberRoleMember && role != entity.MemberRoleModerator {
		return apperror.Validation("Role must be either member or moderator")
	}

	updated, err := s.repo.UpdateMemberRole(ctx, communityID, targetID, role)
	if err != nil {
		return err
	}
	if !updated {
		return apperror.NotFound("User is not a member of this community")
	}

	s.emit(EventMemberRoleChanged, communityID, targetID, requesterID, role)
	return nil
}

func (s *communityService) Invite(ctx context.Context, communityID, requesterID, targetID uuid.UUID) error {
	community, err := s.findCommunity(ctx, communityID)
	if err != nil {
		return err
	}

	requesterRole, err := s.memberRole(ctx, communityID, requesterID)
	if err != nil {
		return err
	}
	if !requesterRole.CanManage() {
		return apperror.Forbidden("Only admins and moderators can invite users")
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return notFoundAs(err, "User not found")
	}

	targetRole, err := s.memberRole(ctx, communityID, targetID)
	if err != nil {
		return err
	}
	if targetRole != "" {
		return apperror.Conflict("User is already a member of this community")
	}

	added, err := s.repo.AddInvite(ctx, communityID, targetID, requesterID)
	if err != nil {
		return err
	}
	if !added {
		return apperror.Conflict("User has already been invited")
	}

	s.emit(EventUserInvited, communityID, targetID, requesterID, "")
	s.notifier.Dispatch(entity.NotificationCommunityInvite, notification.NotificationData{
		ActorID:     requesterID,
		CommunityID: &communityID,
		RecipientID: &targetID,
		Message:     fmt.Sprintf("invited you to join \"%s\"", community.Name),
		Link:        fmt.Sprintf("/communities/%s", communityID),
	})
	return nil
}

func (s *communityService) RespondToInvite(ctx context.Context, communityID, userID uuid.UUID, status string) (string, error) {
	community, err := s.findCommunity(ctx, communityID)
	if err != nil {
		return "", err
	}
	if status != InviteAccept && status != InviteDecline {
		return "", apperror.Validation("Status must be either accept or decline")
	}

	found, err := s.repo.ResolveInvite(ctx, communityID, userID, status == InviteAccept)
	if err != nil {
		return "", err
	}
	if !found {
		return "", apperror.NotFound("No pending invitation found")
	}

	if status == InviteDecline {
		s.emit(EventInviteDeclined, communityID, userID, userID, "")
		return "Invite declined", nil
	}

	s.activity.Record(userID, entity.ActivityJoinedCommunity, communityID, community.Name, community.Name)
	s.emit(EventMemberJoined, communityID, userID, userID, entity.MemberRoleMember)
	return "You have joined the community!", nil
}

func (s *communityService) HandleJoinRequest(ctx context.Context, communityID, requesterID, targetID uuid.UUID, status string) (string, error) {
	community, err := s.findCommunity(ctx, communityID)
	if err != nil {
		return "", err
	}

	requesterRole, err := s.memberRole(ctx, communityID, requesterID)
	if err != nil {
		return "", err
	}
	if !requesterRole.CanManage() {
		return "", apperror.Forbidden("Only admins and moderators can handle join requests")
	}
	if status != RequestApproved && status != RequestRejected {
		return "", apperror.Validation("Status must be either approved or rejected")
	}

	found, err := s.repo.ResolveJoinRequest(ctx, communityID, targetID, status == RequestApproved)
	if err != nil {
		return "", err
	}
	if !found {
		return "", apperror.NotFound("No pending request from this user")
	}

	if status == RequestApproved {
		s.activity.Record(targetID, entity.ActivityJoinedCommunity, communityID, community.Name, community.Name)
		s.emit(EventMemberJoined, communityID, targetID, requesterID, entity.MemberRoleMember)
	} else {
		s.emit(EventJoinRejected, communityID, targetID, requesterID, "")
	}
	return fmt.Sprintf("Request %s", status), nil
}
