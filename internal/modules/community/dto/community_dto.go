package dto

import (
	"time"

	"discussify.com/api/internal/entity"
	commonDto "discussify.com/api/pkg/dto"
	"github.com/google/uuid"
)

type CreateCommunityRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"required,max=1000"`
	IsPrivate   bool   `json:"isPrivate"`
}

// UpdateCommunityRequest is bound from multipart form or json.
type UpdateCommunityRequest struct {
	Name        *string `form:"name" json:"name" binding:"omitempty,min=1,max=50"`
	Description *string `form:"description" json:"description" binding:"omitempty,max=1000"`
	IsPrivate   *bool   `form:"isPrivate" json:"isPrivate"`
}

type TargetUserRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

type UpdateRoleRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	Role   string `json:"role" binding:"required"`
}

type JoinRequestDecision struct {
	UserID string `json:"userId" binding:"required,uuid"`
	Status string `json:"status" binding:"required"`
}

type InviteResponseRequest struct {
	Status string `json:"status" binding:"required"`
}

type MemberResponse struct {
	User     commonDto.UserSummary `json:"user"`
	Role     entity.MemberRole     `json:"role"`
	JoinedAt time.Time             `json:"joinedAt"`
}

type CommunityResponse struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	Icon           *string                 `json:"icon"`
	IsPrivate      bool                    `json:"isPrivate"`
	Creator        *commonDto.UserSummary  `json:"creator"`
	MemberCount    int                     `json:"memberCount"`
	Members        []MemberResponse        `json:"members,omitempty"`
	PendingInvites []commonDto.UserSummary `json:"pendingInvites,omitempty"`
	InvitedUsers   []uuid.UUID             `json:"invitedUsers,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// JoinResult tells the caller whether the join was granted or queued.
type JoinResult struct {
	Status    string             `json:"status"`
	Message   string             `json:"message"`
	Community *CommunityResponse `json:"community,omitempty"`
}

const (
	JoinStatusJoined  = "joined"
	JoinStatusPending = "pending"
)

// NewCommunitySummaryResponse builds the list view.
func NewCommunitySummaryResponse(c *entity.Community) CommunityResponse {
	return CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		IsPrivate:   c.IsPrivate,
		Creator:     commonDto.NewUserSummary(&c.Creator),
		MemberCount: len(c.Members),
		CreatedAt:   c.CreatedAt,
	}
}

// NewCommunityResponse builds the detailed view with resolved references.
// Rows whose user is inactive are left out.
func NewCommunityResponse(c *entity.Community) *CommunityResponse {
	resp := NewCommunitySummaryResponse(c)

	resp.Members = make([]MemberResponse, 0, len(c.Members))
	for i := range c.Members {
		m := &c.Members[i]
		user := commonDto.NewUserSummary(&m.User)
		if user == nil {
			continue
		}
		resp.Members = append(resp.Members, MemberResponse{User: *user, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	resp.MemberCount = len(resp.Members)

	resp.PendingInvites = make([]commonDto.UserSummary, 0, len(c.PendingInvites))
	for i := range c.PendingInvites {
		if user := commonDto.NewUserSummary(&c.PendingInvites[i].User); user != nil {
			resp.PendingInvites = append(resp.PendingInvites, *user)
		}
	}

	resp.InvitedUsers = make([]uuid.UUID, 0, len(c.InvitedUsers))
	for _, inv := range c.InvitedUsers {
		resp.InvitedUsers = append(resp.InvitedUsers, inv.UserID)
	}

	return &resp
}
