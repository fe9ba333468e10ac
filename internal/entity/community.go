package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRole string

const (
	MemberRoleMember    MemberRole = "member"
	MemberRoleModerator MemberRole = "moderator"
	MemberRoleAdmin     MemberRole = "admin"
)

var roleRank = map[MemberRole]int{
	MemberRoleMember:    1,
	MemberRoleModerator: 2,
	MemberRoleAdmin:     3,
}

func (r MemberRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// CanManage reports whether the role may kick, invite and handle join requests.
func (r MemberRole) CanManage() bool {
	return roleRank[r] >= roleRank[MemberRoleModerator]
}

// Outranks reports whether r is strictly above other.
func (r MemberRole) Outranks(other MemberRole) bool {
	return roleRank[r] > roleRank[other]
}

// Kickable lists the target roles a requester of role r may remove.
func (r MemberRole) Kickable() []MemberRole {
	var roles []MemberRole
	for _, role := range []MemberRole{MemberRoleMember, MemberRoleModerator} {
		if r.CanManage() && r.Outranks(role) {
			roles = append(roles, role)
		}
	}
	return roles
}

type Community struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	Icon        *string   `gorm:"type:text" json:"icon,omitempty"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	IsPrivate   bool      `gorm:"not null;default:false" json:"isPrivate"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Creator        User                   `gorm:"foreignKey:CreatorID" json:"-"`
	Members        []CommunityMember      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PendingInvites []CommunityJoinRequest `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	InvitedUsers   []CommunityInvite      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Community) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommunityMember is one row of a community's membership list.
type CommunityMember struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CommunityID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_community_member" json:"community_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_community_member;index" json:"user_id"`
	Role        MemberRole `gorm:"size:20;not null;default:member" json:"role"`
	JoinedAt    time.Time  `gorm:"autoCreateTime" json:"joinedAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *CommunityMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CommunityJoinRequest is a user asking to enter a private community.
type CommunityJoinRequest struct {
	CommunityID uuid.UUID `gorm:"type:uuid;primaryKey" json:"community_id"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// CommunityInvite is an invitation sent by a moderator or admin.
type CommunityInvite struct {
	CommunityID uuid.UUID `gorm:"type:uuid;primaryKey" json:"community_id"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	InvitedBy   uuid.UUID `gorm:"type:uuid;not null" json:"invited_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
