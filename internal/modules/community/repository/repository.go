package repository

import (
	"context"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommunityRepository owns communities and their membership, join request
// and invite rows. Every membership mutation is a single conditional
// statement or one short transaction; callers never read-modify-write.
type CommunityRepository interface {
	// Create inserts the community and its creator as admin member.
	Create(ctx context.Context, community *entity.Community) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Community, error)
	// FindDetailed loads creator, members, join requests and invites.
	FindDetailed(ctx context.Context, id uuid.UUID) (*entity.Community, error)
	List(ctx context.Context, filter ListFilter) ([]entity.Community, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteEmpty deletes the community only while it has no live discussions.
	DeleteEmpty(ctx context.Context, id uuid.UUID) (bool, error)
	CountAll(ctx context.Context) (int64, error)

	FindMember(ctx context.Context, communityID, userID uuid.UUID) (*entity.CommunityMember, error)
	ListMembers(ctx context.Context, communityID uuid.UUID) ([]entity.CommunityMember, error)

	// AddMember reports false when the user already was a member.
	AddMember(ctx context.Context, communityID, userID uuid.UUID, role entity.MemberRole) (bool, error)
	// RemoveMember deletes the membership only if its role is one of roles
	// and the user is not the creator.
	RemoveMember(ctx context.Context, communityID, userID uuid.UUID, roles []entity.MemberRole) (bool, error)
	// UpdateMemberRole never touches the creator's admin row.
	UpdateMemberRole(ctx context.Context, communityID, userID uuid.UUID, role entity.MemberRole) (bool, error)

	// AddJoinRequest reports false when the user is a member or already pending.
	AddJoinRequest(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	// ResolveJoinRequest removes the request and, when approved, adds the
	// member. It reports false when there was no request.
	ResolveJoinRequest(ctx context.Context, communityID, userID uuid.UUID, approve bool) (bool, error)

	// AddInvite reports false when the user is a member or already invited.
	AddInvite(ctx context.Context, communityID, userID, invitedBy uuid.UUID) (bool, error)
	// ResolveInvite removes the invite and, when accepted, adds the member.
	// It reports false when there was no invite.
	ResolveInvite(ctx context.Context, communityID, userID uuid.UUID, accept bool) (bool, error)
}

type ListFilter struct {
	IDs    []uuid.UUID
	Search string
	Limit  int
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func activeUser(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

func (r *communityRepository) Create(ctx context.Context, community *entity.Community) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(community).Error; err != nil {
			return err
		}

		creator := &entity.CommunityMember{
			CommunityID: community.ID,
			UserID:      community.CreatorID,
			Role:        entity.MemberRoleAdmin,
		}
		if err := tx.Omit(clause.Associations).Create(creator).Error; err != nil {
			return err
		}
		community.Members = []entity.CommunityMember{*creator}
		return nil
	})
}

func (r *communityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Community, error) {
	var community entity.Community
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) FindDetailed(ctx context.Context, id uuid.UUID) (*entity.Community, error) {
	var community entity.Community
	if err := r.db.WithContext(ctx).
		Preload("Creator", activeUser).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at asc")
		}).
		Preload("Members.User", activeUser).
		Preload("PendingInvites.User", activeUser).
		Preload("InvitedUsers").
		Where("id = ?", id).
		First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, filter ListFilter) ([]entity.Community, error) {
	var communities []entity.Community

	query := r.db.WithContext(ctx).
		Preload("Creator", activeUser).
		Preload("Members")

	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return communities, nil
		}
		query = query.Where("id IN ?", filter.IDs)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("created_at desc").Find(&communities).Error
	return communities, err
}

func (r *communityRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Community{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *communityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Community{})
	return res.RowsAffected > 0, res.Error
}

func (r *communityRepository) DeleteEmpty(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("NOT EXISTS (SELECT 1 FROM discussions WHERE discussions.community_id = ? AND discussions.is_deleted = ?)", id, false).
		Delete(&entity.Community{})
	return res.RowsAffected > 0, res.Error
}

func (r *communityRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Community{}).Count(&count).Error
	return count, err
}

func (r *communityRepository) FindMember(ctx context.Context, communityID, userID uuid.UUID) (*entity.CommunityMember, error) {
	var member entity.CommunityMember
	if err := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *communityRepository) ListMembers(ctx context.Context, communityID uuid.UUID) ([]entity.CommunityMember, error) {
	var members []entity.CommunityMember
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = community_members.user_id AND users.active = ?", true).
		Preload("User").
		Where("community_members.community_id = ?", communityID).
		Order("community_members.joined_at asc").
		Find(&members).Error
	return members, err
}

func (r *communityRepository) AddMember(ctx context.Context, communityID, userID uuid.UUID, role entity.MemberRole) (bool, error) {
	var inserted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inserted, err = insertMember(tx, communityID, userID, role)
		return err
	})
	return inserted, err
}

// insertMember adds the membership row and clears any pending state for the
// same user, so membership always supersedes requests and invites.
func insertMember(tx *gorm.DB, communityID, userID uuid.UUID, role entity.MemberRole) (bool, error) {
	res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&entity.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
	})
	if res.Error != nil {
		return false, res.Error
	}

	if err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&entity.CommunityJoinRequest{}).Error; err != nil {
		return false, err
	}
	if err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&entity.CommunityInvite{}).Error; err != nil {
		return false, err
	}

	return res.RowsAffected > 0, nil
}

func notCreator(communityID uuid.UUID) (string, uuid.UUID) {
	return "user_id <> (SELECT creator_id FROM communities WHERE id = ?)", communityID
}

func (r *communityRepository) RemoveMember(ctx context.Context, communityID, userID uuid.UUID, roles []entity.MemberRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}
	cond, arg := notCreator(communityID)
	res := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ? AND role IN ?", communityID, userID, roles).
		Where(cond, arg).
		Delete(&entity.CommunityMember{})
	return res.RowsAffected > 0, res.Error
}

func (r *communityRepository) UpdateMemberRole(ctx context.Context, communityID, userID uuid.UUID, role entity.MemberRole) (bool, error) {
	cond, arg := notCreator(communityID)
	res := r.db.WithContext(ctx).
		Model(&entity.CommunityMember{}).
		Where("community_id = ? AND user_id = ? AND role <> ?", communityID, userID, entity.MemberRoleAdmin).
		Where(cond, arg).
		Update("role", role)
	return res.RowsAffected > 0, res.Error
}

func (r *communityRepository) AddJoinRequest(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO community_join_requests (community_id, user_id, created_at)
		SELECT ?, ?, NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM community_members WHERE community_id = ? AND user_id = ?
		)
		ON CONFLICT DO NOTHING`,
		communityID, userID, communityID, userID)
	return res.RowsAffected > 0, res.Error
}

func (r *communityRepository) ResolveJoinRequest(ctx context.Context, communityID, userID uuid.UUID, approve bool) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&entity.CommunityJoinRequest{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		if !found || !approve {
			return nil
		}
		_, err := insertMember(tx, communityID, userID, entity.MemberRoleMember)
		return err
	})
	return found, err
}

func (r *communityRepository) AddInvite(ctx context.Context, communityID, userID, invitedBy uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO community_invites (community_id, user_id, invited_by, created_at)
		SELECT ?, ?, ?, NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM community_members WHERE community_id = ? AND user_id = ?
		)
		ON CONFLICT DO NOTHING`,
		communityID, userID, invitedBy, communityID, userID)
	return res.RowsAffected > 0, res.Error
}

func (r *communityRepository) ResolveInvite(ctx context.Context, communityID, userID uuid.UUID, accept bool) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&entity.CommunityInvite{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		if !found || !accept {
			return nil
		}
		_, err := insertMember(tx, communityID, userID, entity.MemberRoleMember)
		return err
	})
	return found, err
}
