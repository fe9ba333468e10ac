package repository

import (
	"context"
	"strings"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Search(ctx context.Context, term string, exclude uuid.UUID, limit int) ([]entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdatePreferences(ctx context.Context, id uuid.UUID, patch entity.PreferencesPatch) error

	// Admin queries see inactive users too.
	ListAll(ctx context.Context) ([]entity.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Active restricts a query to users that are not soft deleted.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("users.active = ?", true)
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Scopes(Active).
		Where("users.id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(Active).
		Where("users.id IN ?", ids).
		Find(&users).Error
	return users, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Scopes(Active).
		Where("users.email = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Search(ctx context.Context, term string, exclude uuid.UUID, limit int) ([]entity.User, error) {
	var users []entity.User
	pattern := "%" + term + "%"
	err := r.db.WithContext(ctx).
		Scopes(Active).
		Where("users.id <> ?", exclude).
		Where("users.username ILIKE ? OR users.email ILIKE ?", pattern, pattern).
		Order("users.username asc").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Scopes(Active).
		Where("users.id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePreferences writes only the flag columns present in patch.
func (r *userRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, patch entity.PreferencesPatch) error {
	updates := map[string]any{}
	if patch.NewDiscussion != nil {
		updates["notify_new_discussion"] = *patch.NewDiscussion
	}
	if patch.NewResource != nil {
		updates["notify_new_resource"] = *patch.NewResource
	}
	if patch.Replies != nil {
		updates["notify_replies"] = *patch.Replies
	}
	if len(updates) == 0 {
		return nil
	}
	return r.UpdateProfile(ctx, id, updates)
}

func (r *userRepository) ListAll(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Order("users.created_at desc").
		Find(&users).Error
	return users, err
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*entity.User, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("users.id = ?", id).
		Update("active", active)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var user entity.User
	if err := r.db.WithContext(ctx).Where("users.id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the number of active users.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Scopes(Active).
		Count(&count).Error
	return count, err
}
