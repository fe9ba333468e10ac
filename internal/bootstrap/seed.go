package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"discussify.com/api/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Community{},
		&entity.CommunityMember{},
		&entity.CommunityJoinRequest{},
		&entity.CommunityInvite{},
		&entity.Discussion{},
		&entity.Comment{},
		&entity.Resource{},
		&entity.Like{},
		&entity.Notification{},
		&entity.Activity{},
	)
}

// SeedAdminUser creates the platform admin account once.
func SeedAdminUser(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return errors.New("seed admin email and password are required")
	}
	email = strings.ToLower(email)

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("[bootstrap] admin user already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := entity.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         entity.UserRoleAdmin,
		Active:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("[bootstrap] admin user seeded: %s", email)
	return nil
}
