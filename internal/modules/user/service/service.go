package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/user/dto"
	"discussify.com/api/internal/modules/user/repository"
	"discussify.com/api/pkg/apperror"
	"discussify.com/api/pkg/async"
	commonDto "discussify.com/api/pkg/dto"
	"discussify.com/api/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	searchLimit  = 10
	avatarFolder = "avatars"
)

type AuthService interface {
	Signup(ctx context.Context, input dto.SignupInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, photo *commonDto.UploadedFile) (*dto.UserResponse, error)
	// Deactivate soft deletes the caller's own account.
	Deactivate(ctx context.Context, userID uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, term string) ([]commonDto.UserSummary, error)
}

type authService struct {
	repo        repository.UserRepository
	secret      string
	tokenTTL    time.Duration
	fileStorage storage.FileStorage
	runner      async.Runner
}

func NewAuthService(repo repository.UserRepository, secret string, tokenTTL time.Duration, fileStorage storage.FileStorage, runner async.Runner) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		repo:        repo,
		secret:      secret,
		tokenTTL:    tokenTTL,
		fileStorage: fileStorage,
		runner:      runner,
	}
}

func (s *authService) Signup(ctx context.Context, input dto.SignupInput) (*dto.AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hashed),
		Role:         entity.UserRoleUser,
		Active:       true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Username or email is already taken").WithStatus(http.StatusConflict)
		}
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("Incorrect email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.Unauthorized("Incorrect email or password")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("The user belonging to this token no longer exists.")
		}
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, photo *commonDto.UploadedFile) (*dto.UserResponse, error) {
	updates := map[string]any{}
	if input.Username != nil {
		updates["username"] = strings.TrimSpace(*input.Username)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}

	var oldPhoto *string
	if photo != nil {
		if s.fileStorage == nil {
			return nil, apperror.Validation("File uploads are not available")
		}
		if !strings.HasPrefix(photo.ContentType, "image/") {
			return nil, apperror.Validation("Profile photo must be an image")
		}

		current, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.Unauthorized("The user belonging to this token no longer exists.")
			}
			return nil, err
		}

		url, err := s.fileStorage.Upload(ctx, photo.Reader, avatarFolder, photo.FileName)
		if err != nil {
			return nil, fmt.Errorf("upload photo: %w", err)
		}
		updates["photo"] = url
		oldPhoto = current.Photo
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProfile(ctx, userID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperror.Conflict("Username is already taken").WithStatus(http.StatusConflict)
			}
			return nil, err
		}
	}

	if oldPhoto != nil && *oldPhoto != "" {
		old := *oldPhoto
		s.runner.Go("storage:delete-photo", func(ctx context.Context) error {
			return s.fileStorage.Delete(ctx, old)
		})
	}

	return s.Profile(ctx, userID)
}

func (s *authService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.SetActive(ctx, userID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}
	return nil
}

func (s *authService) Search(ctx context.Context, userID uuid.UUID, term string) ([]commonDto.UserSummary, error) {
	term = strings.TrimSpace(term)
	result := []commonDto.UserSummary{}
	if term == "" {
		return result, nil
	}

	users, err := s.repo.Search(ctx, term, userID, searchLimit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		result = append(result, *commonDto.NewUserSummary(&users[i]))
	}
	return result, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) generateToken(user *entity.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
