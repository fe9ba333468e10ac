package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/user/dto"
	"discussify.com/api/pkg/apperror"
	"discussify.com/api/pkg/async"
	commonDto "discussify.com/api/pkg/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := m.users[id]; ok && u.Active {
		out := *u
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	var out []entity.User
	for _, id := range ids {
		if u, err := m.FindByID(ctx, id); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) && u.Active {
			out := *u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Search(ctx context.Context, term string, exclude uuid.UUID, limit int) ([]entity.User, error) {
	var out []entity.User
	for _, u := range m.users {
		if u.ID != exclude && u.Active && strings.Contains(u.Username, term) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	u, ok := m.users[id]
	if !ok || !u.Active {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["username"].(string); ok {
		for _, other := range m.users {
			if other.ID != id && other.Username == v {
				return gorm.ErrDuplicatedKey
			}
		}
		u.Username = v
	}
	if v, ok := updates["bio"].(string); ok {
		u.Bio = &v
	}
	if v, ok := updates["photo"].(string); ok {
		u.Photo = &v
	}
	return nil
}

func (m *mockUserRepo) UpdatePreferences(ctx context.Context, id uuid.UUID, patch entity.PreferencesPatch) error {
	return nil
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]entity.User, error) {
	var out []entity.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u.Active = active
	return u, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type mockStorage struct {
	uploads []string
	deleted []string
	err     error
}

func (m *mockStorage) Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	url := "https://cdn.example.com/" + folder + "/" + fileName
	m.uploads = append(m.uploads, url)
	return url, nil
}

func (m *mockStorage) Delete(ctx context.Context, fileURL string) error {
	m.deleted = append(m.deleted, fileURL)
	return nil
}

const testSecret = "secret"

func signup(t *testing.T, svc AuthService, username, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Signup(context.Background(), dto.SignupInput{
		Username:        username,
		Email:           email,
		Password:        "password123",
		PasswordConfirm: "password123",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return resp
}

func TestSignupIssuesToken(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testSecret, time.Hour, nil, async.Inline{})
	resp := signup(t, svc, " alice ", "Alice@Example.com")

	if resp.User.Username != "alice" || resp.User.Email != "alice@example.com" {
		t.Errorf("expected trimmed, lower-cased identity, got %+v", resp.User)
	}
	if resp.User.Role != entity.UserRoleUser {
		t.Errorf("expected role user, got %s", resp.User.Role)
	}
	if !resp.User.Preferences.Replies {
		t.Error("notification preferences should default to enabled")
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("token should verify: %v", err)
	}
	if claims.Subject != resp.User.ID {
		t.Errorf("subject = %s, want %s", claims.Subject, resp.User.ID)
	}
}

func TestSignupDuplicate(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testSecret, time.Hour, nil, async.Inline{})
	signup(t, svc, "alice", "alice@example.com")

	_, err := svc.Signup(context.Background(), dto.SignupInput{
		Username: "alice2", Email: "alice@example.com", Password: "password123", PasswordConfirm: "password123",
	})
	if apperror.Status(err) != 409 {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour, nil, async.Inline{})
	created := signup(t, svc, "alice", "alice@example.com")

	if _, err := svc.Login(context.Background(), dto.LoginInput{Email: "ALICE@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, err := svc.Login(context.Background(), dto.LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Errorf("wrong password: expected unauthorized, got %v", err)
	}

	id := uuid.MustParse(created.User.ID)
	repo.users[id].Active = false
	_, err = svc.Login(context.Background(), dto.LoginInput{Email: "alice@example.com", Password: "password123"})
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Errorf("inactive user: expected unauthorized, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testSecret, time.Hour, nil, async.Inline{})
	alice := signup(t, svc, "alice", "alice@example.com")
	signup(t, svc, "bob", "bob@example.com")
	id := uuid.MustParse(alice.User.ID)

	bio := "gopher"
	resp, err := svc.UpdateProfile(context.Background(), id, dto.UpdateProfileInput{Bio: &bio}, nil)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.Bio == nil || *resp.Bio != "gopher" {
		t.Errorf("bio not updated: %+v", resp)
	}

	taken := "bob"
	_, err = svc.UpdateProfile(context.Background(), id, dto.UpdateProfileInput{Username: &taken}, nil)
	if apperror.Status(err) != 409 {
		t.Errorf("expected 409 for taken username, got %v", err)
	}
}

func TestSearchExcludesCaller(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testSecret, time.Hour, nil, async.Inline{})
	alice := signup(t, svc, "alice", "alice@example.com")
	signup(t, svc, "alina", "alina@example.com")

	results, err := svc.Search(context.Background(), uuid.MustParse(alice.User.ID), "al")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Username != "alina" {
		t.Errorf("unexpected results: %+v", results)
	}

	empty, _ := svc.Search(context.Background(), uuid.New(), "  ")
	if empty == nil || len(empty) != 0 {
		t.Errorf("blank term should return an empty list, got %v", empty)
	}
}

func photo(name, contentType string) *commonDto.UploadedFile {
	return &commonDto.UploadedFile{Reader: strings.NewReader("img"), FileName: name, ContentType: contentType}
}

func TestUpdateProfilePhoto(t *testing.T) {
	fs := &mockStorage{}
	svc := NewAuthService(newMockUserRepo(), testSecret, time.Hour, fs, async.Inline{})
	alice := signup(t, svc, "alice", "alice@example.com")
	id := uuid.MustParse(alice.User.ID)
	ctx := context.Background()

	resp, err := svc.UpdateProfile(ctx, id, dto.UpdateProfileInput{}, photo("me.png", "image/png"))
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	first := "https://cdn.example.com/avatars/me.png"
	if resp.Photo == nil || *resp.Photo != first {
		t.Fatalf("expected photo %s, got %v", first, resp.Photo)
	}
	if len(fs.deleted) != 0 {
		t.Fatalf("nothing to delete on first upload, got %v", fs.deleted)
	}

	resp, err = svc.UpdateProfile(ctx, id, dto.UpdateProfileInput{}, photo("new.jpg", "image/jpeg"))
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.Photo == nil || *resp.Photo != "https://cdn.example.com/avatars/new.jpg" {
		t.Fatalf("photo not replaced: %v", resp.Photo)
	}
	if len(fs.deleted) != 1 || fs.deleted[0] != first {
		t.Fatalf("expected old photo removed, got %v", fs.deleted)
	}
}

func TestUpdateProfilePhotoRejected(t *testing.T) {
	ctx := context.Background()

	noStorage := NewAuthService(newMockUserRepo(), testSecret, time.Hour, nil, async.Inline{})
	alice := signup(t, noStorage, "alice", "alice@example.com")
	_, err := noStorage.UpdateProfile(ctx, uuid.MustParse(alice.User.ID), dto.UpdateProfileInput{}, photo("me.png", "image/png"))
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error without storage, got %v", err)
	}

	fs := &mockStorage{}
	svc := NewAuthService(newMockUserRepo(), testSecret, time.Hour, fs, async.Inline{})
	bob := signup(t, svc, "bob", "bob@example.com")
	bobID := uuid.MustParse(bob.User.ID)

	_, err = svc.UpdateProfile(ctx, bobID, dto.UpdateProfileInput{}, photo("notes.pdf", "application/pdf"))
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error for non-image, got %v", err)
	}

	fs.err = errors.New("cdn down")
	if _, err := svc.UpdateProfile(ctx, bobID, dto.UpdateProfileInput{}, photo("me.png", "image/png")); err == nil {
		t.Error("expected upload failure to surface")
	}
	if len(fs.uploads) != 0 {
		t.Errorf("no upload should have happened, got %v", fs.uploads)
	}
}

func TestDeactivate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour, nil, async.Inline{})
	alice := signup(t, svc, "alice", "alice@example.com")
	id := uuid.MustParse(alice.User.ID)
	ctx := context.Background()

	if err := svc.Deactivate(ctx, id); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if repo.users[id].Active {
		t.Fatal("user should be inactive")
	}

	_, err := svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "password123"})
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Errorf("deactivated user should not log in, got %v", err)
	}

	if err := svc.Deactivate(ctx, uuid.New()); apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
