package service

import (
	"context"
	"testing"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/notification/dto"
	"discussify.com/api/pkg/apperror"
	"github.com/google/uuid"
)

func seed(repo *mockNotificationRepo, recipient uuid.UUID, n int) {
	for i := 0; i < n; i++ {
		repo.stored = append(repo.stored, &entity.Notification{
			ID:          uuid.New(),
			RecipientID: recipient,
			SenderID:    uuid.New(),
			Type:        entity.NotificationReply,
		})
	}
}

func TestListReturnsUnreadCount(t *testing.T) {
	repo := &mockNotificationRepo{}
	me := uuid.New()
	seed(repo, me, ListLimit+3)
	seed(repo, uuid.New(), 2)
	repo.stored[0].IsRead = true

	svc := NewNotificationService(repo, &mockUsers{users: map[uuid.UUID]*entity.User{}})
	list, err := svc.List(context.Background(), me)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Notifications) != ListLimit {
		t.Errorf("expected %d notifications, got %d", ListLimit, len(list.Notifications))
	}
	if list.UnreadCount != ListLimit+2 {
		t.Errorf("expected unread %d, got %d", ListLimit+2, list.UnreadCount)
	}
}

func TestMarkRead(t *testing.T) {
	repo := &mockNotificationRepo{}
	me := uuid.New()
	other := uuid.New()
	seed(repo, me, 3)
	seed(repo, other, 1)
	svc := NewNotificationService(repo, &mockUsers{users: map[uuid.UUID]*entity.User{}})
	ctx := context.Background()

	if err := svc.MarkRead(ctx, me, repo.stored[0].ID.String()); err != nil {
		t.Fatalf("MarkRead single: %v", err)
	}
	if n, _ := repo.CountUnread(ctx, me); n != 2 {
		t.Fatalf("expected 2 unread after single mark, got %d", n)
	}

	// another user's notification id is not touched
	if err := svc.MarkRead(ctx, me, repo.stored[3].ID.String()); err != nil {
		t.Fatalf("MarkRead foreign: %v", err)
	}
	if n, _ := repo.CountUnread(ctx, other); n != 1 {
		t.Fatal("foreign notification must stay unread")
	}

	if err := svc.MarkRead(ctx, me, "all"); err != nil {
		t.Fatalf("MarkRead all: %v", err)
	}
	if n, _ := repo.CountUnread(ctx, me); n != 0 {
		t.Fatalf("expected 0 unread, got %d", n)
	}

	if err := svc.MarkRead(ctx, me, "not-an-id"); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePreferencesPatchesOnlyGivenFlags(t *testing.T) {
	u := newUser("u")
	users := &mockUsers{users: map[uuid.UUID]*entity.User{u.ID: u}}
	svc := NewNotificationService(&mockNotificationRepo{}, users)

	prefs, err := svc.UpdatePreferences(context.Background(), u.ID, dto.UpdatePreferencesRequest{NewResource: boolPtr(false)})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if !prefs.NewDiscussion || prefs.NewResource || !prefs.Replies {
		t.Fatalf("unexpected prefs %+v", prefs)
	}
	if got := u.Preferences(); got != *prefs {
		t.Fatalf("stored prefs %+v differ from returned %+v", got, *prefs)
	}
	if p := users.patches[0]; p.NewDiscussion != nil || p.Replies != nil {
		t.Fatalf("only the given flag should be written, got %+v", p)
	}

	_, err = svc.UpdatePreferences(context.Background(), uuid.New(), dto.UpdatePreferencesRequest{})
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePreferencesKeepsEarlierFlags(t *testing.T) {
	u := newUser("u")
	users := &mockUsers{users: map[uuid.UUID]*entity.User{u.ID: u}}
	svc := NewNotificationService(&mockNotificationRepo{}, users)
	ctx := context.Background()

	if _, err := svc.UpdatePreferences(ctx, u.ID, dto.UpdatePreferencesRequest{NewDiscussion: boolPtr(false)}); err != nil {
		t.Fatal(err)
	}
	prefs, err := svc.UpdatePreferences(ctx, u.ID, dto.UpdatePreferencesRequest{Replies: boolPtr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if prefs.NewDiscussion || !prefs.NewResource || prefs.Replies {
		t.Fatalf("expected both writes to stick, got %+v", prefs)
	}
}
