package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/notification/dto"
	notifRepo "discussify.com/api/internal/modules/notification/repository"
	"discussify.com/api/pkg/async"
	"discussify.com/api/pkg/mailer"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NotificationData describes one triggering event.
type NotificationData struct {
	ActorID     uuid.UUID
	CommunityID *uuid.UUID
	// RecipientID is required for direct types and ignored for fan-out types.
	RecipientID *uuid.UUID
	Message     string
	Link        string
}

// MemberLister resolves a community's members with their user records.
type MemberLister interface {
	ListMembers(ctx context.Context, communityID uuid.UUID) ([]entity.CommunityMember, error)
}

// UserFinder looks up active users.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type Dispatcher interface {
	// CreateNotification persists the notifications for an event. It never
	// fails: lookup and persistence errors are logged and dropped.
	CreateNotification(ctx context.Context, kind entity.NotificationType, data NotificationData)
	// Dispatch runs CreateNotification on the async runner.
	Dispatch(kind entity.NotificationType, data NotificationData)
}

type dispatcher struct {
	repo        notifRepo.NotificationRepository
	members     MemberLister
	users       UserFinder
	runner      async.Runner
	redisClient *redis.Client
	mailer      mailer.Mailer
	frontendURL string
}

type DispatcherOption func(*dispatcher)

// WithRedis publishes every stored notification on the recipient's channel.
func WithRedis(client *redis.Client) DispatcherOption {
	return func(d *dispatcher) { d.redisClient = client }
}

// WithMailer emails community invitations.
func WithMailer(m mailer.Mailer, frontendURL string) DispatcherOption {
	return func(d *dispatcher) {
		d.mailer = m
		d.frontendURL = frontendURL
	}
}

func NewDispatcher(repo notifRepo.NotificationRepository, members MemberLister, users UserFinder, runner async.Runner, opts ...DispatcherOption) Dispatcher {
	d := &dispatcher{
		repo:    repo,
		members: members,
		users:   users,
		runner:  runner,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *dispatcher) Dispatch(kind entity.NotificationType, data NotificationData) {
	d.runner.Go("notification:"+string(kind), func(ctx context.Context) error {
		d.CreateNotification(ctx, kind, data)
		return nil
	})
}

func (d *dispatcher) CreateNotification(ctx context.Context, kind entity.NotificationType, data NotificationData) {
	var (
		notifications []*entity.Notification
		recipient     *entity.User
		err           error
	)

	switch kind {
	case entity.NotificationDiscussion, entity.NotificationResource:
		notifications, err = d.fanOut(ctx, kind, data)
	case entity.NotificationReply, entity.NotificationCommunityInvite, entity.NotificationJoinRequest:
		notifications, recipient, err = d.direct(ctx, kind, data)
	default:
		return
	}

	if err != nil {
		log.Printf("[notification] %s: %v", kind, err)
		return
	}
	if len(notifications) == 0 {
		return
	}

	if err := d.repo.CreateBatch(ctx, notifications); err != nil {
		log.Printf("[notification] %s: failed to store %d notifications: %v", kind, len(notifications), err)
		return
	}

	if kind == entity.NotificationCommunityInvite && recipient != nil {
		d.sendInviteEmail(ctx, recipient, data)
	}
	d.publish(ctx, notifications)
}

func (d *dispatcher) fanOut(ctx context.Context, kind entity.NotificationType, data NotificationData) ([]*entity.Notification, error) {
	if data.CommunityID == nil {
		return nil, fmt.Errorf("fan-out without community")
	}

	members, err := d.members.ListMembers(ctx, *data.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("list members of %s: %w", *data.CommunityID, err)
	}

	recipients := EligibleRecipients(members, data.ActorID, kind)
	notifications := make([]*entity.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		notifications = append(notifications, newNotification(kind, recipient, data))
	}
	return notifications, nil
}

// EligibleRecipients filters members down to those who should receive a
// fan-out notification: never the actor, never a member whose preference for
// the event is explicitly off.
func EligibleRecipients(members []entity.CommunityMember, actorID uuid.UUID, kind entity.NotificationType) []uuid.UUID {
	var recipients []uuid.UUID
	seen := make(map[uuid.UUID]struct{}, len(members))
	for _, m := range members {
		if m.UserID == actorID || m.User.ID == uuid.Nil {
			continue
		}
		if _, dup := seen[m.UserID]; dup {
			continue
		}

		prefs := m.User.Preferences()
		switch kind {
		case entity.NotificationDiscussion:
			if !prefs.NewDiscussion {
				continue
			}
		case entity.NotificationResource:
			if !prefs.NewResource {
				continue
			}
		}

		seen[m.UserID] = struct{}{}
		recipients = append(recipients, m.UserID)
	}
	return recipients
}

func (d *dispatcher) direct(ctx context.Context, kind entity.NotificationType, data NotificationData) ([]*entity.Notification, *entity.User, error) {
	if data.RecipientID == nil || *data.RecipientID == uuid.Nil {
		return nil, nil, fmt.Errorf("missing recipient")
	}
	recipientID := *data.RecipientID
	if recipientID == data.ActorID {
		log.Printf("[notification] %s: skipping self-notification for %s", kind, recipientID)
		return nil, nil, nil
	}

	recipient, err := d.users.FindByID(ctx, recipientID)
	if err != nil {
		return nil, nil, fmt.Errorf("recipient %s: %w", recipientID, err)
	}

	return []*entity.Notification{newNotification(kind, recipientID, data)}, recipient, nil
}

func newNotification(kind entity.NotificationType, recipient uuid.UUID, data NotificationData) *entity.Notification {
	return &entity.Notification{
		RecipientID: recipient,
		SenderID:    data.ActorID,
		Type:        kind,
		CommunityID: data.CommunityID,
		Link:        data.Link,
		Message:     data.Message,
	}
}

func (d *dispatcher) publish(ctx context.Context, notifications []*entity.Notification) {
	if d.redisClient == nil {
		return
	}

	var sender *entity.User
	if u, err := d.users.FindByID(ctx, notifications[0].SenderID); err == nil {
		sender = u
	}

	for _, n := range notifications {
		n.Sender = sender
		payload, err := json.Marshal(dto.NewNotificationResponse(n))
		if err != nil {
			continue
		}
		channel := fmt.Sprintf("user_notifications:%s", n.RecipientID.String())
		if err := d.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
			log.Printf("[notification] publish to %s failed: %v", channel, err)
		}
	}
}

func (d *dispatcher) sendInviteEmail(ctx context.Context, recipient *entity.User, data NotificationData) {
	if d.mailer == nil || recipient.Email == "" {
		return
	}

	inviter := "Someone"
	if actor, err := d.users.FindByID(ctx, data.ActorID); err == nil {
		inviter = actor.Username
	}

	body := mailer.InviteHTML(inviter, data.Message, d.frontendURL+data.Link)
	if err := d.mailer.Send(recipient.Email, "You have been invited to a community", body); err != nil {
		log.Printf("[notification] invite email: %v", err)
	}
}
