package service

import (
	"context"

	"devmate/internal/models"
	"devmate/internal/repository"
)

// NotificationService creates and manages in-app notifications. All Create*
// helpers skip self-notifications: a user acting on their own content never
// produces a row.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// NotificationFeed bundles a notification page with the unread counter.
type NotificationFeed struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

// CreateForLike records a like notification for the post author.
// Returns nil when actor is the post author.
func (s *NotificationService) CreateForLike(ctx context.Context, actorID uint, post *models.Post) (*models.Notification, error) {
	return s.create(ctx, post.UserID, actorID, models.NotificationTypeLike, &post.ID)
}

// CreateForComment records a comment notification for the post author.
// Returns nil when actor is the post author.
func (s *NotificationService) CreateForComment(ctx context.Context, actorID uint, post *models.Post) (*models.Notification, error) {
	return s.create(ctx, post.UserID, actorID, models.NotificationTypeComment, &post.ID)
}

// CreateForFollow records a follow notification for the followed user.
func (s *NotificationService) CreateForFollow(ctx context.Context, actorID, targetID uint) (*models.Notification, error) {
	return s.create(ctx, targetID, actorID, models.NotificationTypeFollow, nil)
}

func (s *NotificationService) create(ctx context.Context, recipientID, actorID uint, notifType string, postID *uint) (*models.Notification, error) {
	if recipientID == actorID {
		return nil, nil
	}

	notification := &models.Notification{
		UserID:  recipientID,
		Type:    notifType,
		ActorID: actorID,
		PostID:  postID,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// ListForUser returns the recipient's notifications, newest first, with the
// unread count.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, limit, offset int) (*NotificationFeed, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationFeed{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkAllRead marks every unread notification for the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// DeleteAll removes all of the user's notifications. Other users' rows are
// never affected.
func (s *NotificationService) DeleteAll(ctx context.Context, userID uint) error {
	return s.notificationRepo.DeleteAllForUser(ctx, userID)
}
