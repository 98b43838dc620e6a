package notification

import (
	"context"

	"MedLocator/internal/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// recipientStore is the persistence surface the service needs. The Mongo
// repository satisfies it; tests use an in-memory fake.
type recipientStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, limit int) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteNotification(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// NotificationService exposes the recipient-facing notification surface.
type NotificationService struct {
	store recipientStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store recipientStore) *NotificationService {
	return &NotificationService{store: store}
}

// NotificationPage is the paginated listing response.
type NotificationPage struct {
	Notifications []*Notification `json:"notifications"`
	Total         int64           `json:"total"`
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
	TotalPages    int             `json:"totalPages"`
	HasNext       bool            `json:"hasNext"`
	HasPrev       bool            `json:"hasPrev"`
}

// ListForUser returns one page of the caller's notifications.
func (s *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, limit int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	notifications, total, err := s.store.FindByUser(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*Notification{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &NotificationPage{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		Limit:         limit,
		TotalPages:    totalPages,
		HasNext:       page < totalPages,
		HasPrev:       page > 1,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead marks one owned notification read. A storage failure passes
// through so it surfaces as an internal error, not a 404.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	matched, err := s.store.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !matched {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	deleted, err := s.store.DeleteNotification(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.store.DeleteAllForUser(ctx, userID)
}
