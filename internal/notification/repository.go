package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository handles DB operations for notifications.
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new repository for notifications.
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification inserts a single notification.
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *Notification) error {
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// CreateMany bulk-inserts a batch of notifications in one call. The batch is
// unordered: rows are independent and no cross-row ordering is required.
func (r *NotificationRepository) CreateMany(ctx context.Context, notifications []*Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	docs := make([]interface{}, len(notifications))
	for i, n := range notifications {
		docs[i] = n
	}
	opts := options.InsertMany().SetOrdered(false)
	_, err := r.collection.InsertMany(ctx, docs, opts)
	return err
}

// FindByUser lists a user's notifications, newest first.
func (r *NotificationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, limit int) ([]*Notification, int64, error) {
	filter := bson.M{"user": userID}
	if unreadOnly {
		filter["read"] = false
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user": userID, "read": false})
}

// MarkRead marks one notification read. The user filter keeps a recipient
// from touching someone else's notification. Returns false when no owned
// notification matched; storage errors pass through untouched.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	update := bson.M{"$set": bson.M{"read": true}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "user": userID}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkAllRead marks every unread notification of a user read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	update := bson.M{"$set": bson.M{"read": true}}
	res, err := r.collection.UpdateMany(ctx, bson.M{"user": userID, "read": false}, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteNotification deletes one notification owned by the user. Returns
// false when no owned notification matched.
func (r *NotificationRepository) DeleteNotification(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DeleteAllForUser deletes every notification owned by the user.
func (r *NotificationRepository) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByRelatedItem cascade-deletes every notification that references a
// parent resource, regardless of recipient.
func (r *NotificationRepository) DeleteByRelatedItem(ctx context.Context, itemID primitive.ObjectID, itemType string) (int64, error) {
	filter := bson.M{"related_item.item_id": itemID, "related_item.item_type": itemType}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Why: This repository serves two callers: the recipient-facing notification
// endpoints, and the blood donation service which bulk-inserts the matching
// fan-out and cascades deletes when a request is removed.
