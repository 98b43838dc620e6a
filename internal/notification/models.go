package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelatedItem links a notification back to the resource it was created for,
// so deleting that resource can cascade here.
type RelatedItem struct {
	ItemID   primitive.ObjectID `bson:"item_id" json:"itemId"`
	ItemType string             `bson:"item_type" json:"itemType"` // e.g. BloodDonation, Medication
}

// Notification is an in-app message owned exclusively by its recipient.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Type        string             `bson:"type" json:"type"` // blood, medication or system
	Title       string             `bson:"title" json:"title"`
	Message     string             `bson:"message" json:"message"`
	Read        bool               `bson:"read" json:"read"`
	User        primitive.ObjectID `bson:"user" json:"user"` // Recipient
	RelatedItem *RelatedItem       `bson:"related_item,omitempty" json:"relatedItem,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	ExpiresAt   *time.Time         `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
}
