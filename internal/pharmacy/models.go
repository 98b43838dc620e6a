package pharmacy

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pharmacy is a registered pharmacy managed by its owner account.
type Pharmacy struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address" json:"address"`
	City      string             `bson:"city" json:"city"`
	Phone     string             `bson:"phone" json:"phone"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"` // Account that manages this pharmacy
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type CreatePharmacyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

type UpdatePharmacyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}
