package medication

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockEntry records availability and pricing of a medication at one
// pharmacy. A medication holds at most one entry per pharmacy id.
type StockEntry struct {
	Pharmacy primitive.ObjectID `bson:"pharmacy" json:"pharmacy"`
	InStock  bool               `bson:"in_stock" json:"inStock"`
	Price    float64            `bson:"price" json:"price"`
}

type Medication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	GenericName string             `bson:"generic_name" json:"genericName"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	RequiresRx  bool               `bson:"requires_rx" json:"requiresRx"` // Prescription required
	Pharmacies  []StockEntry       `bson:"pharmacies" json:"pharmacies"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CreateMedicationRequest struct {
	Name        string `json:"name"`
	GenericName string `json:"genericName"`
	Category    string `json:"category"`
	Description string `json:"description"`
	RequiresRx  bool   `json:"requiresRx"`
}

// UpdateMedicationRequest is a partial update. RequiresRx is a pointer so
// an omitted flag is distinguishable from an explicit false.
type UpdateMedicationRequest struct {
	Name        string `json:"name"`
	GenericName string `json:"genericName"`
	Category    string `json:"category"`
	Description string `json:"description"`
	RequiresRx  *bool  `json:"requiresRx"`
}

type UpdateStockRequest struct {
	PharmacyID string  `json:"pharmacyId"`
	InStock    bool    `json:"inStock"`
	Price      float64 `json:"price"`
}
