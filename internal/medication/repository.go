package medication

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MedicationRepository handles DB operations for medications.
type MedicationRepository struct {
	collection *mongo.Collection
}

// NewMedicationRepository creates a new repository for medications.
func NewMedicationRepository(db *mongo.Database) *MedicationRepository {
	return &MedicationRepository{collection: db.Collection("medications")}
}

func (r *MedicationRepository) CreateMedication(ctx context.Context, medication *Medication) error {
	_, err := r.collection.InsertOne(ctx, medication)
	return err
}

func (r *MedicationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Medication, error) {
	var medication Medication
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&medication)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &medication, nil
}

// Search lists medications matching an optional case-insensitive name
// substring and an exact category, newest first, paginated.
func (r *MedicationRepository) Search(ctx context.Context, name, category string, page, limit int) ([]*Medication, int64, error) {
	filter := bson.M{}
	if name != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": name, "$options": "i"}},
			{"generic_name": bson.M{"$regex": name, "$options": "i"}},
		}
	}
	if category != "" {
		filter["category"] = category
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
	var medications []*Medication
	if err := cursor.All(ctx, &medications); err != nil {
		return nil, 0, err
	}
	return medications, total, nil
}

// UpdateMedication patches only the fields the request carries. Omitted
// fields keep their stored values.
func (r *MedicationRepository) UpdateMedication(ctx context.Context, id primitive.ObjectID, req UpdateMedicationRequest) error {
	set := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.GenericName != "" {
		set["generic_name"] = req.GenericName
	}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.RequiresRx != nil {
		set["requires_rx"] = *req.RequiresRx
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("medication not found")
	}
	return nil
}

func (r *MedicationRepository) DeleteMedication(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("medication not found")
	}
	return nil
}

// SetStockEntry updates the existing stock entry for a pharmacy in place via
// the positional operator. Returns false when the medication has no entry
// for that pharmacy.
func (r *MedicationRepository) SetStockEntry(ctx context.Context, medID, pharmacyID primitive.ObjectID, inStock bool, price float64) (bool, error) {
	filter := bson.M{"_id": medID, "pharmacies.pharmacy": pharmacyID}
	update := bson.M{
		"$set": bson.M{
			"pharmacies.$.in_stock": inStock,
			"pharmacies.$.price":    price,
			"updated_at":            time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// AddStockEntry appends a new stock entry, guarded so a concurrent insert
// for the same pharmacy cannot produce a duplicate. Returns false when the
// guard rejected the push.
func (r *MedicationRepository) AddStockEntry(ctx context.Context, medID primitive.ObjectID, entry StockEntry) (bool, error) {
	filter := bson.M{"_id": medID, "pharmacies.pharmacy": bson.M{"$ne": entry.Pharmacy}}
	update := bson.M{
		"$push": bson.M{"pharmacies": entry},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
