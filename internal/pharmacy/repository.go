package pharmacy

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PharmacyRepository handles DB operations for pharmacies. It also holds the
// medications collection so deleting a pharmacy can pull its stock entries
// out of every medication.
type PharmacyRepository struct {
	pharmaciesCollection  *mongo.Collection
	medicationsCollection *mongo.Collection
}

// NewPharmacyRepository creates a new repository for pharmacy operations.
func NewPharmacyRepository(db *mongo.Database) *PharmacyRepository {
	return &PharmacyRepository{
		pharmaciesCollection:  db.Collection("pharmacies"),
		medicationsCollection: db.Collection("medications"),
	}
}

func (r *PharmacyRepository) CreatePharmacy(ctx context.Context, pharmacy *Pharmacy) error {
	_, err := r.pharmaciesCollection.InsertOne(ctx, pharmacy)
	return err
}

func (r *PharmacyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Pharmacy, error) {
	var pharmacy Pharmacy
	err := r.pharmaciesCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&pharmacy)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &pharmacy, nil
}

// Search lists pharmacies matching an optional case-insensitive name or city
// substring, newest first, paginated.
func (r *PharmacyRepository) Search(ctx context.Context, name, city string, page, limit int) ([]*Pharmacy, int64, error) {
	filter := bson.M{}
	if name != "" {
		filter["name"] = bson.M{"$regex": name, "$options": "i"}
	}
	if city != "" {
		filter["city"] = bson.M{"$regex": city, "$options": "i"}
	}

	total, err := r.pharmaciesCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.pharmaciesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var pharmacies []*Pharmacy
	if err := cursor.All(ctx, &pharmacies); err != nil {
		return nil, 0, err
	}
	return pharmacies, total, nil
}

// UpdatePharmacy patches only the fields the request carries. Omitted
// fields keep their stored values.
func (r *PharmacyRepository) UpdatePharmacy(ctx context.Context, id primitive.ObjectID, req UpdatePharmacyRequest) error {
	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Address != "" {
		set["address"] = req.Address
	}
	if req.City != "" {
		set["city"] = req.City
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if len(set) == 0 {
		count, err := r.pharmaciesCollection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if count == 0 {
			return errors.New("pharmacy not found")
		}
		return nil
	}
	res, err := r.pharmaciesCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("pharmacy not found")
	}
	return nil
}

// DeletePharmacy removes the pharmacy and cascades a $pull of its stock
// entries from every medication's pharmacies array.
func (r *PharmacyRepository) DeletePharmacy(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.pharmaciesCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("pharmacy not found")
	}
	_, err = r.medicationsCollection.UpdateMany(ctx,
		bson.M{"pharmacies.pharmacy": id},
		bson.M{"$pull": bson.M{"pharmacies": bson.M{"pharmacy": id}}})
	return err
}
