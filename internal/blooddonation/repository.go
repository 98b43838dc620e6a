package blooddonation

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RequestRepository handles DB operations for blood donation requests.
type RequestRepository struct {
	collection *mongo.Collection
}

// NewRequestRepository creates a new repository for donation requests.
func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{collection: db.Collection("blood_donation_requests")}
}

func (r *RequestRepository) CreateRequest(ctx context.Context, request *DonationRequest) error {
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*DonationRequest, error) {
	var request DonationRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// List returns one page of requests sorted by urgency rank descending, then
// creation time descending.
func (r *RequestRepository) List(ctx context.Context, filters ListFilters, page, limit int) ([]*DonationRequest, int64, error) {
	filter := bson.M{}
	if filters.Status != "" {
		filter["status"] = filters.Status
	}
	if filters.BloodType != "" {
		filter["blood_type"] = filters.BloodType
	}
	if filters.Urgency != "" {
		filter["urgency"] = filters.Urgency
	}
	if filters.Hospital != "" {
		filter["hospital"] = bson.M{"$regex": filters.Hospital, "$options": "i"}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "urgency_rank", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var requests []*DonationRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// FindActiveByBloodType returns active, non-expired requests for one exact
// blood type.
func (r *RequestRepository) FindActiveByBloodType(ctx context.Context, bloodType string, now time.Time) ([]*DonationRequest, error) {
	filter := bson.M{
		"blood_type": bloodType,
		"status":     "active",
		"expires_at": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "urgency_rank", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var requests []*DonationRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) UpdateRequest(ctx context.Context, request *DonationRequest) error {
	update := bson.M{
		"$set": bson.M{
			"blood_type":   request.BloodType,
			"hospital":     request.Hospital,
			"urgency":      request.Urgency,
			"urgency_rank": request.UrgencyRank,
			"contact_info": request.ContactInfo,
			"status":       request.Status,
			"expires_at":   request.ExpiresAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": request.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("request not found")
	}
	return nil
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("request not found")
	}
	return nil
}

// AppendDonor appends a donor entry and flips status to fulfilled when this
// is the first donor on a high urgency request, in one atomic document
// update. The aggregation pipeline evaluates the donor count and the flip
// inside the storage engine, so two concurrent responders cannot both
// observe an empty donor list or both fulfil the request. The filter rejects
// non-active, expired and already-responded requests; no match returns
// (nil, nil) and the caller disambiguates the reason.
func (r *RequestRepository) AppendDonor(ctx context.Context, requestID primitive.ObjectID, entry DonorEntry, now time.Time) (*DonationRequest, error) {
	filter := bson.M{
		"_id":        requestID,
		"status":     "active",
		"expires_at": bson.M{"$gt": now},
		"donors.user": bson.M{"$ne": entry.User},
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"donors": bson.M{"$concatArrays": bson.A{"$donors", bson.A{bson.M{
				"user":          entry.User,
				"donation_date": entry.DonationDate,
				"status":        entry.Status,
			}}}},
			"status": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$urgency", "high"}},
					bson.M{"$eq": bson.A{bson.M{"$size": "$donors"}, 0}},
				}},
				"fulfilled",
				"$status",
			}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated DonationRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}
