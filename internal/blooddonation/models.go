package blooddonation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonorEntry records one user's response to a donation request. A request
// holds at most one entry per user.
type DonorEntry struct {
	User         primitive.ObjectID `bson:"user" json:"user"`
	DonationDate time.Time          `bson:"donation_date" json:"donationDate"`
	Status       string             `bson:"status" json:"status"` // pending, completed or cancelled
}

// DonationRequest is a public call for blood donors.
type DonationRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BloodType   string             `bson:"blood_type" json:"bloodType"` // One of the 8 ABO/Rh types
	Hospital    string             `bson:"hospital" json:"hospital"`
	Urgency     string             `bson:"urgency" json:"urgency"`          // low, medium or high
	UrgencyRank int                `bson:"urgency_rank" json:"-"`           // Derived sort key: high=2, medium=1, low=0
	ContactInfo string             `bson:"contact_info" json:"contactInfo"`
	Status      string             `bson:"status" json:"status"` // active, fulfilled or expired
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`
	Donors      []DonorEntry       `bson:"donors" json:"donors"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	ExpiresAt   time.Time          `bson:"expires_at" json:"expiresAt"`
}

// IsExpired reports the read-time expiry condition. Expiry is derived, not
// enforced by a background job.
func (r *DonationRequest) IsExpired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}

type CreateRequestInput struct {
	BloodType   string     `json:"bloodType"`
	Hospital    string     `json:"hospital"`
	Urgency     string     `json:"urgency"`
	ContactInfo string     `json:"contactInfo"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

type UpdateRequestInput struct {
	BloodType   string     `json:"bloodType"`
	Hospital    string     `json:"hospital"`
	Urgency     string     `json:"urgency"`
	ContactInfo string     `json:"contactInfo"`
	Status      string     `json:"status"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

type RespondInput struct {
	DonationDate *time.Time `json:"donationDate"`
}

// RespondResult is the trimmed response body of the respond endpoint: the
// request's new status and a confirmation message, not the full request.
type RespondResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ListFilters are the optional query filters of the listing endpoint.
type ListFilters struct {
	Status    string
	BloodType string
	Urgency   string
	Hospital  string
}

// urgencyRank maps the categorical urgency to its sort rank. Listing orders
// by this rank, not lexicographically.
func urgencyRank(urgency string) int {
	switch urgency {
	case "high":
		return 2
	case "medium":
		return 1
	default:
		return 0
	}
}

func isValidUrgency(urgency string) bool {
	return urgency == "low" || urgency == "medium" || urgency == "high"
}

// Why: The stored urgency_rank lets listing sort on an indexed integer
// instead of re-deriving the categorical order per query.
