package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BloodDonor is the optional donor profile on a user account. A user is
// eligible for a request when BloodType matches and EligibleSince has passed.
type BloodDonor struct {
	BloodType        string     `bson:"blood_type" json:"bloodType"`                                // One of the 8 ABO/Rh types
	LastDonationDate *time.Time `bson:"last_donation_date,omitempty" json:"lastDonationDate,omitempty"` // When the user last donated
	EligibleSince    time.Time  `bson:"eligible_since" json:"eligibleSince"`                        // When the user becomes eligible to donate again
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // user, pharmacy or admin
	BloodDonor   *BloodDonor        `bson:"blood_donor,omitempty" json:"bloodDonor,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// Principal is the authenticated identity passed explicitly into services.
type Principal struct {
	ID   primitive.ObjectID
	Role string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DonorProfileRequest struct {
	BloodType        string     `json:"bloodType"`
	LastDonationDate *time.Time `json:"lastDonationDate"`
	EligibleSince    *time.Time `json:"eligibleSince"`
}
