package auth

import (
	"context"
	"time"

	"MedLocator/internal/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BloodTypes is the closed set of ABO/Rh types accepted anywhere a blood
// type appears (donor profiles and donation requests).
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func IsValidBloodType(bloodType string) bool {
	for _, t := range BloodTypes {
		if t == bloodType {
			return true
		}
	}
	return false
}

type UserService struct {
	repo *UserRepository
}

func NewUserService(repo *UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) RegisterUser(ctx context.Context, req RegisterRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperr.Validation("name, email and password are required")
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	if role != "user" && role != "pharmacy" && role != "admin" {
		return apperr.Validation("role must be user, pharmacy or admin")
	}

	existingUser, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if existingUser != nil {
		return apperr.Conflict("Email already registered")
	}

	hashPassword, err := HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashPassword,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	return s.repo.CreateUser(ctx, user)
}

func (s *UserService) AuthenticateUser(ctx context.Context, cred Credential) (string, error) {
	user, err := s.repo.FindByEmail(ctx, cred.Email)
	if err != nil {
		return "", err
	}
	if user == nil || !CheckPasswordHash(cred.Password, user.PasswordHash) {
		return "", apperr.Forbidden("Invalid Credentials")
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Name, user.Email, user.Role, time.Hour*24)
	if err != nil {
		return "", apperr.Forbidden("Token not generated")
	}
	return token, nil
}

func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateDonorProfile sets or replaces the caller's blood donor profile.
// EligibleSince defaults to now, which makes a fresh donor immediately
// eligible for matching.
func (s *UserService) UpdateDonorProfile(ctx context.Context, principal Principal, req DonorProfileRequest) (*BloodDonor, error) {
	if !IsValidBloodType(req.BloodType) {
		return nil, apperr.Validation("bloodType must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
	}

	eligibleSince := time.Now()
	if req.EligibleSince != nil {
		eligibleSince = *req.EligibleSince
	}

	profile := &BloodDonor{
		BloodType:        req.BloodType,
		LastDonationDate: req.LastDonationDate,
		EligibleSince:    eligibleSince,
	}

	if err := s.repo.UpdateDonorProfile(ctx, principal.ID, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
