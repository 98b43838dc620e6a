package pharmacy

import (
	"context"
	"time"

	"MedLocator/internal/apperr"
	"MedLocator/internal/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pharmacyStore is the persistence surface the service needs. The Mongo
// repository satisfies it; tests use an in-memory fake.
type pharmacyStore interface {
	CreatePharmacy(ctx context.Context, pharmacy *Pharmacy) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Pharmacy, error)
	Search(ctx context.Context, name, city string, page, limit int) ([]*Pharmacy, int64, error)
	UpdatePharmacy(ctx context.Context, id primitive.ObjectID, req UpdatePharmacyRequest) error
	DeletePharmacy(ctx context.Context, id primitive.ObjectID) error
}

type PharmacyService struct {
	store pharmacyStore
}

func NewPharmacyService(store pharmacyStore) *PharmacyService {
	return &PharmacyService{store: store}
}

// PharmacyPage is the paginated listing response.
type PharmacyPage struct {
	Pharmacies []*Pharmacy `json:"pharmacies"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
	HasNext    bool        `json:"hasNext"`
	HasPrev    bool        `json:"hasPrev"`
}

func (s *PharmacyService) Create(ctx context.Context, principal auth.Principal, req CreatePharmacyRequest) (*Pharmacy, error) {
	if req.Name == "" || req.Address == "" || req.City == "" {
		return nil, apperr.Validation("name, address and city are required")
	}

	pharmacy := &Pharmacy{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		Phone:     req.Phone,
		Owner:     principal.ID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreatePharmacy(ctx, pharmacy); err != nil {
		return nil, err
	}
	return pharmacy, nil
}

func (s *PharmacyService) Get(ctx context.Context, id primitive.ObjectID) (*Pharmacy, error) {
	pharmacy, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil {
		return nil, apperr.NotFound("pharmacy not found")
	}
	return pharmacy, nil
}

func (s *PharmacyService) List(ctx context.Context, name, city string, page, limit int) (*PharmacyPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	pharmacies, total, err := s.store.Search(ctx, name, city, page, limit)
	if err != nil {
		return nil, err
	}
	if pharmacies == nil {
		pharmacies = []*Pharmacy{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &PharmacyPage{
		Pharmacies: pharmacies,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

func (s *PharmacyService) Update(ctx context.Context, principal auth.Principal, id primitive.ObjectID, req UpdatePharmacyRequest) (*Pharmacy, error) {
	pharmacy, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil {
		return nil, apperr.NotFound("pharmacy not found")
	}
	if pharmacy.Owner != principal.ID && !principal.IsAdmin() {
		return nil, apperr.Forbidden("only the owner or an admin can update a pharmacy")
	}

	if err := s.store.UpdatePharmacy(ctx, id, req); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

func (s *PharmacyService) Delete(ctx context.Context, principal auth.Principal, id primitive.ObjectID) error {
	pharmacy, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if pharmacy == nil {
		return apperr.NotFound("pharmacy not found")
	}
	if pharmacy.Owner != principal.ID && !principal.IsAdmin() {
		return apperr.Forbidden("only the owner or an admin can delete a pharmacy")
	}

	return s.store.DeletePharmacy(ctx, id)
}

// OwnsPharmacy reports whether the principal may manage stock on behalf of
// the given pharmacy.
func (s *PharmacyService) OwnsPharmacy(ctx context.Context, principal auth.Principal, id primitive.ObjectID) (bool, error) {
	pharmacy, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if pharmacy == nil {
		return false, apperr.NotFound("pharmacy not found")
	}
	return pharmacy.Owner == principal.ID || principal.IsAdmin(), nil
}
