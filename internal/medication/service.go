package medication

import (
	"context"
	"time"

	"MedLocator/internal/apperr"
	"MedLocator/internal/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// medicationStore is the persistence surface the service needs. The Mongo
// repository satisfies it; tests use an in-memory fake.
type medicationStore interface {
	CreateMedication(ctx context.Context, medication *Medication) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Medication, error)
	Search(ctx context.Context, name, category string, page, limit int) ([]*Medication, int64, error)
	UpdateMedication(ctx context.Context, id primitive.ObjectID, req UpdateMedicationRequest) error
	DeleteMedication(ctx context.Context, id primitive.ObjectID) error
	SetStockEntry(ctx context.Context, medID, pharmacyID primitive.ObjectID, inStock bool, price float64) (bool, error)
	AddStockEntry(ctx context.Context, medID primitive.ObjectID, entry StockEntry) (bool, error)
}

// pharmacyAuthorizer answers whether a principal manages a pharmacy.
type pharmacyAuthorizer interface {
	OwnsPharmacy(ctx context.Context, principal auth.Principal, id primitive.ObjectID) (bool, error)
}

type MedicationService struct {
	store      medicationStore
	pharmacies pharmacyAuthorizer
}

func NewMedicationService(store medicationStore, pharmacies pharmacyAuthorizer) *MedicationService {
	return &MedicationService{store: store, pharmacies: pharmacies}
}

// MedicationPage is the paginated listing response.
type MedicationPage struct {
	Medications []*Medication `json:"medications"`
	Total       int64         `json:"total"`
	Page        int           `json:"page"`
	Limit       int           `json:"limit"`
	TotalPages  int           `json:"totalPages"`
	HasNext     bool          `json:"hasNext"`
	HasPrev     bool          `json:"hasPrev"`
}

func (s *MedicationService) Create(ctx context.Context, req CreateMedicationRequest) (*Medication, error) {
	if req.Name == "" {
		return nil, apperr.Validation("name is required")
	}

	now := time.Now()
	medication := &Medication{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		GenericName: req.GenericName,
		Category:    req.Category,
		Description: req.Description,
		RequiresRx:  req.RequiresRx,
		Pharmacies:  []StockEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateMedication(ctx, medication); err != nil {
		return nil, err
	}
	return medication, nil
}

func (s *MedicationService) Get(ctx context.Context, id primitive.ObjectID) (*Medication, error) {
	medication, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medication == nil {
		return nil, apperr.NotFound("medication not found")
	}
	return medication, nil
}

func (s *MedicationService) List(ctx context.Context, name, category string, page, limit int) (*MedicationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	medications, total, err := s.store.Search(ctx, name, category, page, limit)
	if err != nil {
		return nil, err
	}
	if medications == nil {
		medications = []*Medication{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &MedicationPage{
		Medications: medications,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, nil
}

func (s *MedicationService) Update(ctx context.Context, principal auth.Principal, id primitive.ObjectID, req UpdateMedicationRequest) (*Medication, error) {
	medication, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medication == nil {
		return nil, apperr.NotFound("medication not found")
	}
	if principal.Role != "pharmacy" && !principal.IsAdmin() {
		return nil, apperr.Forbidden("only pharmacy accounts or admins can update medications")
	}

	if err := s.store.UpdateMedication(ctx, id, req); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

func (s *MedicationService) Delete(ctx context.Context, principal auth.Principal, id primitive.ObjectID) error {
	medication, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if medication == nil {
		return apperr.NotFound("medication not found")
	}
	if !principal.IsAdmin() {
		return apperr.Forbidden("only admins can delete medications")
	}

	return s.store.DeleteMedication(ctx, id)
}

// UpsertStock sets availability and price of a medication at one pharmacy.
// The entry is updated in place when present, appended under a guard when
// absent, so the medication never holds two entries for the same pharmacy.
func (s *MedicationService) UpsertStock(ctx context.Context, principal auth.Principal, medID primitive.ObjectID, req UpdateStockRequest) (*Medication, error) {
	pharmacyID, err := primitive.ObjectIDFromHex(req.PharmacyID)
	if err != nil {
		return nil, apperr.Validation("pharmacyId is not a valid id")
	}
	if req.Price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}

	medication, err := s.store.FindByID(ctx, medID)
	if err != nil {
		return nil, err
	}
	if medication == nil {
		return nil, apperr.NotFound("medication not found")
	}

	allowed, err := s.pharmacies.OwnsPharmacy(ctx, principal, pharmacyID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Forbidden("only the pharmacy owner or an admin can update stock")
	}

	matched, err := s.store.SetStockEntry(ctx, medID, pharmacyID, req.InStock, req.Price)
	if err != nil {
		return nil, err
	}
	if !matched {
		entry := StockEntry{Pharmacy: pharmacyID, InStock: req.InStock, Price: req.Price}
		added, err := s.store.AddStockEntry(ctx, medID, entry)
		if err != nil {
			return nil, err
		}
		if !added {
			// Another writer appended the entry between our two calls.
			if _, err := s.store.SetStockEntry(ctx, medID, pharmacyID, req.InStock, req.Price); err != nil {
				return nil, err
			}
		}
	}

	return s.store.FindByID(ctx, medID)
}
