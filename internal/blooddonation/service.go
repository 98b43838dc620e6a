package blooddonation

import (
	"context"
	"fmt"
	"log"
	"time"

	"MedLocator/internal/apperr"
	"MedLocator/internal/auth"
	"MedLocator/internal/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const relatedItemType = "BloodDonation"

// requestStore is the persistence surface the service needs. The Mongo
// repository satisfies it; tests use an in-memory fake.
type requestStore interface {
	CreateRequest(ctx context.Context, request *DonationRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*DonationRequest, error)
	List(ctx context.Context, filters ListFilters, page, limit int) ([]*DonationRequest, int64, error)
	FindActiveByBloodType(ctx context.Context, bloodType string, now time.Time) ([]*DonationRequest, error)
	UpdateRequest(ctx context.Context, request *DonationRequest) error
	DeleteRequest(ctx context.Context, id primitive.ObjectID) error
	AppendDonor(ctx context.Context, requestID primitive.ObjectID, entry DonorEntry, now time.Time) (*DonationRequest, error)
}

// donorDirectory resolves users and the donor-eligible set for matching.
type donorDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	FindEligibleDonors(ctx context.Context, bloodType string, now time.Time) ([]*auth.User, error)
}

// notificationStore receives the fan-out batch, the single requester
// notification and the cascade delete.
type notificationStore interface {
	CreateNotification(ctx context.Context, n *notification.Notification) error
	CreateMany(ctx context.Context, notifications []*notification.Notification) error
	DeleteByRelatedItem(ctx context.Context, itemID primitive.ObjectID, itemType string) (int64, error)
}

// mailer sends best-effort donor alert emails.
type mailer interface {
	SendEmail(to, subject, body string) error
}

// RequestService owns the blood donation request lifecycle: creation with
// donor matching, donor responses with the fulfilment rule, updates, and the
// cascade delete of related notifications.
type RequestService struct {
	store         requestStore
	users         donorDirectory
	notifications notificationStore
	mailer        mailer
}

func NewRequestService(store requestStore, users donorDirectory, notifications notificationStore, mailer mailer) *RequestService {
	return &RequestService{store: store, users: users, notifications: notifications, mailer: mailer}
}

// RequestPage is the paginated listing response.
type RequestPage struct {
	Requests   []*DonationRequest `json:"requests"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
	HasNext    bool               `json:"hasNext"`
	HasPrev    bool               `json:"hasPrev"`
}

// Create persists a new active request and fans out one notification to
// every donor-eligible user. The fan-out is best-effort: once the request
// write succeeds, matching failures are logged and the request is still
// returned to the caller.
func (s *RequestService) Create(ctx context.Context, principal auth.Principal, input CreateRequestInput) (*DonationRequest, error) {
	if !auth.IsValidBloodType(input.BloodType) {
		return nil, apperr.Validation("bloodType must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
	}
	if input.Hospital == "" {
		return nil, apperr.Validation("hospital is required")
	}
	if input.ContactInfo == "" {
		return nil, apperr.Validation("contactInfo is required")
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = "medium"
	}
	if !isValidUrgency(urgency) {
		return nil, apperr.Validation("urgency must be low, medium or high")
	}

	now := time.Now()
	expiresAt := now.Add(7 * 24 * time.Hour)
	if input.ExpiresAt != nil {
		expiresAt = *input.ExpiresAt
	}

	request := &DonationRequest{
		ID:          primitive.NewObjectID(),
		BloodType:   input.BloodType,
		Hospital:    input.Hospital,
		Urgency:     urgency,
		UrgencyRank: urgencyRank(urgency),
		ContactInfo: input.ContactInfo,
		Status:      "active",
		CreatedBy:   principal.ID,
		Donors:      []DonorEntry{},
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}

	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	if err := s.notifyEligibleDonors(ctx, request, now); err != nil {
		log.Println("Failed to notify eligible donors:", err)
	}

	return request, nil
}

// notifyEligibleDonors queries users whose donor profile matches the request
// and bulk-inserts one notification each. Zero matches is not an error.
func (s *RequestService) notifyEligibleDonors(ctx context.Context, request *DonationRequest, now time.Time) error {
	donors, err := s.users.FindEligibleDonors(ctx, request.BloodType, now)
	if err != nil {
		return err
	}
	if len(donors) == 0 {
		return nil
	}

	title := fmt.Sprintf("Urgent %s Blood Needed", request.BloodType)
	message := fmt.Sprintf("%s needs %s blood donation. Urgency: %s", request.Hospital, request.BloodType, request.Urgency)
	expiresAt := request.ExpiresAt

	notifications := make([]*notification.Notification, len(donors))
	for i, donor := range donors {
		notifications[i] = &notification.Notification{
			ID:      primitive.NewObjectID(),
			Type:    "blood",
			Title:   title,
			Message: message,
			User:    donor.ID,
			RelatedItem: &notification.RelatedItem{
				ItemID:   request.ID,
				ItemType: relatedItemType,
			},
			CreatedAt: now,
			ExpiresAt: &expiresAt,
		}
	}

	if err := s.notifications.CreateMany(ctx, notifications); err != nil {
		return err
	}

	for _, donor := range donors {
		if err := s.mailer.SendEmail(donor.Email, title, message); err != nil {
			log.Println("Failed to send donor alert email:", err)
		}
	}
	return nil
}

func (s *RequestService) Get(ctx context.Context, id primitive.ObjectID) (*DonationRequest, error) {
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("blood donation request not found")
	}
	return request, nil
}

// List returns one page of requests. The status filter defaults to active.
func (s *RequestService) List(ctx context.Context, filters ListFilters, page, limit int) (*RequestPage, error) {
	if filters.Status == "" {
		filters.Status = "active"
	}
	if filters.BloodType != "" && !auth.IsValidBloodType(filters.BloodType) {
		return nil, apperr.Validation("bloodType must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
	}
	if filters.Urgency != "" && !isValidUrgency(filters.Urgency) {
		return nil, apperr.Validation("urgency must be low, medium or high")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	requests, total, err := s.store.List(ctx, filters, page, limit)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*DonationRequest{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &RequestPage{
		Requests:   requests,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// ByBloodType returns active, non-expired requests for one exact type.
func (s *RequestService) ByBloodType(ctx context.Context, bloodType string) ([]*DonationRequest, error) {
	if !auth.IsValidBloodType(bloodType) {
		return nil, apperr.Validation("bloodType must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
	}
	requests, err := s.store.FindActiveByBloodType(ctx, bloodType, time.Now())
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*DonationRequest{}
	}
	return requests, nil
}

// Respond records a donor's response. Preconditions are checked in a fixed
// order, each with its own error; the append itself plus the fulfilment flip
// happen in one atomic document update so concurrent responders cannot lose
// an append or double-fulfil.
func (s *RequestService) Respond(ctx context.Context, principal auth.Principal, requestID primitive.ObjectID, input RespondInput) (*RespondResult, error) {
	now := time.Now()

	request, err := s.store.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRespondPreconditions(request, principal, now); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.BloodDonor == nil || user.BloodDonor.BloodType != request.BloodType {
		return nil, apperr.Conflict(fmt.Sprintf("your blood type does not match the requested type %s", request.BloodType))
	}

	donationDate := now
	if input.DonationDate != nil {
		donationDate = *input.DonationDate
	}
	entry := DonorEntry{User: principal.ID, DonationDate: donationDate, Status: "pending"}

	updated, err := s.store.AppendDonor(ctx, requestID, entry, now)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// The request changed between the precondition read and the atomic
		// append. Re-read to report the precise reason.
		request, err := s.store.FindByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if err := s.checkRespondPreconditions(request, principal, now); err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("could not record response, please try again")
	}

	s.notifyRequester(ctx, updated, now)

	return &RespondResult{
		Status:  updated.Status,
		Message: "Thank you for responding to this blood donation request",
	}, nil
}

// checkRespondPreconditions enforces the response gate in order: the request
// must exist, be active and unexpired, and must not already hold an entry
// for this user.
func (s *RequestService) checkRespondPreconditions(request *DonationRequest, principal auth.Principal, now time.Time) error {
	if request == nil {
		return apperr.NotFound("blood donation request not found")
	}
	if request.Status != "active" {
		return apperr.Conflict(fmt.Sprintf("this request is %s and no longer accepting donors", request.Status))
	}
	if request.IsExpired(now) {
		return apperr.Conflict("this request is expired and no longer accepting donors")
	}
	for _, donor := range request.Donors {
		if donor.User == principal.ID {
			return apperr.Conflict("you have already responded to this request")
		}
	}
	return nil
}

// notifyRequester creates the single "Donor Found" notification for the
// request owner. Its expiry is a week from now, independent of the request's
// own expiry. Failures are logged; the donor's response already stands.
func (s *RequestService) notifyRequester(ctx context.Context, request *DonationRequest, now time.Time) {
	expiresAt := now.Add(7 * 24 * time.Hour)
	n := &notification.Notification{
		ID:      primitive.NewObjectID(),
		Type:    "blood",
		Title:   "Donor Found",
		Message: fmt.Sprintf("A donor has responded to your %s blood request for %s", request.BloodType, request.Hospital),
		User:    request.CreatedBy,
		RelatedItem: &notification.RelatedItem{
			ItemID:   request.ID,
			ItemType: relatedItemType,
		},
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		log.Println("Failed to notify requester:", err)
	}
}

// Update modifies request fields. CreatedBy is immutable and a change of
// urgency recomputes the sort rank.
func (s *RequestService) Update(ctx context.Context, principal auth.Principal, id primitive.ObjectID, input UpdateRequestInput) (*DonationRequest, error) {
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("blood donation request not found")
	}
	if request.CreatedBy != principal.ID && !principal.IsAdmin() {
		return nil, apperr.Forbidden("only the requester or an admin can update this request")
	}

	if input.BloodType != "" {
		if !auth.IsValidBloodType(input.BloodType) {
			return nil, apperr.Validation("bloodType must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
		}
		request.BloodType = input.BloodType
	}
	if input.Hospital != "" {
		request.Hospital = input.Hospital
	}
	if input.Urgency != "" {
		if !isValidUrgency(input.Urgency) {
			return nil, apperr.Validation("urgency must be low, medium or high")
		}
		request.Urgency = input.Urgency
		request.UrgencyRank = urgencyRank(input.Urgency)
	}
	if input.ContactInfo != "" {
		request.ContactInfo = input.ContactInfo
	}
	if input.Status != "" {
		if input.Status != "active" && input.Status != "fulfilled" && input.Status != "expired" {
			return nil, apperr.Validation("status must be active, fulfilled or expired")
		}
		request.Status = input.Status
	}
	if input.ExpiresAt != nil {
		request.ExpiresAt = *input.ExpiresAt
	}

	if err := s.store.UpdateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Delete removes a request and cascades the delete of every notification
// that references it. Notifications go first so a partial failure cannot
// leave rows pointing at a deleted request.
func (s *RequestService) Delete(ctx context.Context, principal auth.Principal, id primitive.ObjectID) error {
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if request == nil {
		return apperr.NotFound("blood donation request not found")
	}
	if request.CreatedBy != principal.ID && !principal.IsAdmin() {
		return apperr.Forbidden("only the requester or an admin can delete this request")
	}

	if _, err := s.notifications.DeleteByRelatedItem(ctx, id, relatedItemType); err != nil {
		return err
	}
	return s.store.DeleteRequest(ctx, id)
}
