package blooddonation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"MedLocator/internal/apperr"
	"MedLocator/internal/auth"
	"MedLocator/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRequestStore is an in-memory requestStore. AppendDonor mirrors the
// atomic conditional update of the Mongo repository: the precondition check
// and the append/flip happen under one lock.
type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*DonationRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[primitive.ObjectID]*DonationRequest)}
}

func (f *fakeRequestStore) CreateRequest(_ context.Context, request *DonationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *request
	f.requests[request.ID] = &copied
	return nil
}

func (f *fakeRequestStore) FindByID(_ context.Context, id primitive.ObjectID) (*DonationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *request
	copied.Donors = append([]DonorEntry(nil), request.Donors...)
	return &copied, nil
}

func (f *fakeRequestStore) List(_ context.Context, filters ListFilters, page, limit int) ([]*DonationRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*DonationRequest
	for _, request := range f.requests {
		if filters.Status != "" && request.Status != filters.Status {
			continue
		}
		if filters.BloodType != "" && request.BloodType != filters.BloodType {
			continue
		}
		if filters.Urgency != "" && request.Urgency != filters.Urgency {
			continue
		}
		if filters.Hospital != "" && !strings.Contains(strings.ToLower(request.Hospital), strings.ToLower(filters.Hospital)) {
			continue
		}
		copied := *request
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].UrgencyRank != matched[j].UrgencyRank {
			return matched[i].UrgencyRank > matched[j].UrgencyRank
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeRequestStore) FindActiveByBloodType(_ context.Context, bloodType string, now time.Time) ([]*DonationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*DonationRequest
	for _, request := range f.requests {
		if request.BloodType == bloodType && request.Status == "active" && request.ExpiresAt.After(now) {
			copied := *request
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (f *fakeRequestStore) UpdateRequest(_ context.Context, request *DonationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.requests[request.ID]
	if !ok {
		return errors.New("request not found")
	}
	copied := *request
	copied.Donors = existing.Donors
	f.requests[request.ID] = &copied
	return nil
}

func (f *fakeRequestStore) DeleteRequest(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[id]; !ok {
		return errors.New("request not found")
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestStore) AppendDonor(_ context.Context, requestID primitive.ObjectID, entry DonorEntry, now time.Time) (*DonationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	request, ok := f.requests[requestID]
	if !ok || request.Status != "active" || !request.ExpiresAt.After(now) {
		return nil, nil
	}
	for _, donor := range request.Donors {
		if donor.User == entry.User {
			return nil, nil
		}
	}

	first := len(request.Donors) == 0
	request.Donors = append(request.Donors, entry)
	if first && request.Urgency == "high" {
		request.Status = "fulfilled"
	}

	copied := *request
	copied.Donors = append([]DonorEntry(nil), request.Donors...)
	return &copied, nil
}

type fakeDirectory struct {
	users map[primitive.ObjectID]*auth.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[primitive.ObjectID]*auth.User)}
}

func (f *fakeDirectory) addDonor(bloodType string, eligibleSince time.Time) *auth.User {
	user := &auth.User{
		ID:    primitive.NewObjectID(),
		Name:  "Donor",
		Email: "donor@example.com",
		Role:  "user",
		BloodDonor: &auth.BloodDonor{
			BloodType:     bloodType,
			EligibleSince: eligibleSince,
		},
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeDirectory) addUser() *auth.User {
	user := &auth.User{ID: primitive.NewObjectID(), Name: "Plain", Email: "plain@example.com", Role: "user"}
	f.users[user.ID] = user
	return user
}

func (f *fakeDirectory) FindByID(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	return f.users[id], nil
}

func (f *fakeDirectory) FindEligibleDonors(_ context.Context, bloodType string, now time.Time) ([]*auth.User, error) {
	var matched []*auth.User
	for _, user := range f.users {
		if user.BloodDonor != nil && user.BloodDonor.BloodType == bloodType && !user.BloodDonor.EligibleSince.After(now) {
			matched = append(matched, user)
		}
	}
	return matched, nil
}

type fakeNotificationStore struct {
	mu         sync.Mutex
	created    []*notification.Notification
	failBulk   bool
	failSingle bool
}

func (f *fakeNotificationStore) CreateNotification(_ context.Context, n *notification.Notification) error {
	if f.failSingle {
		return errors.New("insert failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationStore) CreateMany(_ context.Context, notifications []*notification.Notification) error {
	if f.failBulk {
		return errors.New("bulk insert failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, notifications...)
	return nil
}

func (f *fakeNotificationStore) DeleteByRelatedItem(_ context.Context, itemID primitive.ObjectID, itemType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*notification.Notification
	var deleted int64
	for _, n := range f.created {
		if n.RelatedItem != nil && n.RelatedItem.ItemID == itemID && n.RelatedItem.ItemType == itemType {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	f.created = kept
	return deleted, nil
}

func (f *fakeNotificationStore) forUser(userID primitive.ObjectID) []*notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*notification.Notification
	for _, n := range f.created {
		if n.User == userID {
			matched = append(matched, n)
		}
	}
	return matched
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) SendEmail(to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func newTestService() (*RequestService, *fakeRequestStore, *fakeDirectory, *fakeNotificationStore) {
	store := newFakeRequestStore()
	users := newFakeDirectory()
	notifications := &fakeNotificationStore{}
	svc := NewRequestService(store, users, notifications, &fakeMailer{})
	return svc, store, users, notifications
}

func TestCreateRequest_BloodTypeEnumClosure(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	requester := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}

	for _, bloodType := range auth.BloodTypes {
		_, err := svc.Create(ctx, requester, CreateRequestInput{
			BloodType:   bloodType,
			Hospital:    "General",
			ContactInfo: "555-0100",
		})
		assert.NoError(t, err, "blood type %s should be accepted", bloodType)
	}

	for _, bloodType := range []string{"", "O", "AB", "o+", "C+", "A +", "O--"} {
		_, err := svc.Create(ctx, requester, CreateRequestInput{
			BloodType:   bloodType,
			Hospital:    "General",
			ContactInfo: "555-0100",
		})
		require.Error(t, err, "blood type %q should be rejected", bloodType)
		assert.Equal(t, 400, apperr.Status(err))
	}
}

func TestCreateRequest_Defaults(t *testing.T) {
	svc, _, _, _ := newTestService()
	requester := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}

	before := time.Now()
	request, err := svc.Create(context.Background(), requester, CreateRequestInput{
		BloodType:   "A+",
		Hospital:    "General",
		ContactInfo: "555-0100",
	})
	require.NoError(t, err)

	assert.Equal(t, "active", request.Status)
	assert.Equal(t, "medium", request.Urgency)
	assert.Equal(t, requester.ID, request.CreatedBy)
	assert.Empty(t, request.Donors)

	wantExpiry := before.Add(7 * 24 * time.Hour)
	assert.WithinDuration(t, wantExpiry, request.ExpiresAt, time.Minute)
}

func TestCreateRequest_MatchingFanOut(t *testing.T) {
	svc, _, users, notifications := newTestService()
	ctx := context.Background()
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	// Three eligible donors, plus two users that fail one condition each.
	eligible := []*auth.User{
		users.addDonor("O-", past),
		users.addDonor("O-", past),
		users.addDonor("O-", past),
	}
	users.addDonor("A+", past)    // wrong type
	users.addDonor("O-", future)  // not yet eligible
	users.addUser()               // no donor profile

	requester := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}
	request, err := svc.Create(ctx, requester, CreateRequestInput{
		BloodType:   "O-",
		Hospital:    "General",
		Urgency:     "high",
		ContactInfo: "555-0100",
	})
	require.NoError(t, err)

	assert.Len(t, notifications.created, len(eligible))
	for _, n := range notifications.created {
		assert.Equal(t, "blood", n.Type)
		assert.Equal(t, "Urgent O- Blood Needed", n.Title)
		assert.Equal(t, "General needs O- blood donation. Urgency: high", n.Message)
		require.NotNil(t, n.RelatedItem)
		assert.Equal(t, request.ID, n.RelatedItem.ItemID)
		assert.Equal(t, "BloodDonation", n.RelatedItem.ItemType)
		require.NotNil(t, n.ExpiresAt)
		assert.Equal(t, request.ExpiresAt, *n.ExpiresAt)
	}
}

func TestCreateRequest_NoEligibleDonors(t *testing.T) {
	svc, _, _, notifications := newTestService()
	requester := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}

	_, err := svc.Create(context.Background(), requester, CreateRequestInput{
		BloodType:   "AB-",
		Hospital:    "General",
		ContactInfo: "555-0100",
	})
	require.NoError(t, err)
	assert.Empty(t, notifications.created)
}

func TestCreateRequest_FanOutFailureIsBestEffort(t *testing.T) {
	store := newFakeRequestStore()
	users := newFakeDirectory()
	users.addDonor("B+", time.Now().Add(-time.Hour))
	notifications := &fakeNotificationStore{failBulk: true}
	svc := NewRequestService(store, users, notifications, &fakeMailer{})

	requester := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}
	request, err := svc.Create(context.Background(), requester, CreateRequestInput{
		BloodType:   "B+",
		Hospital:    "General",
		ContactInfo: "555-0100",
	})
	require.NoError(t, err, "request creation must not fail when the fan-out fails")

	saved, err := store.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestRespond_PreconditionOrder(t *testing.T) {
	svc, store, users, _ := newTestService()
	ctx := context.Background()

	donor := users.addDonor("O-", time.Now().Add(-time.Hour))
	principal := auth.Principal{ID: donor.ID, Role: "user"}

	t.Run("missing request", func(t *testing.T) {
		_, err := svc.Respond(ctx, principal, primitive.NewObjectID(), RespondInput{})
		require.Error(t, err)
		assert.Equal(t, 404, apperr.Status(err))
	})

	t.Run("fulfilled request", func(t *testing.T) {
		request := seedRequest(t, store, "O-", "medium", "active", time.Now().Add(time.Hour))
		request.Status = "fulfilled"
		require.NoError(t, store.UpdateRequest(ctx, request))

		_, err := svc.Respond(ctx, principal, request.ID, RespondInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fulfilled")
	})

	t.Run("expired request", func(t *testing.T) {
		request := seedRequest(t, store, "O-", "medium", "active", time.Now().Add(-time.Hour))
		_, err := svc.Respond(ctx, principal, request.ID, RespondInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("blood type mismatch", func(t *testing.T) {
		request := seedRequest(t, store, "A+", "medium", "active", time.Now().Add(time.Hour))
		_, err := svc.Respond(ctx, principal, request.ID, RespondInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blood type")
	})
}

func TestRespond_DuplicateDonorRejected(t *testing.T) {
	svc, store, users, _ := newTestService()
	ctx := context.Background()

	donor := users.addDonor("O-", time.Now().Add(-time.Hour))
	principal := auth.Principal{ID: donor.ID, Role: "user"}
	request := seedRequest(t, store, "O-", "low", "active", time.Now().Add(time.Hour))

	_, err := svc.Respond(ctx, principal, request.ID, RespondInput{})
	require.NoError(t, err)

	_, err = svc.Respond(ctx, principal, request.ID, RespondInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already responded")

	saved, err := store.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Len(t, saved.Donors, 1, "duplicate response must not change the donor list")
}

func TestRespond_FulfillmentRule(t *testing.T) {
	t.Run("high urgency fulfilled by first donor", func(t *testing.T) {
		svc, store, users, _ := newTestService()
		ctx := context.Background()

		donor := users.addDonor("O-", time.Now().Add(-time.Hour))
		request := seedRequest(t, store, "O-", "high", "active", time.Now().Add(time.Hour))

		result, err := svc.Respond(ctx, auth.Principal{ID: donor.ID, Role: "user"}, request.ID, RespondInput{})
		require.NoError(t, err)
		assert.Equal(t, "fulfilled", result.Status)

		// The request no longer accepts donors.
		second := users.addDonor("O-", time.Now().Add(-time.Hour))
		_, err = svc.Respond(ctx, auth.Principal{ID: second.ID, Role: "user"}, request.ID, RespondInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fulfilled")
	})

	t.Run("medium urgency never auto-fulfils", func(t *testing.T) {
		svc, store, users, _ := newTestService()
		ctx := context.Background()

		request := seedRequest(t, store, "B-", "medium", "active", time.Now().Add(time.Hour))
		for i := 0; i < 3; i++ {
			donor := users.addDonor("B-", time.Now().Add(-time.Hour))
			result, err := svc.Respond(ctx, auth.Principal{ID: donor.ID, Role: "user"}, request.ID, RespondInput{})
			require.NoError(t, err)
			assert.Equal(t, "active", result.Status)
		}

		saved, err := store.FindByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, "active", saved.Status)
		assert.Len(t, saved.Donors, 3)
	})
}

func TestRespond_NotifiesRequester(t *testing.T) {
	svc, store, users, notifications := newTestService()
	ctx := context.Background()

	donor := users.addDonor("AB+", time.Now().Add(-time.Hour))
	request := seedRequest(t, store, "AB+", "low", "active", time.Now().Add(time.Hour))

	_, err := svc.Respond(ctx, auth.Principal{ID: donor.ID, Role: "user"}, request.ID, RespondInput{})
	require.NoError(t, err)

	owned := notifications.forUser(request.CreatedBy)
	require.Len(t, owned, 1)
	assert.Equal(t, "Donor Found", owned[0].Title)
	assert.Equal(t, "A donor has responded to your AB+ blood request for General", owned[0].Message)
	require.NotNil(t, owned[0].RelatedItem)
	assert.Equal(t, request.ID, owned[0].RelatedItem.ItemID)
	require.NotNil(t, owned[0].ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), *owned[0].ExpiresAt, time.Minute)
}

func TestDelete_CascadesNotifications(t *testing.T) {
	svc, store, users, notifications := newTestService()
	ctx := context.Background()

	users.addDonor("O+", time.Now().Add(-time.Hour))
	users.addDonor("O+", time.Now().Add(-time.Hour))

	requester := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}
	request, err := svc.Create(ctx, requester, CreateRequestInput{
		BloodType:   "O+",
		Hospital:    "General",
		ContactInfo: "555-0100",
	})
	require.NoError(t, err)
	require.Len(t, notifications.created, 2)

	t.Run("stranger is forbidden", func(t *testing.T) {
		stranger := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}
		err := svc.Delete(ctx, stranger, request.ID)
		require.Error(t, err)
		assert.Equal(t, 403, apperr.Status(err))
	})

	t.Run("owner delete cascades", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, requester, request.ID))
		assert.Empty(t, notifications.created, "no notification referencing the request may remain")

		saved, err := store.FindByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Nil(t, saved)
	})
}

func TestList_DefaultsAndPagination(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	base := time.Now()
	urgencies := []string{"low", "medium", "high", "low", "medium", "high", "low"}
	for i, urgency := range urgencies {
		request := seedRequest(t, store, "A+", urgency, "active", base.Add(time.Hour))
		request.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		request.UrgencyRank = urgencyRank(urgency)
		copied := *request
		store.requests[request.ID] = &copied
	}
	// A fulfilled request is excluded by the default status filter.
	seedRequest(t, store, "A+", "high", "fulfilled", base.Add(time.Hour))

	var seen []primitive.ObjectID
	var lastRank = 3
	var lastCreated time.Time
	page := 1
	for {
		result, err := svc.List(ctx, ListFilters{}, page, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(len(urgencies)), result.Total)
		assert.LessOrEqual(t, len(result.Requests), 3)
		assert.Equal(t, page > 1, result.HasPrev)

		for _, request := range result.Requests {
			assert.Equal(t, "active", request.Status)
			// Sorted by urgency rank desc, then createdAt desc.
			if request.UrgencyRank == lastRank {
				if !lastCreated.IsZero() {
					assert.False(t, request.CreatedAt.After(lastCreated))
				}
			} else {
				assert.Less(t, request.UrgencyRank, lastRank)
			}
			lastRank = request.UrgencyRank
			lastCreated = request.CreatedAt
			seen = append(seen, request.ID)
		}

		if !result.HasNext {
			break
		}
		page++
	}

	// Full coverage, no duplicates and no gaps.
	assert.Len(t, seen, len(urgencies))
	unique := make(map[primitive.ObjectID]bool)
	for _, id := range seen {
		assert.False(t, unique[id], "request %s returned twice", id.Hex())
		unique[id] = true
	}
}

func TestList_HospitalFilterMatchesSubstringAnyCase(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	mercy := seedRequest(t, store, "A+", "high", "active", expiry)
	mercy.Hospital = "Mercy General Hospital"
	store.requests[mercy.ID] = mercy

	stJude := seedRequest(t, store, "O-", "medium", "active", expiry)
	stJude.Hospital = "St. Jude Medical Center"
	store.requests[stJude.ID] = stJude

	result, err := svc.List(ctx, ListFilters{Hospital: "MERCY gen"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Requests, 1)
	assert.Equal(t, mercy.ID, result.Requests[0].ID)

	result, err = svc.List(ctx, ListFilters{Hospital: "medical"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Requests, 1)
	assert.Equal(t, stJude.ID, result.Requests[0].ID)

	result, err = svc.List(ctx, ListFilters{Hospital: "nonexistent"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
	assert.Len(t, result.Requests, 0)
}

func TestUpdate_OwnershipAndImmutableCreator(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	request := seedRequest(t, store, "A-", "low", "active", time.Now().Add(time.Hour))
	owner := auth.Principal{ID: request.CreatedBy, Role: "user"}

	t.Run("stranger is forbidden", func(t *testing.T) {
		stranger := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}
		_, err := svc.Update(ctx, stranger, request.ID, UpdateRequestInput{Hospital: "Mercy"})
		require.Error(t, err)
		assert.Equal(t, 403, apperr.Status(err))
	})

	t.Run("admin may update", func(t *testing.T) {
		admin := auth.Principal{ID: primitive.NewObjectID(), Role: "admin"}
		updated, err := svc.Update(ctx, admin, request.ID, UpdateRequestInput{Hospital: "Mercy"})
		require.NoError(t, err)
		assert.Equal(t, "Mercy", updated.Hospital)
		assert.Equal(t, request.CreatedBy, updated.CreatedBy)
	})

	t.Run("urgency change recomputes rank", func(t *testing.T) {
		updated, err := svc.Update(ctx, owner, request.ID, UpdateRequestInput{Urgency: "high"})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.UrgencyRank)
	})

	t.Run("invalid urgency rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, owner, request.ID, UpdateRequestInput{Urgency: "critical"})
		require.Error(t, err)
		assert.Equal(t, 400, apperr.Status(err))
	})
}

func TestByBloodType(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	seedRequest(t, store, "O-", "high", "active", time.Now().Add(time.Hour))
	seedRequest(t, store, "O-", "low", "active", time.Now().Add(-time.Hour)) // expired
	seedRequest(t, store, "A+", "low", "active", time.Now().Add(time.Hour))  // wrong type

	t.Run("invalid enum rejected", func(t *testing.T) {
		_, err := svc.ByBloodType(ctx, "X+")
		require.Error(t, err)
		assert.Equal(t, 400, apperr.Status(err))
	})

	t.Run("active non-expired exact matches only", func(t *testing.T) {
		requests, err := svc.ByBloodType(ctx, "O-")
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, "O-", requests[0].BloodType)
	})
}

// TestScenario_HighUrgencyLifecycle walks the end-to-end flow: create with
// one eligible donor, fan-out, respond, fulfilment, requester notification.
func TestScenario_HighUrgencyLifecycle(t *testing.T) {
	svc, _, users, notifications := newTestService()
	ctx := context.Background()

	donor := users.addDonor("O-", time.Now().Add(-48*time.Hour))
	requester := auth.Principal{ID: primitive.NewObjectID(), Role: "user"}

	request, err := svc.Create(ctx, requester, CreateRequestInput{
		BloodType:   "O-",
		Hospital:    "General",
		Urgency:     "high",
		ContactInfo: "555-0100",
	})
	require.NoError(t, err)

	donorInbox := notifications.forUser(donor.ID)
	require.Len(t, donorInbox, 1)
	assert.Equal(t, "Urgent O- Blood Needed", donorInbox[0].Title)

	result, err := svc.Respond(ctx, auth.Principal{ID: donor.ID, Role: "user"}, request.ID, RespondInput{})
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", result.Status)

	requesterInbox := notifications.forUser(requester.ID)
	require.Len(t, requesterInbox, 1)
	assert.Equal(t, "Donor Found", requesterInbox[0].Title)
}

func seedRequest(t *testing.T, store *fakeRequestStore, bloodType, urgency, status string, expiresAt time.Time) *DonationRequest {
	t.Helper()
	request := &DonationRequest{
		ID:          primitive.NewObjectID(),
		BloodType:   bloodType,
		Hospital:    "General",
		Urgency:     urgency,
		UrgencyRank: urgencyRank(urgency),
		ContactInfo: "555-0100",
		Status:      status,
		CreatedBy:   primitive.NewObjectID(),
		Donors:      []DonorEntry{},
		CreatedAt:   time.Now(),
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, store.CreateRequest(context.Background(), request))
	return request
}
