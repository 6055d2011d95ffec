package reservation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	reservationRepo "staybook/database/repository/reservation"
	"staybook/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// fakeReservationRepo is an in-memory ReservationRepository with the same
// conditional-write semantics as the Mongo implementation.
type fakeReservationRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byID: make(map[string]*models.Reservation)}
}

func (f *fakeReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *res
	f.byID[res.ID] = &cp
	return nil
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *res
	return &cp, nil
}

func (f *fakeReservationRepo) GetByListingAndStatuses(ctx context.Context, listingID string, statuses []string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.byID {
		if res.ListingID != listingID {
			continue
		}
		for _, s := range statuses {
			if res.Status == s {
				out = append(out, *res)
				break
			}
		}
	}
	sortByID(out)
	return out, nil
}

func (f *fakeReservationRepo) GetByPaymentOrderAndStatus(ctx context.Context, paymentOrderID, guestID, status string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.byID {
		if res.PaymentOrderID == paymentOrderID && res.GuestID == guestID && res.Status == status {
			out = append(out, *res)
		}
	}
	sortByID(out)
	return out, nil
}

func (f *fakeReservationRepo) ListByGuest(ctx context.Context, guestID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.byID {
		if res.GuestID == guestID {
			out = append(out, *res)
		}
	}
	sortByID(out)
	return out, nil
}

func (f *fakeReservationRepo) ListByListing(ctx context.Context, listingID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.byID {
		if res.ListingID == listingID {
			out = append(out, *res)
		}
	}
	sortByID(out)
	return out, nil
}

func (f *fakeReservationRepo) ConfirmIfPending(ctx context.Context, id, paymentID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.byID[id]
	if !ok || res.Status != models.ReservationPending {
		return reservationRepo.ErrStaleStatus
	}
	res.Status = models.ReservationConfirmed
	if paymentID != "" {
		res.PaymentID = paymentID
	}
	res.UpdatedAt = now
	return nil
}

func (f *fakeReservationRepo) CancelIfStatus(ctx context.Context, id, expectedStatus string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.byID[id]
	if !ok || res.Status != expectedStatus {
		return reservationRepo.ErrStaleStatus
	}
	res.Status = models.ReservationCancelled
	res.UpdatedAt = now
	return nil
}

func (f *fakeReservationRepo) DeletePendingByPaymentOrder(ctx context.Context, paymentOrderID, guestID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, res := range f.byID {
		if res.PaymentOrderID == paymentOrderID && res.GuestID == guestID && res.Status == models.ReservationPending {
			delete(f.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeReservationRepo) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, res := range f.byID {
		if res.Status == models.ReservationPending && res.CreatedAt.Before(cutoff) {
			delete(f.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func sortByID(rs []models.Reservation) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
}

type fakeListingRepo struct {
	byID map[string]*models.Listing
	err  error
}

func (f *fakeListingRepo) Create(ctx context.Context, l *models.Listing) error {
	f.byID[l.ID] = l
	return nil
}

func (f *fakeListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	l, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return l, nil
}

func (f *fakeListingRepo) ListByHost(ctx context.Context, hostID string) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range f.byID {
		if l.HostID == hostID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) ListActive(ctx context.Context) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range f.byID {
		if l.Active {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) Update(ctx context.Context, l *models.Listing) error {
	f.byID[l.ID] = l
	return nil
}

func (f *fakeListingRepo) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakeUserRepo struct {
	byID map[string]*models.User
	err  error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) Update(ctx context.Context, u *models.User) error {
	f.byID[u.ID] = u
	return nil
}

// fakeGateway records refund requests and can be primed to fail.
type fakeGateway struct {
	mu       sync.Mutex
	requests []models.RefundRequest
	err      error
}

func (f *fakeGateway) Refund(ctx context.Context, req models.RefundRequest) (*models.RefundResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.RefundResult{RefundID: "re_" + req.PaymentID, Initiated: true}, nil
}

// fakeDispatcher records queued notices.
type fakeDispatcher struct {
	mu      sync.Mutex
	notices []models.NotifyPayload
	err     error
}

func (f *fakeDispatcher) DispatchReservationNotice(ctx context.Context, p models.NotifyPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, p)
	return f.err
}

var (
	errGatewayDown = errors.New("gateway unreachable")
	errStoreDown   = errors.New("store unreachable")
)

// testFixture bundles a service with its fakes and a controllable clock.
type testFixture struct {
	svc      *DefaultReservationService
	repo     *fakeReservationRepo
	listings *fakeListingRepo
	users    *fakeUserRepo
	gateway  *fakeGateway
	notices  *fakeDispatcher
	clock    *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFixture() *testFixture {
	f := &testFixture{
		repo:     newFakeReservationRepo(),
		listings: &fakeListingRepo{byID: make(map[string]*models.Listing)},
		users:    &fakeUserRepo{byID: make(map[string]*models.User)},
		gateway:  &fakeGateway{},
		notices:  &fakeDispatcher{},
		clock:    &fakeClock{now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	f.svc = &DefaultReservationService{
		Repo:        f.repo,
		ListingRepo: f.listings,
		UserRepo:    f.users,
		Payments:    f.gateway,
		Notifier:    f.notices,
		Logger:      zap.NewNop(),
		Now:         f.clock.Now,
	}

	f.users.byID["guest-1"] = &models.User{ID: "guest-1", Role: models.RoleGuest}
	f.users.byID["guest-2"] = &models.User{ID: "guest-2", Role: models.RoleGuest}
	f.users.byID["host-1"] = &models.User{ID: "host-1", Role: models.RoleHost}
	f.listings.byID["listing-1"] = &models.Listing{
		ID:               "listing-1",
		HostID:           "host-1",
		NightlyRateCents: 12000,
		Active:           true,
	}
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
