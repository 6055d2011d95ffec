package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"staybook/models"
)

func mustCreate(t *testing.T, f *testFixture, guestID string, start, end time.Time, orderID string) *models.Reservation {
	t.Helper()
	res, err := f.svc.CreateReservation(context.Background(), guestID, "listing-1", start, end, orderID)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	return res
}

func mustConfirm(t *testing.T, f *testFixture, id, guestID, paymentID string) *models.Reservation {
	t.Helper()
	res, err := f.svc.ConfirmReservation(context.Background(), id, guestID, paymentID)
	if err != nil {
		t.Fatalf("ConfirmReservation: %v", err)
	}
	return res
}

func TestCreateReservationPricesAndPersists(t *testing.T) {
	f := newFixture()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")

	if res.Status != models.ReservationPending {
		t.Errorf("status = %q, want %q", res.Status, models.ReservationPending)
	}
	if res.PriceCents != 4*12000 {
		t.Errorf("price = %d, want %d", res.PriceCents, 4*12000)
	}
	if res.PaymentOrderID != "order-1" {
		t.Errorf("payment order = %q, want order-1", res.PaymentOrderID)
	}
	if !res.CreatedAt.Equal(f.clock.Now()) {
		t.Errorf("created at = %v, want clock time %v", res.CreatedAt, f.clock.Now())
	}

	stored, err := f.repo.GetByID(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("stored reservation missing: %v", err)
	}
	if stored.Status != models.ReservationPending {
		t.Errorf("stored status = %q, want pending", stored.Status)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		guestID string
		start   time.Time
		end     time.Time
		orderID string
	}{
		{"start equals end", "guest-1", date(2024, 6, 10), date(2024, 6, 10), "order-1"},
		{"start after end", "guest-1", date(2024, 6, 14), date(2024, 6, 10), "order-1"},
		{"missing payment order", "guest-1", date(2024, 6, 10), date(2024, 6, 14), ""},
		{"zero dates", "guest-1", time.Time{}, time.Time{}, "order-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateReservation(ctx, tc.guestID, "listing-1", tc.start, tc.end, tc.orderID)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateReservationAuthorization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateReservation(ctx, "host-1", "listing-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	var ae *AuthorizationError
	if !errors.As(err, &ae) {
		t.Errorf("host booking as guest: err = %v, want AuthorizationError", err)
	}

	_, err = f.svc.CreateReservation(ctx, "guest-1", "no-such-listing", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("unknown listing: err = %v, want NotFoundError", err)
	}
}

func TestCreateReservationInactiveListing(t *testing.T) {
	f := newFixture()
	f.listings.byID["listing-1"].Active = false

	_, err := f.svc.CreateReservation(context.Background(), "guest-1", "listing-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("inactive listing: err = %v, want ValidationError", err)
	}
}

func TestCreateReservationRejectsConfirmedOverlap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := mustCreate(t, f, "guest-1", date(2024, 6, 1), date(2024, 6, 5), "order-a")
	mustConfirm(t, f, a.ID, "guest-1", "pay-a")

	// [06-04, 06-08) overlaps the confirmed [06-01, 06-05).
	_, err := f.svc.CreateReservation(ctx, "guest-2", "listing-1", date(2024, 6, 4), date(2024, 6, 8), "order-b")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("overlapping create: err = %v, want ConflictError", err)
	}
	if ce.ListingID != "listing-1" {
		t.Errorf("conflict listing = %q, want listing-1", ce.ListingID)
	}

	// Back-to-back is allowed: check-in on A's check-out day.
	if _, err := f.svc.CreateReservation(ctx, "guest-2", "listing-1", date(2024, 6, 5), date(2024, 6, 8), "order-c"); err != nil {
		t.Errorf("adjacent interval rejected: %v", err)
	}
}

func TestCreateReservationPendingDoesNotBlock(t *testing.T) {
	f := newFixture()

	mustCreate(t, f, "guest-1", date(2024, 6, 1), date(2024, 6, 5), "order-a")

	// A second pending request for the same dates is accepted; only a
	// confirmation makes the interval binding.
	if _, err := f.svc.CreateReservation(context.Background(), "guest-2", "listing-1", date(2024, 6, 1), date(2024, 6, 5), "order-b"); err != nil {
		t.Errorf("pending overlap rejected: %v", err)
	}
}

func TestConfirmReservation(t *testing.T) {
	f := newFixture()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	confirmed := mustConfirm(t, f, res.ID, "guest-1", "pay-1")

	if confirmed.Status != models.ReservationConfirmed {
		t.Errorf("status = %q, want confirmed", confirmed.Status)
	}
	if confirmed.PaymentID != "pay-1" {
		t.Errorf("payment id = %q, want pay-1", confirmed.PaymentID)
	}
	if len(f.notices.notices) != 2 {
		t.Fatalf("notices = %d, want guest and host notices", len(f.notices.notices))
	}
	if f.notices.notices[0].RecipientID != "guest-1" || f.notices.notices[1].RecipientID != "host-1" {
		t.Errorf("notice recipients = %q, %q", f.notices.notices[0].RecipientID, f.notices.notices[1].RecipientID)
	}
}

func TestConfirmReservationWrongGuest(t *testing.T) {
	f := newFixture()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	_, err := f.svc.ConfirmReservation(context.Background(), res.ID, "guest-2", "pay-1")
	var ae *AuthorizationError
	if !errors.As(err, &ae) {
		t.Errorf("err = %v, want AuthorizationError", err)
	}
}

func TestConfirmReservationIdempotent(t *testing.T) {
	f := newFixture()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	mustConfirm(t, f, res.ID, "guest-1", "pay-1")

	// Same payment reference again: success, state unchanged.
	again := mustConfirm(t, f, res.ID, "guest-1", "pay-1")
	if again.Status != models.ReservationConfirmed || again.PaymentID != "pay-1" {
		t.Errorf("retry changed state: status=%q payment=%q", again.Status, again.PaymentID)
	}

	// Different payment reference: conflict.
	_, err := f.svc.ConfirmReservation(context.Background(), res.ID, "guest-1", "pay-other")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("err = %v, want ConflictError", err)
	}
}

func TestConfirmCancelledReservation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	if _, err := f.svc.CancelReservation(ctx, res.ID, "guest-1"); err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}

	_, err := f.svc.ConfirmReservation(ctx, res.ID, "guest-1", "pay-1")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("confirming cancelled: err = %v, want ConflictError", err)
	}
}

func TestConfirmReservationLosesOverlapRace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Two pendings for the same dates; the first to confirm wins.
	a := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-a")
	b := mustCreate(t, f, "guest-2", date(2024, 6, 12), date(2024, 6, 16), "order-b")

	mustConfirm(t, f, a.ID, "guest-1", "pay-a")

	_, err := f.svc.ConfirmReservation(ctx, b.ID, "guest-2", "pay-b")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("loser confirmation: err = %v, want ConflictError", err)
	}

	// The loser is still pending and can be cancelled or swept later.
	stored, err := f.repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("loser gone: %v", err)
	}
	if stored.Status != models.ReservationPending {
		t.Errorf("loser status = %q, want pending", stored.Status)
	}
}

func TestConcurrentConfirmationsSingleWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// All pendings claim the same dates, so at most one may ever confirm no
	// matter how the confirmations interleave.
	const n = 16
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), fmt.Sprintf("order-%d", i))
		ids[i] = res.ID
	}

	var wg sync.WaitGroup
	var confirmed int64
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := f.svc.ConfirmReservation(ctx, ids[i], "guest-1", fmt.Sprintf("pay-%d", i)); err == nil {
				atomic.AddInt64(&confirmed, 1)
			}
		}(i)
	}
	wg.Wait()

	if confirmed != 1 {
		t.Errorf("confirmed = %d concurrent winners, want exactly 1", confirmed)
	}

	winners, err := f.repo.GetByListingAndStatuses(ctx, "listing-1", BlockingStatuses)
	if err != nil {
		t.Fatalf("GetByListingAndStatuses: %v", err)
	}
	if len(winners) != 1 {
		t.Fatalf("stored confirmed = %d, want 1", len(winners))
	}
	for i := range winners {
		for j := i + 1; j < len(winners); j++ {
			if winners[i].Overlaps(winners[j].StartDate, winners[j].EndDate) {
				t.Errorf("confirmed reservations %s and %s overlap", winners[i].ID, winners[j].ID)
			}
		}
	}
}

func TestCreateReservationStoreFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.err = errStoreDown
	_, err := f.svc.CreateReservation(ctx, "guest-1", "listing-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	var nfe *NotFoundError
	if err == nil || errors.As(err, &nfe) {
		t.Errorf("guest store failure: err = %v, want wrapped store error, not NotFoundError", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("guest store failure not preserved in chain: %v", err)
	}
	f.users.err = nil

	f.listings.err = errStoreDown
	_, err = f.svc.CreateReservation(ctx, "guest-1", "listing-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	if err == nil || errors.As(err, &nfe) {
		t.Errorf("listing store failure: err = %v, want wrapped store error, not NotFoundError", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("listing store failure not preserved in chain: %v", err)
	}
}

func TestApproveReservation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")

	_, err := f.svc.ApproveReservation(ctx, res.ID, "guest-2")
	var ae *AuthorizationError
	if !errors.As(err, &ae) {
		t.Errorf("non-host approval: err = %v, want AuthorizationError", err)
	}

	approved, err := f.svc.ApproveReservation(ctx, res.ID, "host-1")
	if err != nil {
		t.Fatalf("ApproveReservation: %v", err)
	}
	if approved.Status != models.ReservationConfirmed {
		t.Errorf("status = %q, want confirmed", approved.Status)
	}
	if approved.PaymentID != "" {
		t.Errorf("host approval attached payment id %q", approved.PaymentID)
	}
}

func TestRejectReservation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	rejected, err := f.svc.RejectReservation(ctx, res.ID, "host-1")
	if err != nil {
		t.Fatalf("RejectReservation: %v", err)
	}
	if rejected.Status != models.ReservationCancelled {
		t.Errorf("status = %q, want cancelled", rejected.Status)
	}

	// Rejecting a confirmed reservation is a state conflict.
	other := mustCreate(t, f, "guest-1", date(2024, 7, 1), date(2024, 7, 5), "order-2")
	mustConfirm(t, f, other.ID, "guest-1", "pay-2")
	_, err = f.svc.RejectReservation(ctx, other.ID, "host-1")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("rejecting confirmed: err = %v, want ConflictError", err)
	}
}

func TestCancelConfirmedReservationRefunds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	mustConfirm(t, f, res.ID, "guest-1", "pay-1")

	result, err := f.svc.CancelReservation(ctx, res.ID, "guest-1")
	if err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	if result.Reservation.Status != models.ReservationCancelled {
		t.Errorf("status = %q, want cancelled", result.Reservation.Status)
	}
	if !result.RefundInitiated || result.RefundID == "" {
		t.Errorf("refund not initiated: %+v", result)
	}
	if len(f.gateway.requests) != 1 {
		t.Fatalf("refund requests = %d, want 1", len(f.gateway.requests))
	}
	req := f.gateway.requests[0]
	if req.PaymentID != "pay-1" || req.AmountCents != res.PriceCents {
		t.Errorf("refund request = %+v", req)
	}
}

func TestCancelCommitsWhenRefundFails(t *testing.T) {
	f := newFixture()
	f.gateway.err = errGatewayDown
	ctx := context.Background()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	mustConfirm(t, f, res.ID, "guest-1", "pay-1")

	result, err := f.svc.CancelReservation(ctx, res.ID, "guest-1")
	if err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	if result.RefundInitiated {
		t.Error("refund reported initiated despite gateway failure")
	}

	stored, err := f.repo.GetByID(ctx, res.ID)
	if err != nil {
		t.Fatalf("reservation missing after cancel: %v", err)
	}
	if stored.Status != models.ReservationCancelled {
		t.Errorf("stored status = %q, want cancelled", stored.Status)
	}
}

func TestCancelPendingSkipsRefund(t *testing.T) {
	f := newFixture()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")
	result, err := f.svc.CancelReservation(context.Background(), res.ID, "guest-1")
	if err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	if result.RefundInitiated {
		t.Error("pending cancellation initiated a refund")
	}
	if len(f.gateway.requests) != 0 {
		t.Errorf("refund requests = %d, want 0", len(f.gateway.requests))
	}
}

func TestCancelReservationGuards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-1")

	_, err := f.svc.CancelReservation(ctx, res.ID, "guest-2")
	var ae *AuthorizationError
	if !errors.As(err, &ae) {
		t.Errorf("wrong actor: err = %v, want AuthorizationError", err)
	}

	if _, err := f.svc.CancelReservation(ctx, res.ID, "guest-1"); err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	_, err = f.svc.CancelReservation(ctx, res.ID, "guest-1")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("double cancel: err = %v, want ConflictError", err)
	}

	_, err = f.svc.CancelReservation(ctx, "no-such-id", "guest-1")
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("unknown id: err = %v, want NotFoundError", err)
	}
}

func TestFreedDatesAreReusableAfterCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := mustCreate(t, f, "guest-1", date(2024, 6, 10), date(2024, 6, 14), "order-a")
	mustConfirm(t, f, a.ID, "guest-1", "pay-a")
	if _, err := f.svc.CancelReservation(ctx, a.ID, "guest-1"); err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}

	b := mustCreate(t, f, "guest-2", date(2024, 6, 10), date(2024, 6, 14), "order-b")
	if _, err := f.svc.ConfirmReservation(ctx, b.ID, "guest-2", "pay-b"); err != nil {
		t.Errorf("confirming freed dates: %v", err)
	}
}
