package reservation

import (
	"fmt"
	"time"
)

// ValidationError reports malformed input (bad interval, missing fields). It
// is raised before any store access.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validationError: %s", e.Message)
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a transition attempted by the wrong actor. It is
// distinct from state errors so callers can tell "forbidden" from "stale".
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorizationError: %s", e.Message)
}

func NewAuthorizationError(format string, args ...interface{}) error {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown reservation or an empty payment-order group.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("notFoundError: %s", e.Message)
}

func NewNotFoundError(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports an overlap violation or a stale-state write rejected
// by the store. The listing and interval are included so clients can present
// an actionable message.
type ConflictError struct {
	Message   string
	ListingID string
	StartDate time.Time
	EndDate   time.Time
}

func (e *ConflictError) Error() string {
	if e.ListingID != "" {
		return fmt.Sprintf("conflictError: %s (listing %s, %s to %s)",
			e.Message, e.ListingID,
			e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("conflictError: %s", e.Message)
}

// NewOverlapConflict builds a ConflictError for dates that are no longer
// available on a listing.
func NewOverlapConflict(listingID string, start, end time.Time) error {
	return &ConflictError{
		Message:   "these dates are no longer available",
		ListingID: listingID,
		StartDate: start,
		EndDate:   end,
	}
}

// NewStateConflict builds a ConflictError for a transition rejected because
// the persisted status changed or forbids the move.
func NewStateConflict(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
