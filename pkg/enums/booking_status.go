package enums

import "fmt"

// BookingStatus maps to the booking_status_enum enum in Postgres.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
}

// IsValid reports whether the value matches the canonical booking status enum.
func (s BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists from the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted
}

// ParseBookingStatus converts raw input into BookingStatus. Empty input maps
// to pending, matching rows created before the status column was backfilled.
func ParseBookingStatus(value string) (BookingStatus, error) {
	if value == "" {
		return BookingStatusPending, nil
	}
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}
