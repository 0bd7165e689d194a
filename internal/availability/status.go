package availability

// BookingStatus is the closed set of booking states. Keeping it a dedicated
// type forces every transition site through an exhaustive switch instead of
// comparing loose strings.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusRejected  BookingStatus = "REJECTED"
	StatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Blocking reports whether a booking in this state excludes its time range
// from availability. Only PENDING and CONFIRMED block; REJECTED and
// CANCELLED free the slot again.
func (s BookingStatus) Blocking() bool {
	switch s {
	case StatusPending, StatusConfirmed:
		return true
	case StatusRejected, StatusCancelled:
		return false
	}
	return false
}

// Terminal reports whether the decision workflow is finished for this state.
func (s BookingStatus) Terminal() bool {
	return s != StatusPending && s.Valid()
}

// CanTransitionTo encodes the lifecycle:
//
//	PENDING   -> CONFIRMED | REJECTED | CANCELLED
//	CONFIRMED -> CANCELLED (owner/admin override only)
//	REJECTED, CANCELLED -> nothing
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusRejected || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	case StatusRejected, StatusCancelled:
		return false
	}
	return false
}
