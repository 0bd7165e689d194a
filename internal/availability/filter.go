package availability

import "time"

// Interval is an existing booking's time range plus its status, the only
// pieces of a booking the conflict filter needs.
type Interval struct {
	Start  time.Time
	End    time.Time
	Status BookingStatus
}

// SlotStatus is the display annotation attached to each candidate slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotPending   SlotStatus = "PENDING"
	SlotConfirmed SlotStatus = "CONFIRMED"
)

// AnnotatedSlot pairs a slot with the status of whatever blocks it.
type AnnotatedSlot struct {
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status SlotStatus `json:"status"`
}

// FilterAvailable returns, in input order, the slots that overlap no
// blocking booking.
func FilterAvailable(slots []Slot, bookings []Interval) []Slot {
	blocking := blockingOnly(bookings)
	var free []Slot
	for _, s := range slots {
		if blockedBy(s, blocking) == nil {
			free = append(free, s)
		}
	}
	return free
}

// Annotate keeps every slot and marks it AVAILABLE, PENDING or CONFIRMED.
// A CONFIRMED blocker wins over a PENDING one when both overlap the slot.
func Annotate(slots []Slot, bookings []Interval) []AnnotatedSlot {
	blocking := blockingOnly(bookings)
	out := make([]AnnotatedSlot, 0, len(slots))
	for _, s := range slots {
		status := SlotAvailable
		for _, b := range blocking {
			if !Overlaps(s.Start, s.End, b.Start, b.End) {
				continue
			}
			if b.Status == StatusConfirmed {
				status = SlotConfirmed
				break
			}
			status = SlotPending
		}
		out = append(out, AnnotatedSlot{Start: s.Start, End: s.End, Status: status})
	}
	return out
}

func blockingOnly(bookings []Interval) []Interval {
	var blocking []Interval
	for _, b := range bookings {
		if b.Status.Blocking() {
			blocking = append(blocking, b)
		}
	}
	return blocking
}

func blockedBy(s Slot, blocking []Interval) *Interval {
	for i := range blocking {
		if Overlaps(s.Start, s.End, blocking[i].Start, blocking[i].End) {
			return &blocking[i]
		}
	}
	return nil
}
