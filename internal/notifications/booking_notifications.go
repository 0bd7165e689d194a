package notifications

import (
	"context"
	"errors"
	"fmt"

	"maidan/internal/store"

	"github.com/9ssi7/exponent"
)

type BookingEvent string

const (
	BookingRequested BookingEvent = "REQUESTED"
	BookingConfirmed BookingEvent = "CONFIRMED"
	BookingRejected  BookingEvent = "REJECTED"
	BookingCancelled BookingEvent = "CANCELLED"
)

// SendBookingNotification pushes a booking event to every registered device
// of the target user: the venue owner for new requests, the requester for
// decisions. Guests have no devices, so callers skip them.
func SendBookingNotification(ctx context.Context, push PushSender, tokens store.Storage, userID int64, event BookingEvent, ref string) error {
	tokensMap, err := tokens.PushTokens.GetTokensByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	deviceTokens := tokensMap[userID]
	if len(deviceTokens) == 0 {
		return errors.New("no push tokens")
	}

	var title, body string
	switch event {
	case BookingRequested:
		title = "New Booking Request"
		body = fmt.Sprintf("You have a new booking request (%s) waiting for a decision", ref)
	case BookingConfirmed:
		title = "Booking Confirmed"
		body = fmt.Sprintf("Your booking %s has been confirmed! 🎉", ref)
	case BookingRejected:
		title = "Booking Rejected"
		body = fmt.Sprintf("Your booking %s has been rejected.", ref)
	case BookingCancelled:
		title = "Booking Cancelled"
		body = fmt.Sprintf("Your booking %s has been cancelled.", ref)
	default:
		title = "Booking Update"
		body = fmt.Sprintf("Your booking %s has an update.", ref)
	}

	msgs := make([]*exponent.Message, 0, len(deviceTokens))
	for _, t := range deviceTokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":       "booking",
				"event":      string(event),
				"bookingRef": ref,
				"screen":     "bookings",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}
