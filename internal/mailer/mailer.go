package mailer

import "embed"

const (
	FromName                 = "Maidan"
	maxRetries               = 3
	UserWelcomeTemplate      = "user_invitation.tmpl"
	BookingConfirmedTemplate = "booking_confirmed.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
