package store

import (
	"context"
	"errors"
	"time"

	"maidan/internal/availability"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("time range overlaps a blocking booking")
	ErrNotPending        = errors.New("booking is no longer pending")
	ErrAlreadyFinal      = errors.New("booking is already in a terminal state")
	ErrDuplicateSlug     = errors.New("a venue with that slug already exists")
	ErrDuplicateEmail    = errors.New("a user with that email already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		CreateAndInvite(ctx context.Context, user *User, token string, exp time.Duration) error
		Activate(ctx context.Context, token string) error
		GetByID(ctx context.Context, userID int64) (*User, error)
		GetByEmail(ctx context.Context, email string) (*User, error)
		SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error
		DeleteRefreshToken(ctx context.Context, userID int64) error
		Delete(ctx context.Context, userID int64) error
	}
	Venues interface {
		Create(ctx context.Context, venue *Venue) error
		GetByID(ctx context.Context, venueID int64) (*Venue, error)
		GetBySlug(ctx context.Context, slug string) (*Venue, error)
		List(ctx context.Context, onlyActive bool, limit int) ([]Venue, error)
		ListByOwner(ctx context.Context, ownerID int64) ([]Venue, error)
		Update(ctx context.Context, venueID int64, updates map[string]interface{}) error
		UpdateSchedule(ctx context.Context, venueID int64, hours availability.OpeningHours, slotDurationMinutes int) error
		SetStatus(ctx context.Context, venueID int64, status VenueStatus) error
		AddPhotoURL(ctx context.Context, venueID int64, url string) error
		RemovePhotoURL(ctx context.Context, venueID int64, url string) error
	}
	Bookings interface {
		CreateIfFree(ctx context.Context, booking *Booking) error
		GetByID(ctx context.Context, bookingID int64) (*Booking, error)
		GetBlockingForWindow(ctx context.Context, venueID int64, from, to time.Time) ([]availability.Interval, error)
		Decide(ctx context.Context, d Decision) (*Booking, error)
		Cancel(ctx context.Context, venueID, bookingID int64) error
		ListForOwner(ctx context.Context, ownerID, venueID *int64, limit int) ([]Booking, error)
		CountPendingForOwner(ctx context.Context, ownerID *int64) (int64, error)
		ListByUser(ctx context.Context, userID int64, filter BookingFilter) ([]Booking, error)
	}
	PushTokens interface {
		AddOrUpdate(ctx context.Context, userID int64, token string) error
		Remove(ctx context.Context, userID int64, token string) error
		GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:      &UsersStore{db},
		Venues:     &VenuesStore{db},
		Bookings:   NewBookingsStore(db),
		PushTokens: &PushTokensStore{db},
	}
}
