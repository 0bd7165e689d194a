package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"maidan/internal/auth"
	"maidan/internal/availability"
	"maidan/internal/ratelimiter"
	"maidan/internal/store"

	"github.com/9ssi7/exponent"
	"go.uber.org/zap"
)

var testZone = time.FixedZone("BST", 6*3600)

func newTestApplication(t *testing.T, st store.Storage) *application {
	t.Helper()

	return &application{
		config: config{
			frontendURL: "http://localhost:3000",
			mail:        mailConfig{exp: time.Hour, fromEmail: "noreply@maidan.test"},
		},
		store:         st,
		logger:        zap.NewNop().Sugar(),
		mailer:        &fakeMailer{},
		authenticator: auth.NewJWTAuthenticator("secret", "refresh-secret", "maidan", "maidan", time.Hour, 24*time.Hour),
		push:          &fakePush{},
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(1000, time.Second),
		timezone:      testZone,
	}
}

func withUser(r *http.Request, u *store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userCtx, u))
}

type fakeMailer struct {
	sent int
}

func (m *fakeMailer) Send(templateFile, username, email string, data any) (int, error) {
	m.sent++
	return http.StatusOK, nil
}

type fakePush struct{}

func (p *fakePush) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	return nil, nil
}

func (p *fakePush) PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error) {
	return nil, nil
}

// fakeVenuesStore serves a fixed set of venues keyed by ID.
type fakeVenuesStore struct {
	venues map[int64]*store.Venue
}

func (s *fakeVenuesStore) Create(ctx context.Context, venue *store.Venue) error {
	venue.ID = int64(len(s.venues) + 1)
	s.venues[venue.ID] = venue
	return nil
}

func (s *fakeVenuesStore) GetByID(ctx context.Context, venueID int64) (*store.Venue, error) {
	v, ok := s.venues[venueID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (s *fakeVenuesStore) GetBySlug(ctx context.Context, slug string) (*store.Venue, error) {
	for _, v := range s.venues {
		if v.Slug == slug && v.Status == store.VenueActive {
			return v, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeVenuesStore) List(ctx context.Context, onlyActive bool, limit int) ([]store.Venue, error) {
	var out []store.Venue
	for _, v := range s.venues {
		if onlyActive && v.Status != store.VenueActive {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *fakeVenuesStore) ListByOwner(ctx context.Context, ownerID int64) ([]store.Venue, error) {
	var out []store.Venue
	for _, v := range s.venues {
		if v.OwnerID == ownerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *fakeVenuesStore) Update(ctx context.Context, venueID int64, updates map[string]interface{}) error {
	if _, ok := s.venues[venueID]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (s *fakeVenuesStore) UpdateSchedule(ctx context.Context, venueID int64, hours availability.OpeningHours, slotDurationMinutes int) error {
	v, ok := s.venues[venueID]
	if !ok {
		return store.ErrNotFound
	}
	v.OpeningHours = hours
	v.SlotDurationMinutes = slotDurationMinutes
	return nil
}

func (s *fakeVenuesStore) SetStatus(ctx context.Context, venueID int64, status store.VenueStatus) error {
	v, ok := s.venues[venueID]
	if !ok {
		return store.ErrNotFound
	}
	v.Status = status
	return nil
}

func (s *fakeVenuesStore) AddPhotoURL(ctx context.Context, venueID int64, url string) error {
	return nil
}

func (s *fakeVenuesStore) RemovePhotoURL(ctx context.Context, venueID int64, url string) error {
	return nil
}

// fakeBookingsStore keeps bookings in memory and reproduces the conditional
// write semantics of the real store.
type fakeBookingsStore struct {
	nextID   int64
	bookings map[int64]*store.Booking
}

func newFakeBookingsStore() *fakeBookingsStore {
	return &fakeBookingsStore{nextID: 1, bookings: map[int64]*store.Booking{}}
}

func (s *fakeBookingsStore) CreateIfFree(ctx context.Context, b *store.Booking) error {
	for _, other := range s.bookings {
		if other.VenueID == b.VenueID && other.Status.Blocking() &&
			availability.Overlaps(b.StartTime, b.EndTime, other.StartTime, other.EndTime) {
			return store.ErrConflict
		}
	}
	b.ID = s.nextID
	s.nextID++
	b.Ref = "BK" + string(rune('A'+b.ID%26))
	b.Status = availability.StatusPending
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *fakeBookingsStore) GetByID(ctx context.Context, bookingID int64) (*store.Booking, error) {
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBookingsStore) GetBlockingForWindow(ctx context.Context, venueID int64, from, to time.Time) ([]availability.Interval, error) {
	var out []availability.Interval
	for _, b := range s.bookings {
		if b.VenueID != venueID || !b.Status.Blocking() {
			continue
		}
		if availability.Overlaps(b.StartTime, b.EndTime, from, to) {
			out = append(out, availability.Interval{Start: b.StartTime, End: b.EndTime, Status: b.Status})
		}
	}
	return out, nil
}

func (s *fakeBookingsStore) Decide(ctx context.Context, d store.Decision) (*store.Booking, error) {
	b, ok := s.bookings[d.BookingID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if b.Status != availability.StatusPending {
		return nil, store.ErrNotPending
	}
	if d.Status == availability.StatusConfirmed {
		for _, other := range s.bookings {
			if other.ID == b.ID || other.VenueID != b.VenueID || !other.Status.Blocking() {
				continue
			}
			if availability.Overlaps(b.StartTime, b.EndTime, other.StartTime, other.EndTime) {
				return nil, store.ErrConflict
			}
		}
	}
	b.Status = d.Status
	if d.OwnerNote != nil {
		b.OwnerNote = d.OwnerNote
	}
	if d.AdminNote != nil {
		b.AdminNote = d.AdminNote
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBookingsStore) Cancel(ctx context.Context, venueID, bookingID int64) error {
	b, ok := s.bookings[bookingID]
	if !ok || b.VenueID != venueID {
		return store.ErrNotFound
	}
	if !b.Status.CanTransitionTo(availability.StatusCancelled) {
		return store.ErrAlreadyFinal
	}
	b.Status = availability.StatusCancelled
	return nil
}

func (s *fakeBookingsStore) ListForOwner(ctx context.Context, ownerID, venueID *int64, limit int) ([]store.Booking, error) {
	var out []store.Booking
	for _, b := range s.bookings {
		if ownerID != nil && b.OwnerID != *ownerID {
			continue
		}
		if venueID != nil && b.VenueID != *venueID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (s *fakeBookingsStore) CountPendingForOwner(ctx context.Context, ownerID *int64) (int64, error) {
	var count int64
	for _, b := range s.bookings {
		if b.Status != availability.StatusPending {
			continue
		}
		if ownerID != nil && b.OwnerID != *ownerID {
			continue
		}
		count++
	}
	return count, nil
}

func (s *fakeBookingsStore) ListByUser(ctx context.Context, userID int64, filter store.BookingFilter) ([]store.Booking, error) {
	var out []store.Booking
	for _, b := range s.bookings {
		if b.UserID == nil || *b.UserID != userID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

type fakePushTokensStore struct{}

func (s *fakePushTokensStore) AddOrUpdate(ctx context.Context, userID int64, token string) error {
	return nil
}

func (s *fakePushTokensStore) Remove(ctx context.Context, userID int64, token string) error {
	return nil
}

func (s *fakePushTokensStore) GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	return map[int64][]string{}, nil
}
