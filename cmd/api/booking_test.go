package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maidan/internal/availability"
	"maidan/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allDayHours(open, close string) availability.OpeningHours {
	hours := availability.OpeningHours{}
	for _, day := range []availability.Weekday{
		availability.Sunday, availability.Monday, availability.Tuesday,
		availability.Wednesday, availability.Thursday, availability.Friday,
		availability.Saturday,
	} {
		hours[day] = availability.Rule{Open: open, Close: close}
	}
	return hours
}

func testVenue(ownerID int64) *store.Venue {
	return &store.Venue{
		ID:                  1,
		OwnerID:             ownerID,
		Type:                store.VenueTurf,
		Name:                "Kings Arena",
		Slug:                "kings-arena",
		SlotDurationMinutes: 60,
		OpeningHours:        allDayHours("10:00", "22:00"),
		Status:              store.VenueActive,
	}
}

func newBookingTestApp(t *testing.T) (*application, *fakeBookingsStore) {
	t.Helper()

	bookings := newFakeBookingsStore()
	st := store.Storage{
		Venues:     &fakeVenuesStore{venues: map[int64]*store.Venue{1: testVenue(77)}},
		Bookings:   bookings,
		PushTokens: &fakePushTokensStore{},
	}
	return newTestApplication(t, st), bookings
}

func withURLParams(r *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func slotTime(hour int) time.Time {
	return time.Date(2025, 9, 15, hour, 0, 0, 0, testZone)
}

func postBooking(app *application, body string, user *store.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/venues/1/bookings", bytes.NewBufferString(body))
	req = withURLParams(req, "venueID", "1")
	if user != nil {
		req = withUser(req, user)
	}
	rr := httptest.NewRecorder()
	app.createBookingHandler(rr, req)
	return rr
}

func bookingBody(start, end time.Time, guest bool) string {
	payload := map[string]any{
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}
	if guest {
		payload["guest_name"] = "Rahim Uddin"
		payload["guest_phone"] = "+8801712345678"
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestCreateBooking(t *testing.T) {
	userID := int64(5)
	user := &store.User{ID: userID, Name: "Karim", Email: "karim@example.com", Role: store.RoleUser}

	t.Run("authenticated user creates a pending booking", func(t *testing.T) {
		app, bookings := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), user)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		require.Len(t, bookings.bookings, 1)
		for _, b := range bookings.bookings {
			assert.Equal(t, availability.StatusPending, b.Status)
			require.NotNil(t, b.UserID)
			assert.Equal(t, userID, *b.UserID)
			assert.Equal(t, "karim@example.com", *b.SnapshotEmail)
		}
	})

	t.Run("guest booking requires name and phone", func(t *testing.T) {
		app, _ := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("guest booking with valid phone succeeds", func(t *testing.T) {
		app, bookings := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(12), slotTime(13), true), nil)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		for _, b := range bookings.bookings {
			assert.Nil(t, b.UserID)
			require.NotNil(t, b.GuestPhone)
			assert.Equal(t, "+8801712345678", *b.GuestPhone)
		}
	})

	t.Run("overlapping pending booking is rejected", func(t *testing.T) {
		app, _ := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(12), false), user)
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = postBooking(app, bookingBody(slotTime(11), slotTime(12), true), nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("window off the slot grid is rejected", func(t *testing.T) {
		app, _ := newBookingTestApp(t)

		start := time.Date(2025, 9, 15, 10, 30, 0, 0, testZone)
		rr := postBooking(app, bookingBody(start, start.Add(time.Hour), false), user)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("window outside opening hours is rejected", func(t *testing.T) {
		app, _ := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(22), slotTime(23), false), user)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("post-midnight slot at an overnight venue", func(t *testing.T) {
		venue := testVenue(77)
		venue.OpeningHours = allDayHours("22:00", "02:00")
		bookings := newFakeBookingsStore()
		st := store.Storage{
			Venues:     &fakeVenuesStore{venues: map[int64]*store.Venue{1: venue}},
			Bookings:   bookings,
			PushTokens: &fakePushTokensStore{},
		}
		app := newTestApplication(t, st)

		// The 01:00 slot belongs to the previous evening's session.
		start := time.Date(2025, 9, 16, 1, 0, 0, 0, testZone)
		rr := postBooking(app, bookingBody(start, start.Add(time.Hour), false), user)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})

	t.Run("window freed by a rejection can be rebooked", func(t *testing.T) {
		app, _ := newBookingTestApp(t)
		owner := &store.User{ID: 77, Name: "Owner", Email: "owner@example.com", Role: store.RoleUser}

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), user)
		require.Equal(t, http.StatusCreated, rr.Code)
		require.Equal(t, http.StatusOK, decide(app, 1, "REJECTED", owner).Code)

		rr = postBooking(app, bookingBody(slotTime(10), slotTime(11), false), user)
		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})
}

func decide(app *application, bookingID int64, status string, user *store.User) *httptest.ResponseRecorder {
	body := fmt.Sprintf(`{"status": %q}`, status)
	req := httptest.NewRequest(http.MethodPatch, "/v1/owner/bookings/1/decision", bytes.NewBufferString(body))
	req = withURLParams(req, "bookingID", fmt.Sprintf("%d", bookingID))
	req = withUser(req, user)
	rr := httptest.NewRecorder()
	app.decideBookingHandler(rr, req)
	return rr
}

func TestDecideBooking(t *testing.T) {
	owner := &store.User{ID: 77, Name: "Owner", Email: "owner@example.com", Role: store.RoleUser}
	requester := &store.User{ID: 5, Name: "Karim", Email: "karim@example.com", Role: store.RoleUser}

	t.Run("owner confirms a pending booking", func(t *testing.T) {
		app, bookings := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = decide(app, 1, "CONFIRMED", owner)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, availability.StatusConfirmed, bookings.bookings[1].Status)
	})

	t.Run("deciding twice fails", func(t *testing.T) {
		app, _ := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
		require.Equal(t, http.StatusCreated, rr.Code)

		require.Equal(t, http.StatusOK, decide(app, 1, "REJECTED", owner).Code)
		assert.Equal(t, http.StatusConflict, decide(app, 1, "CONFIRMED", owner).Code)
	})

	t.Run("non-owner cannot decide", func(t *testing.T) {
		app, _ := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
		require.Equal(t, http.StatusCreated, rr.Code)

		assert.Equal(t, http.StatusForbidden, decide(app, 1, "CONFIRMED", requester).Code)
	})

	t.Run("confirming over a confirmed overlap conflicts and stays pending", func(t *testing.T) {
		app, bookings := newBookingTestApp(t)

		// Two pendings can coexist; only confirmation resolves them.
		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
		require.Equal(t, http.StatusCreated, rr.Code)

		// Second overlapping request goes straight into the fake store,
		// as if it raced past creation before the first was confirmed.
		second := &store.Booking{
			ID: 2, VenueID: 1, OwnerID: 77,
			StartTime: slotTime(10).UTC(), EndTime: slotTime(11).UTC(),
			Status: availability.StatusPending,
		}
		bookings.bookings[2] = second

		require.Equal(t, http.StatusOK, decide(app, 1, "CONFIRMED", owner).Code)

		rr = decide(app, 2, "CONFIRMED", owner)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, availability.StatusPending, bookings.bookings[2].Status)

		// Rejecting the loser still works.
		assert.Equal(t, http.StatusOK, decide(app, 2, "REJECTED", owner).Code)
	})
}

func TestCancelBooking(t *testing.T) {
	owner := &store.User{ID: 77, Name: "Owner", Role: store.RoleUser}
	requester := &store.User{ID: 5, Name: "Karim", Email: "karim@example.com", Role: store.RoleUser}
	stranger := &store.User{ID: 99, Name: "Other", Role: store.RoleUser}

	cancel := func(app *application, bookingID int64, user *store.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/venues/1/bookings/1/cancel", nil)
		req = withURLParams(req, "venueID", "1", "bookingID", fmt.Sprintf("%d", bookingID))
		req = withUser(req, user)
		rr := httptest.NewRecorder()
		app.cancelBookingHandler(rr, req)
		return rr
	}

	t.Run("requester cancels own booking", func(t *testing.T) {
		app, bookings := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
		require.Equal(t, http.StatusCreated, rr.Code)

		require.Equal(t, http.StatusOK, cancel(app, 1, requester).Code)
		assert.Equal(t, availability.StatusCancelled, bookings.bookings[1].Status)
	})

	t.Run("owner cancels a confirmed booking", func(t *testing.T) {
		app, bookings := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
		require.Equal(t, http.StatusCreated, rr.Code)
		require.Equal(t, http.StatusOK, decide(app, 1, "CONFIRMED", owner).Code)

		require.Equal(t, http.StatusOK, cancel(app, 1, owner).Code)
		assert.Equal(t, availability.StatusCancelled, bookings.bookings[1].Status)
	})

	t.Run("cancelling a terminal booking conflicts", func(t *testing.T) {
		app, _ := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
		require.Equal(t, http.StatusCreated, rr.Code)

		require.Equal(t, http.StatusOK, cancel(app, 1, requester).Code)
		assert.Equal(t, http.StatusConflict, cancel(app, 1, requester).Code)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		app, _ := newBookingTestApp(t)

		rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
		require.Equal(t, http.StatusCreated, rr.Code)

		assert.Equal(t, http.StatusForbidden, cancel(app, 1, stranger).Code)
	})
}

func TestListOwnerBookings(t *testing.T) {
	owner := &store.User{ID: 77, Name: "Owner", Email: "owner@example.com", Role: store.RoleUser}

	app, bookings := newBookingTestApp(t)
	bookings.bookings[1] = &store.Booking{
		ID: 1, VenueID: 1, OwnerID: 77,
		StartTime: slotTime(10).UTC(), EndTime: slotTime(11).UTC(),
		Status: availability.StatusPending,
	}
	bookings.bookings[2] = &store.Booking{
		ID: 2, VenueID: 2, OwnerID: 77,
		StartTime: slotTime(10).UTC(), EndTime: slotTime(11).UTC(),
		Status: availability.StatusPending,
	}

	list := func(target string) []store.Booking {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req = withUser(req, owner)
		rr := httptest.NewRecorder()
		app.listOwnerBookingsHandler(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var envelope struct {
			Data []store.Booking `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		return envelope.Data
	}

	assert.Len(t, list("/v1/owner/bookings"), 2)

	filtered := list("/v1/owner/bookings?venue_id=2")
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].VenueID)
}

func TestVenueAvailabilityHandler(t *testing.T) {
	requester := &store.User{ID: 5, Name: "Karim", Email: "karim@example.com", Role: store.RoleUser}

	app, _ := newBookingTestApp(t)

	rr := postBooking(app, bookingBody(slotTime(10), slotTime(11), false), requester)
	require.Equal(t, http.StatusCreated, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/venues/1/availability?date=2025-09-15", nil)
	req = withURLParams(req, "venueID", "1")
	rr = httptest.NewRecorder()
	app.venueAvailabilityHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var envelope struct {
		Data AvailabilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, 60, envelope.Data.SlotDurationMinutes)
	require.Len(t, envelope.Data.Slots, 12)

	assert.Equal(t, availability.SlotPending, envelope.Data.Slots[0].Status)
	for _, slot := range envelope.Data.Slots[1:] {
		assert.Equal(t, availability.SlotAvailable, slot.Status)
	}
}
