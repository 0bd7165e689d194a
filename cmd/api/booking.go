package main

import (
	"context"
	"fmt"
	"maidan/internal/availability"
	"maidan/internal/mailer"
	"maidan/internal/notifications"
	"maidan/internal/store"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// AvailabilityResponse is the availability read model for one venue-day.
type AvailabilityResponse struct {
	SlotDurationMinutes int                          `json:"slot_duration_minutes"`
	Slots               []availability.AnnotatedSlot `json:"slots"`
}

// VenueAvailability godoc
//
//	@Summary		List slots for a venue and day
//	@Description	Returns the venue's slot duration and bookable slots for a given date, each marked AVAILABLE, PENDING or CONFIRMED.
//	@Tags			bookings
//	@Produce		json
//	@Param			venueID	path		int						true	"Venue ID"
//	@Param			date	query		string					true	"Date in YYYY-MM-DD format"
//	@Success		200		{object}	AvailabilityResponse	"Slots with availability"
//	@Failure		400		{object}	error					"Bad Request"
//	@Failure		404		{object}	error					"Venue not found"
//	@Failure		500		{object}	error					"Internal Server Error"
//	@Router			/venues/{venueID}/availability [get]
func (app *application) venueAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		app.badRequestResponse(w, r, fmt.Errorf("missing date"))
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, app.timezone)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid date format, want YYYY-MM-DD: %w", err))
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), venueID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if venue.Status != store.VenueActive {
		app.notFoundResponse(w, r, fmt.Errorf("venue %d is not active", venueID))
		return
	}

	slots := availability.BuildSlots(venue.OpeningHours, venue.SlotDurationMinutes, date, app.timezone)
	if len(slots) == 0 {
		app.jsonResponse(w, http.StatusOK, AvailabilityResponse{
			SlotDurationMinutes: venue.SlotDurationMinutes,
			Slots:               []availability.AnnotatedSlot{},
		})
		return
	}

	// One query covers the whole day, including an overnight spill past
	// midnight.
	windowStart := slots[0].Start
	windowEnd := slots[len(slots)-1].End

	bookings, err := app.store.Bookings.GetBlockingForWindow(r.Context(), venueID, windowStart, windowEnd)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	annotated := availability.Annotate(slots, bookings)

	resp := AvailabilityResponse{
		SlotDurationMinutes: venue.SlotDurationMinutes,
		Slots:               annotated,
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// CreateBookingPayload represents the JSON payload to request a booking.
// Guests must supply a name and a Bangladeshi phone number; authenticated
// users book under their account instead.
type CreateBookingPayload struct {
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	GuestName  *string   `json:"guest_name,omitempty" validate:"omitempty,min=2,max=100"`
	GuestPhone *string   `json:"guest_phone,omitempty" validate:"omitempty,bdphone"`
	Note       *string   `json:"note,omitempty" validate:"omitempty,max=500"`
}

// CreateBooking godoc
//
//	@Summary		Request a booking
//	@Description	Creates a PENDING booking for the requested window if it aligns with the venue's slots and overlaps no pending or confirmed booking.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int						true	"Venue ID"
//	@Param			payload	body		CreateBookingPayload	true	"Booking details payload"
//	@Success		201		{object}	store.Booking			"Booking created successfully"
//	@Failure		400		{object}	error					"Bad Request: Invalid input"
//	@Failure		409		{object}	error					"Conflict: Time slot is already booked"
//	@Failure		500		{object}	error					"Internal Server Error: Could not create booking"
//	@Router			/venues/{venueID}/bookings [post]
func (app *application) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	if user == nil {
		if payload.GuestName == nil || payload.GuestPhone == nil {
			app.badRequestResponse(w, r, fmt.Errorf("guest bookings require guest_name and guest_phone"))
			return
		}
	}

	venue, err := app.store.Venues.GetByID(r.Context(), venueID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if venue.Status != store.VenueActive {
		app.notFoundResponse(w, r, fmt.Errorf("venue %d is not active", venueID))
		return
	}

	if err := app.checkSlotAlignment(venue, payload.StartTime, payload.EndTime); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking := &store.Booking{
		VenueID:   venue.ID,
		OwnerID:   venue.OwnerID,
		StartTime: payload.StartTime.UTC(),
		EndTime:   payload.EndTime.UTC(),
		Status:    availability.StatusPending,
		Note:      payload.Note,
	}

	if user != nil {
		booking.UserID = &user.ID
		booking.SnapshotName = &user.Name
		booking.SnapshotEmail = &user.Email
		booking.SnapshotPhone = user.Phone
	} else {
		phone := normalizePhone(*payload.GuestPhone)
		booking.GuestName = payload.GuestName
		booking.GuestPhone = &phone
		booking.SnapshotName = payload.GuestName
		booking.SnapshotPhone = &phone
	}

	if err := app.store.Bookings.CreateIfFree(r.Context(), booking); err != nil {
		switch err {
		case store.ErrConflict:
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Owner notification is best effort; booking creation already succeeded.
	go func(ownerID int64, ref string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notifications.SendBookingNotification(ctx, app.push, app.store, ownerID, notifications.BookingRequested, ref); err != nil {
			app.logger.Warnw("owner push notification failed", "booking", ref, "error", err)
		}
	}(venue.OwnerID, booking.Ref)

	if err := app.jsonResponse(w, http.StatusCreated, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}

// checkSlotAlignment verifies the requested window sits on the venue's slot
// grid: it must start and end on slot boundaries and every slot in between
// must exist. An overnight rule spills past midnight, so a post-midnight
// window belongs to the previous local day's slot list; both candidate days
// are checked before rejecting.
func (app *application) checkSlotAlignment(venue *store.Venue, start, end time.Time) error {
	localStart := start.In(app.timezone)
	sawSlots := false

	for _, day := range []time.Time{localStart, localStart.AddDate(0, 0, -1)} {
		slots := availability.BuildSlots(venue.OpeningHours, venue.SlotDurationMinutes, day, app.timezone)
		if len(slots) == 0 {
			continue
		}
		sawSlots = true
		if windowOnGrid(slots, start, end) {
			return nil
		}
	}

	if !sawSlots {
		return fmt.Errorf("venue is closed on the requested day")
	}
	return fmt.Errorf("requested window does not align with the venue's %d-minute slots", venue.SlotDurationMinutes)
}

func windowOnGrid(slots []availability.Slot, start, end time.Time) bool {
	for i, s := range slots {
		if !s.Start.Equal(start) {
			continue
		}
		// Slots are contiguous, so a matching end means full coverage.
		for j := i; j < len(slots); j++ {
			if slots[j].End.Equal(end) {
				return true
			}
		}
		return false
	}
	return false
}

// DecideBookingPayload carries the owner's decision on a pending booking.
type DecideBookingPayload struct {
	Status string  `json:"status" validate:"required,oneof=CONFIRMED REJECTED"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// DecideBooking godoc
//
//	@Summary		Confirm or reject a pending booking
//	@Description	Owner decision on a PENDING booking. Confirmation re-checks for conflicting bookings atomically.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		int						true	"Booking ID"
//	@Param			payload		body		DecideBookingPayload	true	"Decision"
//	@Success		200			{object}	store.Booking			"Updated booking"
//	@Failure		400			{object}	error					"Bad Request"
//	@Failure		403			{object}	error					"Forbidden"
//	@Failure		404			{object}	error					"Not Found"
//	@Failure		409			{object}	error					"Conflict or no longer pending"
//	@Failure		500			{object}	error					"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/owner/bookings/{bookingID}/decision [patch]
func (app *application) decideBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload DecideBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.store.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if booking.OwnerID != user.ID && user.Role != store.RoleAdmin {
		app.forbiddenResponse(w, r)
		return
	}

	decision := store.Decision{
		BookingID: bookingID,
		Status:    availability.BookingStatus(payload.Status),
		OwnerNote: payload.Note,
	}

	updated, err := app.store.Bookings.Decide(r.Context(), decision)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		case store.ErrNotPending, store.ErrConflict:
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.notifyRequester(updated)

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}

// notifyRequester tells the requester how their booking was decided: a push
// notification when they booked with an account and, on confirmation, an
// email when a snapshot address exists. Guests without either get nothing.
func (app *application) notifyRequester(b *store.Booking) {
	event := notifications.BookingRejected
	switch b.Status {
	case availability.StatusConfirmed:
		event = notifications.BookingConfirmed
	case availability.StatusCancelled:
		event = notifications.BookingCancelled
	}

	if b.UserID != nil {
		go func(userID int64, ref string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := notifications.SendBookingNotification(ctx, app.push, app.store, userID, event, ref); err != nil {
				app.logger.Warnw("requester push notification failed", "booking", ref, "error", err)
			}
		}(*b.UserID, b.Ref)
	}

	if b.Status == availability.StatusConfirmed && b.SnapshotEmail != nil {
		name := ""
		if b.SnapshotName != nil {
			name = *b.SnapshotName
		}
		vars := struct {
			Username   string
			BookingRef string
			StartTime  string
			EndTime    string
		}{
			Username:   name,
			BookingRef: b.Ref,
			StartTime:  b.StartTime.In(app.timezone).Format(time.RFC1123),
			EndTime:    b.EndTime.In(app.timezone).Format(time.RFC1123),
		}

		go func(email string) {
			status, err := app.mailer.Send(mailer.BookingConfirmedTemplate, vars.Username, email, vars)
			if err != nil {
				app.logger.Errorw("error sending booking confirmation email", "error", err)
				return
			}
			app.logger.Infow("Booking confirmation email sent", "status code", status)
		}(*b.SnapshotEmail)
	}
}

// CancelBooking godoc
//
//	@Summary		Cancel a booking
//	@Description	Moves a PENDING or CONFIRMED booking to CANCELLED. Allowed for the requester, the venue owner or an admin.
//	@Tags			bookings
//	@Produce		json
//	@Param			venueID		path		int					true	"Venue ID"
//	@Param			bookingID	path		int					true	"Booking ID"
//	@Success		200			{object}	map[string]string	"Booking cancelled"
//	@Failure		400			{object}	error				"Bad Request"
//	@Failure		403			{object}	error				"Forbidden"
//	@Failure		404			{object}	error				"Not Found"
//	@Failure		409			{object}	error				"Already in a terminal state"
//	@Failure		500			{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/bookings/{bookingID}/cancel [post]
func (app *application) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.store.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if booking.VenueID != venueID {
		app.notFoundResponse(w, r, fmt.Errorf("booking %d does not belong to venue %d", bookingID, venueID))
		return
	}

	isRequester := booking.UserID != nil && *booking.UserID == user.ID
	if !isRequester && booking.OwnerID != user.ID && user.Role != store.RoleAdmin {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Bookings.Cancel(r.Context(), venueID, bookingID); err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		case store.ErrAlreadyFinal:
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// A cancellation by the owner or an admin should reach the requester.
	if !isRequester && booking.UserID != nil {
		go func(userID int64, ref string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := notifications.SendBookingNotification(ctx, app.push, app.store, userID, notifications.BookingCancelled, ref); err != nil {
				app.logger.Warnw("cancellation push notification failed", "booking", ref, "error", err)
			}
		}(*booking.UserID, booking.Ref)
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "booking cancelled"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListOwnerBookings godoc
//
//	@Summary		List bookings across the owner's venues
//	@Description	Returns bookings for every venue the authenticated user owns, newest first, optionally narrowed to one venue
//	@Tags			bookings
//	@Produce		json
//	@Param			venue_id	query	int					false	"Restrict to one venue"
//	@Param			limit	query		int				false	"Page size (default 50, max 200)"
//	@Success		200		{array}		store.Booking	"Bookings"
//	@Failure		500		{object}	error			"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/owner/bookings [get]
func (app *application) listOwnerBookingsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	var venueID *int64
	if venueIDStr := r.URL.Query().Get("venue_id"); venueIDStr != "" {
		parsed, err := strconv.ParseInt(venueIDStr, 10, 64)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		venueID = &parsed
	}

	bookings, err := app.store.Bookings.ListForOwner(r.Context(), &user.ID, venueID, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, bookings); err != nil {
		app.internalServerError(w, r, err)
	}
}

// PendingCount godoc
//
//	@Summary		Count pending bookings for the owner
//	@Description	Returns how many PENDING bookings are waiting across the owner's venues, for a badge counter
//	@Tags			bookings
//	@Produce		json
//	@Success		200	{object}	map[string]int64	"Pending count"
//	@Failure		500	{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/owner/bookings/pending-count [get]
func (app *application) pendingCountHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	count, err := app.store.Bookings.CountPendingForOwner(r.Context(), &user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]int64{"pending": count}); err != nil {
		app.internalServerError(w, r, err)
	}
}
