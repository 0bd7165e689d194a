package main

import (
	"maidan/internal/availability"
	"maidan/internal/store"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// AdminListBookings godoc
//
//	@Summary		List all bookings
//	@Description	Returns bookings across every venue, newest first. Admin only.
//	@Tags			admin
//	@Produce		json
//	@Param			limit	query		int				false	"Page size (default 50, max 200)"
//	@Success		200		{array}		store.Booking	"Bookings"
//	@Failure		403		{object}	error			"Forbidden"
//	@Failure		500		{object}	error			"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/admin/bookings [get]
func (app *application) adminListBookingsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	bookings, err := app.store.Bookings.ListForOwner(r.Context(), nil, nil, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, bookings); err != nil {
		app.internalServerError(w, r, err)
	}
}

// AdminListVenues godoc
//
//	@Summary		List all venues
//	@Description	Returns every venue including suspended ones. Admin only.
//	@Tags			admin
//	@Produce		json
//	@Param			limit	query		int			false	"Page size (default 50, max 200)"
//	@Success		200		{array}		store.Venue	"Venues"
//	@Failure		403		{object}	error		"Forbidden"
//	@Failure		500		{object}	error		"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/admin/venues [get]
func (app *application) adminListVenuesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	venues, err := app.store.Venues.List(r.Context(), false, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venues); err != nil {
		app.internalServerError(w, r, err)
	}
}

// AdminDecideBookingPayload carries an admin's status change for a booking.
type AdminDecideBookingPayload struct {
	Status string  `json:"status" validate:"required,oneof=CONFIRMED REJECTED CANCELLED"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// AdminDecideBooking godoc
//
//	@Summary		Change a booking's status
//	@Description	Admin override of a booking decision. CANCELLED works on both PENDING and CONFIRMED bookings; CONFIRMED and REJECTED require a PENDING booking.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			bookingID	path		int							true	"Booking ID"
//	@Param			payload		body		AdminDecideBookingPayload	true	"New status"
//	@Success		200			{object}	store.Booking				"Updated booking"
//	@Failure		400			{object}	error						"Bad Request"
//	@Failure		403			{object}	error						"Forbidden"
//	@Failure		404			{object}	error						"Not Found"
//	@Failure		409			{object}	error						"Conflict or invalid transition"
//	@Failure		500			{object}	error						"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/admin/bookings/{bookingID}/status [patch]
func (app *application) adminDecideBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload AdminDecideBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	status := availability.BookingStatus(payload.Status)

	// Cancellation bypasses the pending-only guard so admins can void
	// confirmed bookings too.
	if status == availability.StatusCancelled {
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

		if err := app.store.Bookings.Cancel(r.Context(), booking.VenueID, bookingID); err != nil {
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

		booking.Status = availability.StatusCancelled
		app.notifyRequester(booking)

		if err := app.jsonResponse(w, http.StatusOK, booking); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	updated, err := app.store.Bookings.Decide(r.Context(), store.Decision{
		BookingID: bookingID,
		Status:    status,
		AdminNote: payload.Note,
	})
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

// AdminVenueStatusPayload switches a venue between ACTIVE and SUSPENDED.
type AdminVenueStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED"`
}

// AdminVenueStatus godoc
//
//	@Summary		Activate or suspend a venue
//	@Description	Suspended venues disappear from public listings and stop taking bookings. Admin only.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int						true	"Venue ID"
//	@Param			payload	body		AdminVenueStatusPayload	true	"New status"
//	@Success		200		{object}	map[string]string		"Status updated"
//	@Failure		400		{object}	error					"Bad Request"
//	@Failure		403		{object}	error					"Forbidden"
//	@Failure		404		{object}	error					"Not Found"
//	@Failure		500		{object}	error					"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/admin/venues/{venueID}/status [patch]
func (app *application) adminVenueStatusHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload AdminVenueStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Venues.SetStatus(r.Context(), venueID, store.VenueStatus(payload.Status)); err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "venue status updated"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
