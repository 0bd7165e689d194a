package main

import (
	"maidan/internal/availability"
	"maidan/internal/store"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type userKey string

const userCtx userKey = "user"

func getUserFromContext(r *http.Request) *store.User {
	if user, ok := r.Context().Value(userCtx).(*store.User); ok {
		return user
	}
	return nil
}

// ActivateUser godoc
//
//	@Summary		Activate user account
//	@Description	Activate a user account using an activation token provided in the URL
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string	true	"Activation token"
//	@Success		204		{string}	string	"User activated"
//	@Failure		404		{object}	error	"User not found"
//	@Failure		500		{object}	error	"Internal server error"
//	@Router			/users/activate/{token} [put]
func (app *application) activateUserHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	err := app.store.Users.Activate(r.Context(), token)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusNoContent, "")
}

// ListMyBookings godoc
//
//	@Summary		List the current user's bookings
//	@Description	Returns the authenticated user's bookings, optionally filtered by status, newest first
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			status	query		string			false	"PENDING, CONFIRMED, REJECTED or CANCELLED"
//	@Param			page	query		int				false	"Page number (default 1)"
//	@Param			limit	query		int				false	"Page size (default 20, max 100)"
//	@Success		200		{array}		store.Booking	"Bookings"
//	@Failure		400		{object}	error			"Bad Request"
//	@Failure		500		{object}	error			"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/users/bookings [get]
func (app *application) listMyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	filter := store.BookingFilter{Page: 1, Limit: 20}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := availability.BookingStatus(statusStr)
		if !status.Valid() {
			writeJSONError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = &status
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	bookings, err := app.store.Bookings.ListByUser(r.Context(), user.ID, filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, bookings); err != nil {
		app.internalServerError(w, r, err)
	}
}
