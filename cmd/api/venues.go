package main

import (
	"fmt"
	"maidan/internal/availability"
	"maidan/internal/store"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type venueKey string

const venueCtx venueKey = "venue"

func getVenueFromContext(r *http.Request) *store.Venue {
	if venue, ok := r.Context().Value(venueCtx).(*store.Venue); ok {
		return venue
	}
	return nil
}

type CreateVenuePayload struct {
	Type                string                    `json:"type" validate:"required,oneof=TURF EVENT_SPACE"`
	Name                string                    `json:"name" validate:"required,max=100"`
	Slug                string                    `json:"slug" validate:"required,max=100,slug"`
	Description         *string                   `json:"description,omitempty" validate:"omitempty,max=2000"`
	City                *string                   `json:"city,omitempty" validate:"omitempty,max=100"`
	Area                *string                   `json:"area,omitempty" validate:"omitempty,max=100"`
	Address             *string                   `json:"address,omitempty" validate:"omitempty,max=255"`
	ThumbnailURL        *string                   `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	SlotDurationMinutes int                       `json:"slot_duration_minutes" validate:"required,gte=15,lte=240"`
	OpeningHours        availability.OpeningHours `json:"opening_hours" validate:"required"`
}

// CreateVenue godoc
//
//	@Summary		Register a venue
//	@Description	Registers a new turf or event space with its weekly opening hours. The authenticated user becomes the owner.
//	@Tags			Venue
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateVenuePayload	true	"Venue details"
//	@Success		201		{object}	store.Venue			"Venue created successfully"
//	@Failure		400		{object}	error				"Invalid request payload"
//	@Failure		401		{object}	error				"Unauthorized"
//	@Failure		409		{object}	error				"Slug already taken"
//	@Failure		500		{object}	error				"Internal server error"
//	@Security		ApiKeyAuth
//	@Router			/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := payload.OpeningHours.Validate(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	venue := &store.Venue{
		OwnerID:             user.ID,
		Type:                store.VenueType(payload.Type),
		Name:                payload.Name,
		Slug:                payload.Slug,
		Description:         payload.Description,
		City:                payload.City,
		Area:                payload.Area,
		Address:             payload.Address,
		ThumbnailURL:        payload.ThumbnailURL,
		SlotDurationMinutes: payload.SlotDurationMinutes,
		OpeningHours:        payload.OpeningHours,
		Status:              store.VenueActive,
	}

	if err := app.store.Venues.Create(r.Context(), venue); err != nil {
		switch err {
		case store.ErrDuplicateSlug:
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListVenues godoc
//
//	@Summary		List venues
//	@Description	Lists active venues for browsing
//	@Tags			Venue
//	@Produce		json
//	@Param			limit	query		int			false	"Page size (default 20, max 100)"
//	@Success		200		{array}		store.Venue	"Venues"
//	@Failure		500		{object}	error		"Internal Server Error"
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	venues, err := app.store.Venues.List(r.Context(), true, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venues); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetVenueBySlug godoc
//
//	@Summary		Get a venue by slug
//	@Description	Returns one active venue's public detail page data
//	@Tags			Venue
//	@Produce		json
//	@Param			slug	path		string		true	"Venue slug"
//	@Success		200		{object}	store.Venue	"Venue"
//	@Failure		404		{object}	error		"Not Found"
//	@Failure		500		{object}	error		"Internal Server Error"
//	@Router			/venues/slug/{slug} [get]
func (app *application) getVenueBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	venue, err := app.store.Venues.GetBySlug(r.Context(), slug)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateVenuePayload struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Area         *string `json:"area,omitempty" validate:"omitempty,max=100"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=255"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
}

// UpdateVenueInfo godoc
//
//	@Summary		Update venue information
//	@Description	Updates any combination of a venue's descriptive fields. Only the owner or an admin may call this.
//	@Tags			Venue
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			payload	body		UpdateVenuePayload	true	"Fields to update"
//	@Success		200		{object}	map[string]string	"Venue updated"
//	@Failure		400		{object}	error				"Bad Request"
//	@Failure		403		{object}	error				"Forbidden"
//	@Failure		404		{object}	error				"Not Found"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID} [patch]
func (app *application) updateVenueInfoHandler(w http.ResponseWriter, r *http.Request) {
	venue := getVenueFromContext(r)

	var payload UpdateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.City != nil {
		updates["city"] = *payload.City
	}
	if payload.Area != nil {
		updates["area"] = *payload.Area
	}
	if payload.Address != nil {
		updates["address"] = *payload.Address
	}
	if payload.ThumbnailURL != nil {
		updates["thumbnail_url"] = *payload.ThumbnailURL
	}

	if len(updates) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no fields to update"))
		return
	}

	if err := app.store.Venues.Update(r.Context(), venue.ID, updates); err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "venue updated"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateOpeningHoursPayload struct {
	SlotDurationMinutes int                       `json:"slot_duration_minutes" validate:"required,gte=15,lte=240"`
	OpeningHours        availability.OpeningHours `json:"opening_hours" validate:"required"`
}

// UpdateOpeningHours godoc
//
//	@Summary		Replace a venue's weekly schedule
//	@Description	Replaces the venue's opening hours and slot duration in one call. Existing bookings are not touched.
//	@Tags			Venue
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int							true	"Venue ID"
//	@Param			payload	body		UpdateOpeningHoursPayload	true	"New schedule"
//	@Success		200		{object}	map[string]string			"Schedule updated"
//	@Failure		400		{object}	error						"Bad Request"
//	@Failure		403		{object}	error						"Forbidden"
//	@Failure		500		{object}	error						"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/opening-hours [put]
func (app *application) updateOpeningHoursHandler(w http.ResponseWriter, r *http.Request) {
	venue := getVenueFromContext(r)

	var payload UpdateOpeningHoursPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := payload.OpeningHours.Validate(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Venues.UpdateSchedule(r.Context(), venue.ID, payload.OpeningHours, payload.SlotDurationMinutes); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "schedule updated"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UploadVenuePhoto godoc
//
//	@Summary		Upload a venue photo
//	@Description	Uploads a photo to Cloudinary and appends its URL to the venue's gallery
//	@Tags			Venue
//	@Accept			mpfd
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			photo	formData	file				true	"Photo file, size limit 5MB"
//	@Success		201		{object}	map[string]string	"Photo uploaded"
//	@Failure		400		{object}	error				"Bad Request"
//	@Failure		403		{object}	error				"Forbidden"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [post]
func (app *application) uploadVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	venue := getVenueFromContext(r)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("unable to parse form: %w", err))
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("unable to retrieve file: %w", err))
		return
	}
	defer file.Close()

	url, err := app.uploadVenuePhoto(file, venue.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Venues.AddPhotoURL(r.Context(), venue.ID, url); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{"photo_url": url}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DeleteVenuePhoto godoc
//
//	@Summary		Delete a venue photo
//	@Description	Deletes a specific venue photo from Cloudinary and removes it from the database.
//	@Tags			Venue
//	@Accept			json
//	@Produce		json
//	@Param			venueID		path		int					true	"Venue ID"
//	@Param			photo_url	query		string				true	"Photo URL to delete"
//	@Success		200			{object}	map[string]string	"Photo deleted successfully"
//	@Failure		400			{object}	error				"Bad Request: Missing venue ID or photo URL"
//	@Failure		500			{object}	error				"Internal Server Error: Could not delete photo"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [delete]
func (app *application) deleteVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	venue := getVenueFromContext(r)

	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, fmt.Errorf("missing photo_url"))
		return
	}

	if err := app.deletePhotoFromCloudinary(photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Venues.RemovePhotoURL(r.Context(), venue.ID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "photo deleted"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
