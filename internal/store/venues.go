package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"maidan/internal/availability"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type VenueType string

const (
	VenueTurf       VenueType = "TURF"
	VenueEventSpace VenueType = "EVENT_SPACE"
)

type VenueStatus string

const (
	VenueActive    VenueStatus = "ACTIVE"
	VenueSuspended VenueStatus = "SUSPENDED"
)

// Venue is a bookable space. Opening hours live in a JSONB column keyed by
// weekday; slots are always derived from them at query time, never stored.
type Venue struct {
	ID                  int64                     `json:"id"`
	OwnerID             int64                     `json:"owner_id"`
	Type                VenueType                 `json:"type"`
	Name                string                    `json:"name"`
	Slug                string                    `json:"slug"`
	Description         *string                   `json:"description,omitempty"`
	City                *string                   `json:"city,omitempty"`
	Area                *string                   `json:"area,omitempty"`
	Address             *string                   `json:"address,omitempty"`
	ThumbnailURL        *string                   `json:"thumbnail_url,omitempty"`
	ImageURLs           []string                  `json:"image_urls,omitempty"`
	SlotDurationMinutes int                       `json:"slot_duration_minutes"`
	OpeningHours        availability.OpeningHours `json:"opening_hours"`
	Status              VenueStatus               `json:"status"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

type VenuesStore struct {
	db *pgxpool.Pool
}

// Create inserts a new venue. Slug uniqueness is enforced by the venues_slug
// unique index; a violation maps to ErrDuplicateSlug.
func (s *VenuesStore) Create(ctx context.Context, venue *Venue) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	hoursJSON, err := json.Marshal(venue.OpeningHours)
	if err != nil {
		return fmt.Errorf("marshal opening hours: %w", err)
	}

	query := `
		INSERT INTO venues
		  (owner_id, type, name, slug, description, city, area, address,
		   thumbnail_url, image_urls, slot_duration_minutes, opening_hours, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRow(ctx, query,
		venue.OwnerID,
		venue.Type,
		venue.Name,
		venue.Slug,
		venue.Description,
		venue.City,
		venue.Area,
		venue.Address,
		venue.ThumbnailURL,
		pq.Array(venue.ImageURLs),
		venue.SlotDurationMinutes,
		hoursJSON,
		venue.Status,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

const venueColumns = `
	id, owner_id, type, name, slug, description, city, area, address,
	thumbnail_url, image_urls, slot_duration_minutes, opening_hours,
	status, created_at, updated_at
`

func scanVenue(row pgx.Row) (*Venue, error) {
	var v Venue
	var hoursJSON []byte
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Type,
		&v.Name,
		&v.Slug,
		&v.Description,
		&v.City,
		&v.Area,
		&v.Address,
		&v.ThumbnailURL,
		pq.Array(&v.ImageURLs),
		&v.SlotDurationMinutes,
		&hoursJSON,
		&v.Status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(hoursJSON) > 0 {
		if err := json.Unmarshal(hoursJSON, &v.OpeningHours); err != nil {
			return nil, fmt.Errorf("unmarshal opening hours for venue %d: %w", v.ID, err)
		}
	}
	return &v, nil
}

func (s *VenuesStore) GetByID(ctx context.Context, venueID int64) (*Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`
	return scanVenue(s.db.QueryRow(ctx, query, venueID))
}

// GetBySlug resolves the public venue page. Suspended venues are hidden, so
// only ACTIVE rows match.
func (s *VenuesStore) GetBySlug(ctx context.Context, slug string) (*Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + venueColumns + ` FROM venues WHERE slug = $1 AND status = 'ACTIVE'`
	return scanVenue(s.db.QueryRow(ctx, query, slug))
}

func (s *VenuesStore) List(ctx context.Context, onlyActive bool, limit int) ([]Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + venueColumns + ` FROM venues`
	if onlyActive {
		query += ` WHERE status = 'ACTIVE'`
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectVenues(rows)
}

func (s *VenuesStore) ListByOwner(ctx context.Context, ownerID int64) ([]Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + venueColumns + ` FROM venues WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectVenues(rows)
}

func collectVenues(rows pgx.Rows) ([]Venue, error) {
	var out []Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

var venueUpdatableFields = map[string]bool{
	"name":          true,
	"description":   true,
	"city":          true,
	"area":          true,
	"address":       true,
	"thumbnail_url": true,
}

// Update applies a partial update from a whitelisted field map.
func (s *VenuesStore) Update(ctx context.Context, venueID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for field, value := range updates {
		if !venueUpdatableFields[field] {
			return fmt.Errorf("field %q cannot be updated", field)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, i))
		args = append(args, value)
		i++
	}
	args = append(args, venueID)

	query := fmt.Sprintf(
		`UPDATE venues SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(setClauses, ", "), i,
	)

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSchedule replaces the weekly opening hours and slot duration in one
// statement. Callers validate the HH:MM strings before reaching here.
func (s *VenuesStore) UpdateSchedule(ctx context.Context, venueID int64, hours availability.OpeningHours, slotDurationMinutes int) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	hoursJSON, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("marshal opening hours: %w", err)
	}

	query := `
		UPDATE venues
		SET opening_hours = $1, slot_duration_minutes = $2, updated_at = NOW()
		WHERE id = $3
	`
	tag, err := s.db.Exec(ctx, query, hoursJSON, slotDurationMinutes, venueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus is the soft-delete path: venues are suspended, never removed.
func (s *VenuesStore) SetStatus(ctx context.Context, venueID int64, status VenueStatus) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx,
		`UPDATE venues SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, venueID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *VenuesStore) AddPhotoURL(ctx context.Context, venueID int64, url string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE venues
		SET image_urls = array_append(image_urls, $1), updated_at = NOW()
		WHERE id = $2
	`
	tag, err := s.db.Exec(ctx, query, url, venueID)
	if err != nil {
		return fmt.Errorf("failed to add photo URL: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *VenuesStore) RemovePhotoURL(ctx context.Context, venueID int64, url string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE venues
		SET image_urls = array_remove(image_urls, $1), updated_at = NOW()
		WHERE id = $2
	`
	_, err := s.db.Exec(ctx, query, url, venueID)
	if err != nil {
		return fmt.Errorf("failed to remove photo URL: %w", err)
	}
	return nil
}
