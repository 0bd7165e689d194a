package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"maidan/internal/availability"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/speps/go-hashids/v2"
)

// Booking is a transactional record. Exactly one of UserID or the guest pair
// is present; the snapshot columns capture the requester's contact info at
// creation time so later display does not depend on a mutable profile.
type Booking struct {
	ID            int64                      `json:"id"`
	Ref           string                     `json:"ref"`
	VenueID       int64                      `json:"venue_id"`
	OwnerID       int64                      `json:"owner_id"`
	UserID        *int64                     `json:"user_id,omitempty"`
	GuestName     *string                    `json:"guest_name,omitempty"`
	GuestPhone    *string                    `json:"guest_phone,omitempty"`
	SnapshotName  *string                    `json:"snapshot_name,omitempty"`
	SnapshotEmail *string                    `json:"snapshot_email,omitempty"`
	SnapshotPhone *string                    `json:"snapshot_phone,omitempty"`
	StartTime     time.Time                  `json:"start_time"`
	EndTime       time.Time                  `json:"end_time"`
	Status        availability.BookingStatus `json:"status"`
	Note          *string                    `json:"note,omitempty"`
	OwnerNote     *string                    `json:"owner_note,omitempty"`
	AdminNote     *string                    `json:"admin_note,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// Decision carries one owner/admin decision through the store. Notes are
// request-scoped here instead of living in any shared map.
type Decision struct {
	BookingID int64
	Status    availability.BookingStatus
	OwnerNote *string
	AdminNote *string
}

type BookingFilter struct {
	Status *availability.BookingStatus
	Page   int
	Limit  int
}

type BookingsStore struct {
	db   *pgxpool.Pool
	refs *hashids.HashID
}

func NewBookingsStore(db *pgxpool.Pool) *BookingsStore {
	hd := hashids.NewData()
	hd.Salt = "maidan-booking-ref"
	hd.MinLength = 8
	h, _ := hashids.NewWithData(hd)
	return &BookingsStore{db: db, refs: h}
}

// refFor derives the short human-readable reference shown on tickets and in
// notification bodies.
func (s *BookingsStore) refFor(id int64) string {
	ref, err := s.refs.EncodeInt64([]int64{id})
	if err != nil {
		return fmt.Sprintf("B%d", id)
	}
	return ref
}

// CreateIfFree inserts a PENDING booking only if no blocking booking for the
// same venue overlaps [start, end). Check and insert are one statement, so
// two concurrent requests for the same range cannot both pass the guard.
func (s *BookingsStore) CreateIfFree(ctx context.Context, b *Booking) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO bookings
		  (venue_id, owner_id, user_id, guest_name, guest_phone,
		   snapshot_name, snapshot_email, snapshot_phone,
		   start_time, end_time, status, note)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'PENDING', $11
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE venue_id = $1
			  AND status IN ('PENDING', 'CONFIRMED')
			  AND start_time < $10
			  AND end_time > $9
		)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRow(ctx, query,
		b.VenueID,
		b.OwnerID,
		b.UserID,
		b.GuestName,
		b.GuestPhone,
		b.SnapshotName,
		b.SnapshotEmail,
		b.SnapshotPhone,
		b.StartTime,
		b.EndTime,
		b.Note,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}

	b.Status = availability.StatusPending
	b.Ref = s.refFor(b.ID)
	_, err = s.db.Exec(ctx, `UPDATE bookings SET ref = $1 WHERE id = $2`, b.Ref, b.ID)
	return err
}

// bookingColumns builds the select list, optionally qualified with a table
// alias for statements that join or self-reference.
func bookingColumns(alias string) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	cols := []string{
		"id", "COALESCE(" + p + "ref, '')", "venue_id", "owner_id", "user_id",
		"guest_name", "guest_phone",
		"snapshot_name", "snapshot_email", "snapshot_phone",
		"start_time", "end_time", "status", "note", "owner_note", "admin_note",
		"created_at", "updated_at",
	}
	for i, c := range cols {
		if !strings.HasPrefix(c, "COALESCE") {
			cols[i] = p + c
		}
	}
	return strings.Join(cols, ", ")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.Ref,
		&b.VenueID,
		&b.OwnerID,
		&b.UserID,
		&b.GuestName,
		&b.GuestPhone,
		&b.SnapshotName,
		&b.SnapshotEmail,
		&b.SnapshotPhone,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.Note,
		&b.OwnerNote,
		&b.AdminNote,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *BookingsStore) GetByID(ctx context.Context, bookingID int64) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + bookingColumns("") + ` FROM bookings WHERE id = $1`
	return scanBooking(s.db.QueryRow(ctx, query, bookingID))
}

// GetBlockingForWindow returns the PENDING/CONFIRMED bookings whose interval
// intersects [from, to), as bare intervals for the availability filter.
func (s *BookingsStore) GetBlockingForWindow(ctx context.Context, venueID int64, from, to time.Time) ([]availability.Interval, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT start_time, end_time, status
		FROM bookings
		WHERE venue_id = $1
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`
	rows, err := s.db.Query(ctx, query, venueID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.Interval
	for rows.Next() {
		var iv availability.Interval
		if err := rows.Scan(&iv.Start, &iv.End, &iv.Status); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// Decide finalizes a PENDING booking. For CONFIRMED the statement re-checks
// that no other blocking booking overlaps, excluding the booking itself;
// rejecting or cancelling needs no overlap guard. The status precondition and
// the conflict re-check run inside the UPDATE, so a stale read cannot slip a
// second confirmation through.
func (s *BookingsStore) Decide(ctx context.Context, d Decision) (*Booking, error) {
	if !availability.StatusPending.CanTransitionTo(d.Status) {
		return nil, fmt.Errorf("cannot decide to %s: %w", d.Status, ErrNotPending)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	requireFree := d.Status == availability.StatusConfirmed

	query := `
		UPDATE bookings b
		SET status     = $2,
		    owner_note = COALESCE($3, owner_note),
		    admin_note = COALESCE($4, admin_note),
		    updated_at = NOW()
		WHERE b.id = $1
		  AND b.status = 'PENDING'
		  AND ($5::boolean = FALSE OR NOT EXISTS (
			SELECT 1 FROM bookings o
			WHERE o.venue_id = b.venue_id
			  AND o.id <> b.id
			  AND o.status IN ('PENDING', 'CONFIRMED')
			  AND o.start_time < b.end_time
			  AND o.end_time > b.start_time
		  ))
		RETURNING ` + bookingColumns("b") + `
	`

	booking, err := scanBooking(s.db.QueryRow(ctx, query,
		d.BookingID, d.Status, d.OwnerNote, d.AdminNote, requireFree,
	))
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, ErrNotFound) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}

	// Zero rows updated: distinguish missing / not-pending / conflict.
	current, getErr := s.GetByID(ctx, d.BookingID)
	if getErr != nil {
		return nil, getErr
	}
	if current.Status != availability.StatusPending {
		return nil, ErrNotPending
	}
	return nil, ErrConflict
}

// Cancel moves a booking out of any non-terminal state. Owners and admins
// use it to void both pending requests and confirmed bookings.
func (s *BookingsStore) Cancel(ctx context.Context, venueID, bookingID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE bookings
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND venue_id = $2 AND status IN ('PENDING', 'CONFIRMED')
	`
	tag, err := s.db.Exec(ctx, query, bookingID, venueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if _, err := s.GetByID(ctx, bookingID); err != nil {
		return err
	}
	return ErrAlreadyFinal
}

// ListForOwner returns recent bookings across the owner's venues, newest
// first. A nil ownerID is the admin view over every venue.
// ListForOwner returns bookings newest first. A nil ownerID means all owners
// (the admin view); a non-nil venueID narrows to one venue before the limit
// applies.
func (s *BookingsStore) ListForOwner(ctx context.Context, ownerID, venueID *int64, limit int) ([]Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT ` + bookingColumns("") + `
		FROM bookings
		WHERE ($1::bigint IS NULL OR owner_id = $1)
		  AND ($2::bigint IS NULL OR venue_id = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := s.db.Query(ctx, query, ownerID, venueID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (s *BookingsStore) CountPendingForOwner(ctx context.Context, ownerID *int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT COUNT(*) FROM bookings
		WHERE status = 'PENDING' AND ($1::bigint IS NULL OR owner_id = $1)
	`
	var count int64
	err := s.db.QueryRow(ctx, query, ownerID).Scan(&count)
	return count, err
}

func (s *BookingsStore) ListByUser(ctx context.Context, userID int64, filter BookingFilter) ([]Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT ` + bookingColumns("") + `
		FROM bookings
		WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := s.db.Query(ctx, query,
		userID, filter.Status, filter.Limit, (filter.Page-1)*filter.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
