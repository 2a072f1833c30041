// Package repo contains all database access logic for the TripWit API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripwit/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Tx and
// pgxmock.PgxPoolIface. Accepting this interface instead of *pgxpool.Pool
// lets integration tests pass a transaction that is rolled back after each
// test, and unit tests pass a pgxmock pool.
//
// Begin on a pgx.Tx opens a savepoint, so multi-statement writes stay atomic
// whichever of the three is passed in.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx runs fn inside a transaction opened on conn. The transaction is
// committed when fn returns nil and rolled back otherwise.
func withTx(ctx context.Context, conn db, fn func(tx pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip together with its days and returns the
	// persisted trip (created_at and updated_at populated, Days as given).
	// The trip ID and day IDs are chosen by the caller.
	Create(ctx context.Context, trip domain.Trip, days []domain.Day) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key, without days.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of trips ordered by start_date descending,
	// and the total number of trips across all pages.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Days are not touched. Returns domain.ErrNotFound if no
	// trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// UpdateWithDays overwrites the trip like Update and brings its stored days
	// in line with the new date range, in one transaction. Days in
	// sync.RemoveDayIDs are deleted along with their stops. days is the
	// complete, numbered list of days the trip should end up with: entries
	// whose ID is in sync.KeepDayIDs only have day_number rewritten, every
	// other entry is inserted. Nothing is written if any statement fails.
	UpdateWithDays(ctx context.Context, trip domain.Trip, sync domain.DaySyncResult, days []domain.Day) (domain.Trip, error)

	// Delete removes a trip by ID, cascading to its days, stops and photos.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, name, destination, start_date, end_date, status,
		       cover_photo_asset_id, notes, created_at, updated_at`

// Create inserts the trip row and one row per day in a single transaction.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip, days []domain.Day) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, name, destination, start_date, end_date, status,
		                   cover_photo_asset_id, notes)
		VALUES (@id, @name, @destination, @start_date, @end_date, @status,
		        @cover_photo_asset_id, @notes)
		RETURNING ` + tripColumns

	var result domain.Trip
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = scanTrip(tx.QueryRow(ctx, q, tripArgs(trip)))
		if err != nil {
			return err
		}
		return insertDays(ctx, tx, days)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	result.Days = days
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns a page of trips, most recent start_date first, and the
// overall count. The count comes from a window function so both numbers are
// read in one round trip.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `, count(*) OVER () AS total
		FROM trips
		ORDER BY start_date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	var total int64
	for rows.Next() {
		t, err := scanTripRow(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}

	// A page past the end returns no rows and therefore no window count.
	if len(trips) == 0 && p.Offset() > 0 {
		if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
		}
	}

	return trips, total, nil
}

const updateTripSQL = `
	UPDATE trips
	SET name                 = @name,
	    destination          = @destination,
	    start_date           = @start_date,
	    end_date             = @end_date,
	    status               = @status,
	    cover_photo_asset_id = @cover_photo_asset_id,
	    notes                = @notes,
	    updated_at           = now()
	WHERE id = @id
	RETURNING ` + tripColumns

func tripArgs(trip domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                   trip.ID,
		"name":                 trip.Name,
		"destination":          trip.Destination,
		"start_date":           dateArg(trip.StartDate),
		"end_date":             dateArg(trip.EndDate),
		"status":               string(trip.Status),
		"cover_photo_asset_id": trip.CoverPhotoAssetID, // nil becomes NULL
		"notes":                trip.Notes,
	}
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	result, err := scanTrip(r.db.QueryRow(ctx, updateTripSQL, tripArgs(trip)))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// UpdateWithDays writes the trip row first so a missing trip aborts before
// any day is touched.
func (r *pgTripRepo) UpdateWithDays(ctx context.Context, trip domain.Trip, sync domain.DaySyncResult, days []domain.Day) (domain.Trip, error) {
	var result domain.Trip
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = scanTrip(tx.QueryRow(ctx, updateTripSQL, tripArgs(trip)))
		if err != nil {
			return err
		}
		return applyDaySync(ctx, tx, trip.ID, sync, days)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateWithDays: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	return scanTripRow(s)
}

// scanTripRow scans the trip columns followed by any extra destinations.
// It handles the UUID, DATE and nullable cover photo conversions.
func scanTripRow(s scanner, extra ...any) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		status    string
		cover     pgtype.Text
	)

	dest := []any{&id, &t.Name, &t.Destination, &startDate, &endDate, &status,
		&cover, &t.Notes, &t.CreatedAt, &t.UpdatedAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	st, err := domain.ParseTripStatus(status)
	if err != nil {
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	t.Status = st
	if cover.Valid {
		c := cover.String
		t.CoverPhotoAssetID = &c
	}
	return t, nil
}

// dateArg encodes the wall-clock date of t as a DATE parameter. Encoding
// through pgtype.Date keeps the caller's calendar date whatever zone t is in.
func dateArg(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}
