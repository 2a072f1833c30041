package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripwit/internal/domain"
)

// DayRepo defines the persistence operations for the days of a trip.
// Days are written only by TripRepo: created with their trip and reconciled
// by TripRepo.UpdateWithDays.
type DayRepo interface {
	// GetByID retrieves a single day, scoped to the given tripID.
	// Returns domain.ErrNotFound if no such day exists under that trip.
	GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error)

	// ListByTripID returns all days of a trip ordered by date.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error)
}

// pgDayRepo is the Postgres implementation of DayRepo.
type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

const dayColumns = `id, trip_id, date, day_number, notes`

func (r *pgDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error) {
	const q = `SELECT ` + dayColumns + ` FROM days WHERE id = @id AND trip_id = @trip_id`

	d, err := scanDay(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID}))
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.GetByID: %w", err)
	}
	return d, nil
}

func (r *pgDayRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error) {
	const q = `SELECT ` + dayColumns + ` FROM days WHERE trip_id = @trip_id ORDER BY date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	days := []domain.Day{}
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayRepo.ListByTripID: scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: rows: %w", err)
	}
	return days, nil
}

// applyDaySync deletes, renumbers and inserts days of tripID as described by
// sync and days. Callers run it inside a transaction.
func applyDaySync(ctx context.Context, tx pgx.Tx, tripID uuid.UUID, sync domain.DaySyncResult, days []domain.Day) error {
	const (
		del = `DELETE FROM days WHERE id = @id AND trip_id = @trip_id`
		upd = `UPDATE days SET day_number = @day_number WHERE id = @id AND trip_id = @trip_id`
	)

	// Deletes go first so an inserted day never collides with a removed
	// day on (trip_id, date).
	for _, id := range sync.RemoveDayIDs.Sorted() {
		if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"id": id, "trip_id": tripID}); err != nil {
			return fmt.Errorf("delete day %s: %w", id, err)
		}
	}

	var added []domain.Day
	for _, d := range days {
		if !sync.KeepDayIDs.Has(d.ID) {
			d.TripID = tripID
			added = append(added, d)
			continue
		}
		tag, err := tx.Exec(ctx, upd, pgx.NamedArgs{"id": d.ID, "trip_id": tripID, "day_number": d.DayNumber})
		if err != nil {
			return fmt.Errorf("renumber day %s: %w", d.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("renumber day %s: %w", d.ID, domain.ErrNotFound)
		}
	}

	return insertDays(ctx, tx, added)
}

// insertDays writes one row per day. Callers run it inside a transaction.
func insertDays(ctx context.Context, tx pgx.Tx, days []domain.Day) error {
	const q = `
		INSERT INTO days (id, trip_id, date, day_number, notes)
		VALUES (@id, @trip_id, @date, @day_number, @notes)`

	for _, d := range days {
		args := pgx.NamedArgs{
			"id":         d.ID,
			"trip_id":    d.TripID,
			"date":       dateArg(d.Date),
			"day_number": d.DayNumber,
			"notes":      d.Notes,
		}
		if _, err := tx.Exec(ctx, q, args); err != nil {
			return fmt.Errorf("insert day %s: %w", d.ID, err)
		}
	}
	return nil
}

func scanDay(s scanner) (domain.Day, error) {
	var (
		d      domain.Day
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)
	if err := s.Scan(&id, &tripID, &date, &d.DayNumber, &d.Notes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Day{}, domain.ErrNotFound
		}
		return domain.Day{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	d.Date = date.Time
	return d, nil
}
