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

// StopRepo defines the persistence operations for Stops.
// Single-row reads and writes are scoped by dayID to enforce ownership.
type StopRepo interface {
	// Create inserts a new stop at the end of its day and returns the
	// persisted record. stop.SortOrder is ignored.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop by its UUID, scoped to the given dayID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that day.
	GetByID(ctx context.Context, dayID, stopID uuid.UUID) (domain.Stop, error)

	// ListByTripID returns all stops of a trip ordered by day date, then
	// sort_order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)

	// ListByDayID returns the stops of one day ordered by sort_order.
	ListByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.Stop, error)

	// Update overwrites the mutable fields of a stop, scoped to stop.DayID.
	// Sort order is left alone. Returns domain.ErrNotFound if no stop with
	// that ID exists under that day.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop by ID, scoped to the given dayID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that day.
	Delete(ctx context.Context, dayID, stopID uuid.UUID) error

	// Reorder reads the stops of dayID in sort order, passes them to apply and,
	// when apply reports a change, persists the SortOrder of every stop. The day
	// row is locked from the read until the write commits, so concurrent
	// reorders of one day run one after the other and each sees the order the
	// previous one wrote. Returns the stops as apply left them.
	// Returns domain.ErrNotFound if the day does not exist.
	Reorder(ctx context.Context, dayID uuid.UUID, apply func(stops []domain.Stop) bool) ([]domain.Stop, error)
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, day_id, name, latitude, longitude, arrival_time, departure_time,
		       category, notes, sort_order, created_at, updated_at`

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (day_id, name, latitude, longitude, arrival_time, departure_time,
		                   category, notes, sort_order)
		VALUES (@day_id, @name, @latitude, @longitude, @arrival_time, @departure_time,
		        @category, @notes,
		        (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM stops WHERE day_id = @day_id))
		RETURNING ` + stopColumns

	args := stopArgs(stop)

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) GetByID(ctx context.Context, dayID, stopID uuid.UUID) (domain.Stop, error) {
	const q = `SELECT ` + stopColumns + ` FROM stops WHERE id = @id AND day_id = @day_id`

	result, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": stopID, "day_id": dayID}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	const q = `
		SELECT s.id, s.day_id, s.name, s.latitude, s.longitude, s.arrival_time, s.departure_time,
		       s.category, s.notes, s.sort_order, s.created_at, s.updated_at
		FROM stops s
		JOIN days d ON d.id = s.day_id
		WHERE d.trip_id = @trip_id
		ORDER BY d.date, s.sort_order, s.created_at`

	stops, err := listStops(ctx, r.db, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", err)
	}
	return stops, nil
}

const stopsByDaySQL = `
	SELECT ` + stopColumns + `
	FROM stops
	WHERE day_id = @day_id
	ORDER BY sort_order, created_at`

func (r *pgStopRepo) ListByDayID(ctx context.Context, dayID uuid.UUID) ([]domain.Stop, error) {
	stops, err := listStops(ctx, r.db, stopsByDaySQL, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByDayID: %w", err)
	}
	return stops, nil
}

func listStops(ctx context.Context, conn db, q string, args pgx.NamedArgs) ([]domain.Stop, error) {
	rows, err := conn.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return stops, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET name           = @name,
		    latitude       = @latitude,
		    longitude      = @longitude,
		    arrival_time   = @arrival_time,
		    departure_time = @departure_time,
		    category       = @category,
		    notes          = @notes,
		    updated_at     = now()
		WHERE id = @id AND day_id = @day_id
		RETURNING ` + stopColumns

	args := stopArgs(stop)
	args["id"] = stop.ID

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) Delete(ctx context.Context, dayID, stopID uuid.UUID) error {
	const q = `DELETE FROM stops WHERE id = @id AND day_id = @day_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": stopID, "day_id": dayID})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgStopRepo) Reorder(ctx context.Context, dayID uuid.UUID, apply func(stops []domain.Stop) bool) ([]domain.Stop, error) {
	const lock = `SELECT id FROM days WHERE id = @day_id FOR UPDATE`

	var stops []domain.Stop
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var locked pgtype.UUID
		if err := tx.QueryRow(ctx, lock, pgx.NamedArgs{"day_id": dayID}).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock day: %w", err)
		}

		// The day lock is held, so this read sees every reorder committed
		// before it.
		var err error
		stops, err = listStops(ctx, tx, stopsByDaySQL, pgx.NamedArgs{"day_id": dayID})
		if err != nil {
			return err
		}
		if !apply(stops) {
			return nil
		}
		return updateSortOrders(ctx, tx, dayID, stops)
	})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.Reorder: %w", err)
	}
	return stops, nil
}

// updateSortOrders persists SortOrder for every stop given. Callers run it
// inside a transaction. Returns domain.ErrNotFound if any stop is not in dayID.
func updateSortOrders(ctx context.Context, tx pgx.Tx, dayID uuid.UUID, stops []domain.Stop) error {
	const q = `
		UPDATE stops
		SET sort_order = @sort_order,
		    updated_at = now()
		WHERE id = @id AND day_id = @day_id`

	for _, s := range stops {
		tag, err := tx.Exec(ctx, q, pgx.NamedArgs{"id": s.ID, "day_id": dayID, "sort_order": s.SortOrder})
		if err != nil {
			return fmt.Errorf("stop %s: %w", s.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("stop %s: %w", s.ID, domain.ErrNotFound)
		}
	}
	return nil
}

func stopArgs(stop domain.Stop) pgx.NamedArgs {
	return pgx.NamedArgs{
		"day_id":         stop.DayID,
		"name":           stop.Name,
		"latitude":       stop.Location.Latitude,
		"longitude":      stop.Location.Longitude,
		"arrival_time":   stop.ArrivalTime, // nil becomes NULL
		"departure_time": stop.DepartureTime,
		"category":       string(stop.Category),
		"notes":          stop.Notes,
	}
}

// scanStop maps a single database row into a domain.Stop, converting the
// nullable timestamps into pointers.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st        domain.Stop
		id        pgtype.UUID
		dayID     pgtype.UUID
		arrival   pgtype.Timestamptz
		departure pgtype.Timestamptz
		category  string
	)

	err := s.Scan(&id, &dayID, &st.Name, &st.Location.Latitude, &st.Location.Longitude,
		&arrival, &departure, &category, &st.Notes, &st.SortOrder, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}

	cat, err := domain.ParseStopCategory(category)
	if err != nil {
		return domain.Stop{}, err
	}

	st.ID = uuid.UUID(id.Bytes)
	st.DayID = uuid.UUID(dayID.Bytes)
	st.Category = cat
	if arrival.Valid {
		a := arrival.Time
		st.ArrivalTime = &a
	}
	if departure.Valid {
		d := departure.Time
		st.DepartureTime = &d
	}
	return st, nil
}
