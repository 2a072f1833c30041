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

// PhotoRepo defines the persistence operations for matched photos.
// Photos belong to a trip; the stop they are matched to may be nil.
type PhotoRepo interface {
	// CreateBatch inserts every photo under tripID in one transaction.
	CreateBatch(ctx context.Context, tripID uuid.UUID, photos []domain.MatchedPhoto) error

	// ListByStopID returns the photos matched to a stop, oldest capture first.
	ListByStopID(ctx context.Context, stopID uuid.UUID) ([]domain.MatchedPhoto, error)

	// ListByTripID returns every photo of a trip, matched or not, oldest
	// capture first.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.MatchedPhoto, error)

	// Assign records a manual assignment of a photo to stopID, or clears the
	// match when stopID is nil. A manual assignment is stored with high
	// confidence and a cleared one with low. Returns domain.ErrNotFound if the
	// photo does not exist under tripID.
	Assign(ctx context.Context, tripID, photoID uuid.UUID, stopID *uuid.UUID) (domain.MatchedPhoto, error)
}

// pgPhotoRepo is the Postgres implementation of PhotoRepo.
type pgPhotoRepo struct {
	db db
}

// NewPhotoRepo constructs a PhotoRepo backed by the provided db connection.
func NewPhotoRepo(db db) PhotoRepo {
	return &pgPhotoRepo{db: db}
}

const photoColumns = `id, asset_identifier, latitude, longitude, capture_date,
		       match_confidence, matched_stop_id, is_manually_assigned`

func (r *pgPhotoRepo) CreateBatch(ctx context.Context, tripID uuid.UUID, photos []domain.MatchedPhoto) error {
	const q = `
		INSERT INTO matched_photos (id, trip_id, asset_identifier, latitude, longitude,
		                            capture_date, match_confidence, matched_stop_id,
		                            is_manually_assigned)
		VALUES (@id, @trip_id, @asset_identifier, @latitude, @longitude,
		        @capture_date, @match_confidence, @matched_stop_id, @is_manually_assigned)`

	if len(photos) == 0 {
		return nil
	}

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, p := range photos {
			args := pgx.NamedArgs{
				"id":                   p.ID,
				"trip_id":              tripID,
				"asset_identifier":     p.AssetIdentifier,
				"latitude":             p.Location.Latitude,
				"longitude":            p.Location.Longitude,
				"capture_date":         p.CaptureDate,
				"match_confidence":     string(p.MatchConfidence),
				"matched_stop_id":      p.MatchedStopID, // nil becomes NULL
				"is_manually_assigned": p.IsManuallyAssigned,
			}
			if _, err := tx.Exec(ctx, q, args); err != nil {
				return fmt.Errorf("photo %s: %w", p.AssetIdentifier, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.PhotoRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *pgPhotoRepo) ListByStopID(ctx context.Context, stopID uuid.UUID) ([]domain.MatchedPhoto, error) {
	const q = `
		SELECT ` + photoColumns + `
		FROM matched_photos
		WHERE matched_stop_id = @stop_id
		ORDER BY capture_date, id`

	photos, err := r.list(ctx, q, pgx.NamedArgs{"stop_id": stopID})
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByStopID: %w", err)
	}
	return photos, nil
}

func (r *pgPhotoRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.MatchedPhoto, error) {
	const q = `
		SELECT ` + photoColumns + `
		FROM matched_photos
		WHERE trip_id = @trip_id
		ORDER BY capture_date, id`

	photos, err := r.list(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByTripID: %w", err)
	}
	return photos, nil
}

func (r *pgPhotoRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.MatchedPhoto, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []domain.MatchedPhoto{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return photos, nil
}

func (r *pgPhotoRepo) Assign(ctx context.Context, tripID, photoID uuid.UUID, stopID *uuid.UUID) (domain.MatchedPhoto, error) {
	const q = `
		UPDATE matched_photos
		SET matched_stop_id      = @stop_id,
		    match_confidence     = @confidence,
		    is_manually_assigned = true
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + photoColumns

	confidence := domain.ConfidenceHigh
	if stopID == nil {
		confidence = domain.ConfidenceLow
	}

	args := pgx.NamedArgs{
		"id":         photoID,
		"trip_id":    tripID,
		"stop_id":    stopID,
		"confidence": string(confidence),
	}

	p, err := scanPhoto(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.MatchedPhoto{}, fmt.Errorf("repo.PhotoRepo.Assign: %w", err)
	}
	return p, nil
}

func scanPhoto(s scanner) (domain.MatchedPhoto, error) {
	var (
		p          domain.MatchedPhoto
		id         pgtype.UUID
		stopID     pgtype.UUID
		confidence string
	)

	err := s.Scan(&id, &p.AssetIdentifier, &p.Location.Latitude, &p.Location.Longitude,
		&p.CaptureDate, &confidence, &stopID, &p.IsManuallyAssigned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MatchedPhoto{}, domain.ErrNotFound
		}
		return domain.MatchedPhoto{}, err
	}

	c, err := domain.ParseMatchConfidence(confidence)
	if err != nil {
		return domain.MatchedPhoto{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.MatchConfidence = c
	if stopID.Valid {
		sid := uuid.UUID(stopID.Bytes)
		p.MatchedStopID = &sid
	}
	return p, nil
}
