package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// StopRepo persists itinerary snapshots. The itinerary store is the source of
// truth for ordering, so the repo only ever loads or replaces a whole trip's
// stop list.
type StopRepo interface {
	// ListByTripID returns all stops for a trip ordered by order_index ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)

	// ReplaceAll deletes the trip's stops and inserts stops in one transaction.
	ReplaceAll(ctx context.Context, tripID uuid.UUID, stops []domain.Stop) error
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

const stopColumns = `id, location_name, location_ref, planned_start, duration_minutes,
		note, order_index, latitude, longitude, status, actual_arrival`

func (r *pgStopRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	q := `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE trip_id = @trip_id
		ORDER BY order_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	stops := []domain.Stop{}
	for rows.Next() {
		st, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByTripID: scan: %w", err)
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByTripID: rows: %w", err)
	}
	return stops, nil
}

func (r *pgStopRepo) ReplaceAll(ctx context.Context, tripID uuid.UUID, stops []domain.Stop) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.StopRepo.ReplaceAll: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM stops WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.StopRepo.ReplaceAll: delete: %w", err)
	}

	const ins = `
		INSERT INTO stops (trip_id, id, location_name, location_ref, planned_start,
			duration_minutes, note, order_index, latitude, longitude, status, actual_arrival)
		VALUES (@trip_id, @id, @location_name, @location_ref, @planned_start,
			@duration_minutes, @note, @order_index, @latitude, @longitude, @status, @actual_arrival)`

	batch := &pgx.Batch{}
	for _, st := range stops {
		batch.Queue(ins, stopArgs(tripID, st))
	}
	br := tx.SendBatch(ctx, batch)
	for i := range stops {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("repo.StopRepo.ReplaceAll: insert %q: %w", stops[i].ID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("repo.StopRepo.ReplaceAll: batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.StopRepo.ReplaceAll: commit: %w", err)
	}
	return nil
}

// stopArgs maps optional domain fields to NULL-able parameters.
func stopArgs(tripID uuid.UUID, st domain.Stop) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"trip_id":          tripID,
		"id":               st.ID,
		"location_name":    st.LocationName,
		"location_ref":     st.LocationRef,
		"planned_start":    st.PlannedStart, // nil becomes NULL
		"duration_minutes": st.DurationMinutes,
		"note":             st.Note,
		"order_index":      st.OrderIndex,
		"latitude":         nil,
		"longitude":        nil,
		"status":           nil,
		"actual_arrival":   st.ActualArrival,
	}
	if st.Coordinates != nil {
		args["latitude"] = st.Coordinates.Lat
		args["longitude"] = st.Coordinates.Lon
	}
	if st.Status != nil {
		args["status"] = string(*st.Status)
	}
	return args
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st            domain.Stop
		plannedStart  pgtype.Int4
		actualArrival pgtype.Int4
		lat, lon      pgtype.Float8
		status        pgtype.Text
	)

	err := s.Scan(&st.ID, &st.LocationName, &st.LocationRef, &plannedStart, &st.DurationMinutes,
		&st.Note, &st.OrderIndex, &lat, &lon, &status, &actualArrival)
	if err != nil {
		return domain.Stop{}, err
	}

	if plannedStart.Valid {
		st.PlannedStart = domain.IntPtr(int(plannedStart.Int32))
	}
	if actualArrival.Valid {
		st.ActualArrival = domain.IntPtr(int(actualArrival.Int32))
	}
	if lat.Valid && lon.Valid {
		st.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}
	if status.Valid {
		v := domain.Status(status.String)
		st.Status = &v
	}
	return st, nil
}
