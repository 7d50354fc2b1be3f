package readstore

import (
	"context"

	"parkspot/internal/domain/booking"
	"parkspot/internal/infra"
	"parkspot/internal/infra/db"
	"parkspot/internal/pkg/pgconv"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const findBookingByIDSQL = `
SELECT id, slot_id, requester_id, start_time, end_time, price, created_at, updated_at
FROM bookings
WHERE id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, findBookingByIDSQL, id)

	var (
		view      queries.BookingView
		price     pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&view.ID, &view.SlotID, &view.RequesterID, &view.StartTime, &view.EndTime, &price, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	if view.Price, err = pgconv.DecimalFromNumeric(price); err != nil {
		return nil, infra.WrapRepoErr("failed to decode booking price", err)
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

const findBookingsByRequesterSQL = `
SELECT id, slot_id, start_time, end_time, price, created_at
FROM bookings
WHERE requester_id = $1
ORDER BY start_time DESC, id DESC`

func (r *BookingReadStore) FindByRequester(ctx context.Context, requesterID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, findBookingsByRequesterSQL, requesterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by requester", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var (
			item      queries.BookingListItem
			price     pgtype.Numeric
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.SlotID, &item.StartTime, &item.EndTime, &price, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		if item.Price, err = pgconv.DecimalFromNumeric(price); err != nil {
			return nil, infra.WrapRepoErr("failed to decode booking price", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}

	return result, nil
}

const findBookingSnapshotSQL = `
SELECT id, slot_id, requester_id, start_time, end_time, price
FROM bookings
WHERE id = $1`

func (r *BookingReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	row := r.db.QueryRow(ctx, findBookingSnapshotSQL, id)

	snap, err := scanBookingSnapshot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking snapshot", err)
	}
	return snap, nil
}

// The half-open overlap rule in SQL: existing.start < new.end AND
// new.start < existing.end. Touching endpoints do not overlap.
const findOverlappingBookingsSQL = `
SELECT id, slot_id, requester_id, start_time, end_time, price
FROM bookings
WHERE slot_id = $1
  AND start_time < $3
  AND $2 < end_time
  AND ($4::uuid IS NULL OR id <> $4)`

func (r *BookingReadStore) FindOverlapping(ctx context.Context, slotID uuid.UUID, iv booking.Interval, excludeID *uuid.UUID) ([]*shared.BookingSnapshot, error) {
	rows, err := r.db.Query(ctx, findOverlappingBookingsSQL, slotID, iv.Start(), iv.End(), pgconv.UUIDPtrToPgtype(excludeID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan for overlapping bookings", err)
	}
	defer rows.Close()

	var result []*shared.BookingSnapshot
	for rows.Next() {
		snap, scanErr := scanBookingSnapshot(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan overlapping booking row", scanErr)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate overlapping booking rows", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingSnapshot(row rowScanner) (*shared.BookingSnapshot, error) {
	var (
		snap  shared.BookingSnapshot
		price pgtype.Numeric
	)
	if err := row.Scan(&snap.ID, &snap.SlotID, &snap.RequesterID, &snap.StartTime, &snap.EndTime, &price); err != nil {
		return nil, err
	}
	dec, err := pgconv.DecimalFromNumeric(price)
	if err != nil {
		return nil, err
	}
	snap.Price = dec
	return &snap, nil
}
