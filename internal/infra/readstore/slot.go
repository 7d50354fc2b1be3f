package readstore

import (
	"context"
	"time"

	"parkspot/internal/infra"
	"parkspot/internal/infra/db"
	"parkspot/internal/pkg/pgconv"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

const findSlotByIDSQL = `
SELECT id, floor_no, slot_number, has_charger, physically_available, standard_price, created_at, updated_at
FROM parking_slots
WHERE id = $1`

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	row := r.db.QueryRow(ctx, findSlotByIDSQL, id)

	view, err := scanSlotView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}
	return view, nil
}

// Availability is derived at read time: the hardware flag must be set and no
// booking interval may contain `at` (half-open, so end_time itself is free).
const listAvailableSlotsSQL = `
SELECT s.id, s.floor_no, s.slot_number, s.has_charger, s.physically_available, s.standard_price, s.created_at, s.updated_at
FROM parking_slots s
WHERE s.physically_available
  AND ($2::boolean IS NULL OR s.has_charger = $2)
  AND NOT EXISTS (
    SELECT 1 FROM bookings b
    WHERE b.slot_id = s.id
      AND b.start_time <= $1
      AND $1 < b.end_time
  )
ORDER BY s.floor_no, s.slot_number`

func (r *SlotReadStore) ListAvailable(ctx context.Context, at time.Time, hasCharger *bool) ([]*queries.SlotView, error) {
	charger := pgtype.Bool{Valid: false}
	if hasCharger != nil {
		charger = pgtype.Bool{Bool: *hasCharger, Valid: true}
	}

	rows, err := r.db.Query(ctx, listAvailableSlotsSQL, at, charger)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list available slots", err)
	}
	defer rows.Close()

	var result []*queries.SlotView
	for rows.Next() {
		view, scanErr := scanSlotView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", scanErr)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot rows", err)
	}

	return result, nil
}

const isSlotAvailableSQL = `
SELECT s.physically_available
  AND NOT EXISTS (
    SELECT 1 FROM bookings b
    WHERE b.slot_id = s.id
      AND b.start_time <= $2
      AND $2 < b.end_time
  )
FROM parking_slots s
WHERE s.id = $1`

func (r *SlotReadStore) IsAvailable(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	var available bool
	err := r.db.QueryRow(ctx, isSlotAvailableSQL, id, at).Scan(&available)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return false, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return false, infra.WrapRepoErr("failed to check slot availability", err)
	}
	return available, nil
}

const listRulesBySlotSQL = `
SELECT id, slot_id, start_time, end_time, price, active, created_at
FROM pricing_rules
WHERE slot_id = $1
ORDER BY created_at DESC, id DESC`

func (r *SlotReadStore) ListRules(ctx context.Context, slotID uuid.UUID) ([]*queries.PricingRuleView, error) {
	rows, err := r.db.Query(ctx, listRulesBySlotSQL, slotID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list pricing rules", err)
	}
	defer rows.Close()

	var result []*queries.PricingRuleView
	for rows.Next() {
		var (
			view      queries.PricingRuleView
			price     pgtype.Numeric
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&view.ID, &view.SlotID, &view.StartTime, &view.EndTime, &price, &view.Active, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan pricing rule row", err)
		}
		if view.Price, err = pgconv.DecimalFromNumeric(price); err != nil {
			return nil, infra.WrapRepoErr("failed to decode pricing rule price", err)
		}
		view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate pricing rule rows", err)
	}

	return result, nil
}

const findSlotSnapshotSQL = `
SELECT id, floor_no, slot_number, has_charger, physically_available, standard_price
FROM parking_slots
WHERE id = $1`

func (r *SlotReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	var (
		snap  shared.SlotSnapshot
		price pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, findSlotSnapshotSQL, id).
		Scan(&snap.ID, &snap.FloorNo, &snap.SlotNumber, &snap.HasCharger, &snap.PhysicallyAvailable, &price)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot snapshot", err)
	}
	if snap.StandardPrice, err = pgconv.DecimalFromNumeric(price); err != nil {
		return nil, infra.WrapRepoErr("failed to decode slot price", err)
	}
	return &snap, nil
}

func scanSlotView(row rowScanner) (*queries.SlotView, error) {
	var (
		view      queries.SlotView
		price     pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&view.ID, &view.FloorNo, &view.SlotNumber, &view.HasCharger, &view.PhysicallyAvailable, &price, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if view.StandardPrice, err = pgconv.DecimalFromNumeric(price); err != nil {
		return nil, err
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
