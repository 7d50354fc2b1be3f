package readstore

import (
	"context"

	"parkspot/internal/domain/booking"
	"parkspot/internal/domain/pricing"
	"parkspot/internal/infra"
	"parkspot/internal/infra/db"
	"parkspot/internal/pkg/pgconv"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PricingRuleReadStore struct {
	db db.DBTX
}

func NewPricingRuleReadStore(dbtx db.DBTX) *PricingRuleReadStore {
	return &PricingRuleReadStore{db: dbtx}
}

const findActiveRulesBySlotSQL = `
SELECT id, slot_id, start_time, end_time, price, active, created_at
FROM pricing_rules
WHERE slot_id = $1 AND active
ORDER BY created_at DESC, id DESC`

// FindActiveBySlot rehydrates domain rules for price resolution and overlap
// checks on the write path.
func (r *PricingRuleReadStore) FindActiveBySlot(ctx context.Context, slotID uuid.UUID) ([]*pricing.Rule, error) {
	rows, err := r.db.Query(ctx, findActiveRulesBySlotSQL, slotID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find active pricing rules", err)
	}
	defer rows.Close()

	var result []*pricing.Rule
	for rows.Next() {
		snap, scanErr := scanRuleSnapshot(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan pricing rule row", scanErr)
		}
		iv := booking.ReconstructInterval(snap.StartTime, snap.EndTime)
		result = append(result, pricing.ReconstructRule(snap.ID, snap.SlotID, iv, snap.Price, snap.Active, snap.CreatedAt))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate pricing rule rows", err)
	}

	return result, nil
}

const findRuleByIDSQL = `
SELECT id, slot_id, start_time, end_time, price, active, created_at
FROM pricing_rules
WHERE id = $1`

func (r *PricingRuleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.RuleSnapshot, error) {
	snap, err := scanRuleSnapshot(r.db.QueryRow(ctx, findRuleByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("pricing rule not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find pricing rule by ID", err)
	}
	return snap, nil
}

func scanRuleSnapshot(row rowScanner) (*shared.RuleSnapshot, error) {
	var (
		snap      shared.RuleSnapshot
		price     pgtype.Numeric
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&snap.ID, &snap.SlotID, &snap.StartTime, &snap.EndTime, &price, &snap.Active, &createdAt); err != nil {
		return nil, err
	}
	dec, err := pgconv.DecimalFromNumeric(price)
	if err != nil {
		return nil, err
	}
	snap.Price = dec
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &snap, nil
}
