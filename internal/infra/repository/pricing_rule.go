package repository

import (
	"context"

	"parkspot/internal/domain/pricing"
	"parkspot/internal/infra"
	"parkspot/internal/infra/db"
	"parkspot/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type PricingRuleRepository struct{}

func NewPricingRuleRepository() *PricingRuleRepository {
	return &PricingRuleRepository{}
}

const createRuleSQL = `
INSERT INTO pricing_rules (id, slot_id, start_time, end_time, price, active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

func (r *PricingRuleRepository) Create(ctx context.Context, dbtx db.DBTX, rule *pricing.Rule) (uuid.UUID, error) {
	iv := rule.Interval()

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createRuleSQL,
		rule.ID(),
		rule.SlotID(),
		iv.Start(),
		iv.End(),
		pgconv.DecimalToNumeric(rule.Price()),
		rule.Active(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create pricing rule", err, infra.KindFromPgError(err))
	}

	return id, nil
}

func (r *PricingRuleRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM pricing_rules WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete pricing rule", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("pricing rule not found", nil, infra.KindNotFound)
	}
	return nil
}
