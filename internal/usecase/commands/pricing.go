package commands

import (
	"context"
	"time"

	"parkspot/internal/domain/booking"
	"parkspot/internal/domain/pricing"
	"parkspot/internal/infra"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRuleParams struct {
	SlotID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Price     decimal.Decimal
}

type PricingCommands interface {
	CreateRule(ctx context.Context, params CreateRuleParams) (*queries.PricingRuleView, error)
	DeleteRule(ctx context.Context, ruleID uuid.UUID) error
}

type pricingCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewPricingCommands(uow shared.UnitOfWork) PricingCommands {
	return &pricingCommandsImpl{uow: uow}
}

// CreateRule rejects windows that overlap an existing active rule for the
// slot. The check runs under the same per-slot lock as booking writes, so a
// concurrent rule create cannot slip an overlapping window in between.
func (c *pricingCommandsImpl) CreateRule(ctx context.Context, params CreateRuleParams) (*queries.PricingRuleView, error) {
	iv, err := booking.NewInterval(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	if _, err := c.uow.CommandReads().SlotByID(ctx, params.SlotID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	rule, err := pricing.NewRule(params.SlotID, iv, params.Price)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if lockErr := tx.LockSlot(ctx, params.SlotID); lockErr != nil {
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		existing, readErr := tx.Reads().ActiveRulesBySlot(ctx, params.SlotID)
		if readErr != nil {
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}
		if pricing.ConflictsWith(existing, iv) {
			return ErrRuleOverlap
		}

		if _, createErr := tx.PricingRules().Create(ctx, tx.DB(), rule); createErr != nil {
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write so created_at comes from the committed row.
	snap, err := c.uow.CommandReads().RuleByID(ctx, rule.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &queries.PricingRuleView{
		ID:        snap.ID,
		SlotID:    snap.SlotID,
		StartTime: snap.StartTime,
		EndTime:   snap.EndTime,
		Price:     snap.Price,
		Active:    snap.Active,
		CreatedAt: snap.CreatedAt,
	}, nil
}

func (c *pricingCommandsImpl) DeleteRule(ctx context.Context, ruleID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.PricingRules().Delete(ctx, tx.DB(), ruleID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRuleNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
