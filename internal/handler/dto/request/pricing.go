package request

import (
	"parkspot/internal/pkg/apitime"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePricingRuleRequest struct {
	SlotID    uuid.UUID         `json:"slot_id" binding:"required"`
	StartTime apitime.UTCMillis `json:"start_time"`
	EndTime   apitime.UTCMillis `json:"end_time"`
	Price     decimal.Decimal   `json:"price"`
}

func (r CreatePricingRuleRequest) Validate() error {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return errs.Wrap(ErrMissingField, "start_time and end_time are required")
	}
	if r.Price.IsNegative() {
		return errs.Wrap(ErrMissingField, "price must not be negative")
	}
	return nil
}

func (r CreatePricingRuleRequest) ToParams() commands.CreateRuleParams {
	return commands.CreateRuleParams{
		SlotID:    r.SlotID,
		StartTime: r.StartTime.Time,
		EndTime:   r.EndTime.Time,
		Price:     r.Price,
	}
}
