package request

import (
	"parkspot/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

type CreateSlotRequest struct {
	FloorNo             int             `json:"floor_no"`
	SlotNumber          int             `json:"slot_number" binding:"required"`
	HasCharger          bool            `json:"has_charger"`
	PhysicallyAvailable *bool           `json:"physically_available,omitempty"`
	StandardPrice       decimal.Decimal `json:"standard_price"`
}

func (r CreateSlotRequest) ToParams() commands.CreateSlotParams {
	// New slots accept bookings unless explicitly flagged otherwise.
	available := true
	if r.PhysicallyAvailable != nil {
		available = *r.PhysicallyAvailable
	}
	return commands.CreateSlotParams{
		FloorNo:             r.FloorNo,
		SlotNumber:          r.SlotNumber,
		HasCharger:          r.HasCharger,
		PhysicallyAvailable: available,
		StandardPrice:       r.StandardPrice,
	}
}

type SetAvailabilityRequest struct {
	PhysicallyAvailable *bool `json:"physically_available" binding:"required"`
}
