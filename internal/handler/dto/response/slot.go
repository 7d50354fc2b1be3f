package response

import (
	"parkspot/internal/pkg/apitime"
	"parkspot/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SlotResponse struct {
	ID                  uuid.UUID         `json:"id"`
	FloorNo             int               `json:"floor_no"`
	SlotNumber          int               `json:"slot_number"`
	HasCharger          bool              `json:"has_charger"`
	PhysicallyAvailable bool              `json:"physically_available"`
	StandardPrice       decimal.Decimal   `json:"standard_price"`
	CreatedAt           apitime.UTCMillis `json:"created_at"`
	UpdatedAt           apitime.UTCMillis `json:"updated_at"`
}

type PricingRuleResponse struct {
	ID        uuid.UUID         `json:"id"`
	SlotID    uuid.UUID         `json:"slot_id"`
	StartTime apitime.UTCMillis `json:"start_time"`
	EndTime   apitime.UTCMillis `json:"end_time"`
	Price     decimal.Decimal   `json:"price"`
	Active    bool              `json:"active"`
	CreatedAt apitime.UTCMillis `json:"created_at"`
}

type AvailabilityResponse struct {
	SlotID    uuid.UUID          `json:"slot_id"`
	At        *apitime.UTCMillis `json:"at,omitempty"`
	Available bool               `json:"available"`
}

func FromSlotView(rm *queries.SlotView) *SlotResponse {
	return &SlotResponse{
		ID:                  rm.ID,
		FloorNo:             rm.FloorNo,
		SlotNumber:          rm.SlotNumber,
		HasCharger:          rm.HasCharger,
		PhysicallyAvailable: rm.PhysicallyAvailable,
		StandardPrice:       rm.StandardPrice,
		CreatedAt:           apitime.UTCMillis{Time: rm.CreatedAt},
		UpdatedAt:           apitime.UTCMillis{Time: rm.UpdatedAt},
	}
}

func FromPricingRuleView(rm *queries.PricingRuleView) *PricingRuleResponse {
	return &PricingRuleResponse{
		ID:        rm.ID,
		SlotID:    rm.SlotID,
		StartTime: apitime.UTCMillis{Time: rm.StartTime},
		EndTime:   apitime.UTCMillis{Time: rm.EndTime},
		Price:     rm.Price,
		Active:    rm.Active,
		CreatedAt: apitime.UTCMillis{Time: rm.CreatedAt},
	}
}
