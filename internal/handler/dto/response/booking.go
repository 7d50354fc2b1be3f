package response

import (
	"parkspot/internal/pkg/apitime"
	"parkspot/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID          uuid.UUID         `json:"id"`
	SlotID      uuid.UUID         `json:"slot_id"`
	RequesterID uuid.UUID         `json:"requester_id"`
	StartTime   apitime.UTCMillis `json:"start_time"`
	EndTime     apitime.UTCMillis `json:"end_time"`
	Price       decimal.Decimal   `json:"price"`
	CreatedAt   apitime.UTCMillis `json:"created_at"`
	UpdatedAt   apitime.UTCMillis `json:"updated_at"`
}

type BookingListResponse struct {
	ID        uuid.UUID         `json:"id"`
	SlotID    uuid.UUID         `json:"slot_id"`
	StartTime apitime.UTCMillis `json:"start_time"`
	EndTime   apitime.UTCMillis `json:"end_time"`
	Price     decimal.Decimal   `json:"price"`
	CreatedAt apitime.UTCMillis `json:"created_at"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:          rm.ID,
		SlotID:      rm.SlotID,
		RequesterID: rm.RequesterID,
		StartTime:   apitime.UTCMillis{Time: rm.StartTime},
		EndTime:     apitime.UTCMillis{Time: rm.EndTime},
		Price:       rm.Price,
		CreatedAt:   apitime.UTCMillis{Time: rm.CreatedAt},
		UpdatedAt:   apitime.UTCMillis{Time: rm.UpdatedAt},
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:        rm.ID,
		SlotID:    rm.SlotID,
		StartTime: apitime.UTCMillis{Time: rm.StartTime},
		EndTime:   apitime.UTCMillis{Time: rm.EndTime},
		Price:     rm.Price,
		CreatedAt: apitime.UTCMillis{Time: rm.CreatedAt},
	}
}
