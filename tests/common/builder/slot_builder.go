//go:build unit || e2e

package builder

import (
	"time"

	domslot "parkspot/internal/domain/slot"
	reqdto "parkspot/internal/handler/dto/request"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SlotBuilder struct {
	FloorNo             int
	SlotNumber          int
	HasCharger          bool
	PhysicallyAvailable bool
	StandardPrice       decimal.Decimal
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func NewSlotBuilder() *SlotBuilder {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &SlotBuilder{
		FloorNo:             1,
		SlotNumber:          12,
		HasCharger:          false,
		PhysicallyAvailable: true,
		StandardPrice:       decimal.NewFromInt(300),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (s *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(s)
	return s
}

func (s *SlotBuilder) BuildDomain() (*domslot.Slot, error) {
	return domslot.NewSlot(s.FloorNo, s.SlotNumber, s.HasCharger, s.PhysicallyAvailable, s.StandardPrice)
}

func (s *SlotBuilder) BuildCreateRequestDTO() reqdto.CreateSlotRequest {
	available := s.PhysicallyAvailable
	return reqdto.CreateSlotRequest{
		FloorNo:             s.FloorNo,
		SlotNumber:          s.SlotNumber,
		HasCharger:          s.HasCharger,
		PhysicallyAvailable: &available,
		StandardPrice:       s.StandardPrice,
	}
}

func (s *SlotBuilder) BuildViewQuery() *queries.SlotView {
	return &queries.SlotView{
		ID:                  uuid.New(),
		FloorNo:             s.FloorNo,
		SlotNumber:          s.SlotNumber,
		HasCharger:          s.HasCharger,
		PhysicallyAvailable: s.PhysicallyAvailable,
		StandardPrice:       s.StandardPrice,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (s *SlotBuilder) BuildSnapshot() *shared.SlotSnapshot {
	return &shared.SlotSnapshot{
		ID:                  uuid.New(),
		FloorNo:             s.FloorNo,
		SlotNumber:          s.SlotNumber,
		HasCharger:          s.HasCharger,
		PhysicallyAvailable: s.PhysicallyAvailable,
		StandardPrice:       s.StandardPrice,
	}
}
