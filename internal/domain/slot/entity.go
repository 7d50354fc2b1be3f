package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeStandardPrice = errors.New("standard price cannot be negative")
	ErrInvalidSlotNumber     = errors.New("slot number must be positive")
)

// Slot is the bookable unit: a single parking space. physicallyAvailable is
// a manually toggled hardware-sensor input; it is never derived from bookings
// and never written by availability reads. Whether the slot is free at an
// instant is always computed from the live bookings instead.
type Slot struct {
	id                  uuid.UUID
	floorNo             int
	slotNumber          int
	hasCharger          bool
	physicallyAvailable bool
	standardPrice       decimal.Decimal
	createdAt           time.Time
	updatedAt           time.Time
}

func NewSlot(floorNo, slotNumber int, hasCharger, physicallyAvailable bool, standardPrice decimal.Decimal) (*Slot, error) {
	if slotNumber <= 0 {
		return nil, ErrInvalidSlotNumber
	}
	if standardPrice.IsNegative() {
		return nil, ErrNegativeStandardPrice
	}

	return &Slot{
		id:                  uuid.New(),
		floorNo:             floorNo,
		slotNumber:          slotNumber,
		hasCharger:          hasCharger,
		physicallyAvailable: physicallyAvailable,
		standardPrice:       standardPrice,
	}, nil
}

func ReconstructSlot(
	id uuid.UUID,
	floorNo, slotNumber int,
	hasCharger, physicallyAvailable bool,
	standardPrice decimal.Decimal,
	createdAt, updatedAt time.Time,
) *Slot {
	return &Slot{
		id:                  id,
		floorNo:             floorNo,
		slotNumber:          slotNumber,
		hasCharger:          hasCharger,
		physicallyAvailable: physicallyAvailable,
		standardPrice:       standardPrice,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// AcceptsBookings is the hardware-flag half of availability. The time-based
// half lives in the read side, derived from bookings at query time.
func (s *Slot) AcceptsBookings() bool {
	return s.physicallyAvailable
}

func (s *Slot) SetPhysicallyAvailable(v bool) {
	s.physicallyAvailable = v
}

func (s *Slot) ID() uuid.UUID                  { return s.id }
func (s *Slot) FloorNo() int                   { return s.floorNo }
func (s *Slot) SlotNumber() int                { return s.slotNumber }
func (s *Slot) HasCharger() bool               { return s.hasCharger }
func (s *Slot) PhysicallyAvailable() bool      { return s.physicallyAvailable }
func (s *Slot) StandardPrice() decimal.Decimal { return s.standardPrice }
func (s *Slot) CreatedAt() time.Time           { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time           { return s.updatedAt }
