package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Write-side snapshots prevent dependency on read-side query types.
type SlotSnapshot struct {
	ID                  uuid.UUID
	FloorNo             int
	SlotNumber          int
	HasCharger          bool
	PhysicallyAvailable bool
	StandardPrice       decimal.Decimal
}

type BookingSnapshot struct {
	ID          uuid.UUID
	SlotID      uuid.UUID
	RequesterID uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	Price       decimal.Decimal
}

type RuleSnapshot struct {
	ID        uuid.UUID
	SlotID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Price     decimal.Decimal
	Active    bool
	CreatedAt time.Time
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	Endpoint        string
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}
