package queries

import (
	"context"
	"time"

	"parkspot/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SlotView struct {
	ID                  uuid.UUID       `json:"id"`
	FloorNo             int             `json:"floor_no"`
	SlotNumber          int             `json:"slot_number"`
	HasCharger          bool            `json:"has_charger"`
	PhysicallyAvailable bool            `json:"physically_available"`
	StandardPrice       decimal.Decimal `json:"standard_price"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type PricingRuleView struct {
	ID        uuid.UUID       `json:"id"`
	SlotID    uuid.UUID       `json:"slot_id"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Price     decimal.Decimal `json:"price"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

type SlotReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	// ListAvailable derives availability at the instant `at` on read: the
	// hardware flag must be set and no live booking may contain `at`. Nothing
	// is written on this path.
	ListAvailable(ctx context.Context, at time.Time, hasCharger *bool) ([]*SlotView, error)
	IsAvailable(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ListRules(ctx context.Context, slotID uuid.UUID) ([]*PricingRuleView, error)
}

type SlotQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	ListAvailableNow(ctx context.Context, hasCharger *bool) ([]*SlotView, error)
	IsAvailableAt(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	IsAvailableNow(ctx context.Context, id uuid.UUID) (bool, error)
	ListRules(ctx context.Context, slotID uuid.UUID) ([]*PricingRuleView, error)
}

type slotQueriesImpl struct {
	store SlotReadStore
	clock clock.Clock
}

func NewSlotQueries(store SlotReadStore, clock clock.Clock) SlotQueries {
	return &slotQueriesImpl{store: store, clock: clock}
}

func (q *slotQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *slotQueriesImpl) ListAvailableNow(ctx context.Context, hasCharger *bool) ([]*SlotView, error) {
	return q.store.ListAvailable(ctx, q.clock.Now(), hasCharger)
}

func (q *slotQueriesImpl) IsAvailableAt(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return q.store.IsAvailable(ctx, id, at)
}

func (q *slotQueriesImpl) IsAvailableNow(ctx context.Context, id uuid.UUID) (bool, error) {
	return q.store.IsAvailable(ctx, id, q.clock.Now())
}

func (q *slotQueriesImpl) ListRules(ctx context.Context, slotID uuid.UUID) ([]*PricingRuleView, error) {
	return q.store.ListRules(ctx, slotID)
}
