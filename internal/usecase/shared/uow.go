package shared

import (
	"context"
	"time"

	"parkspot/internal/domain/booking"
	"parkspot/internal/domain/pricing"
	"parkspot/internal/domain/slot"
	"parkspot/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions.
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: direct access to command reads outside transactions.
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Slots() SlotRepository
	PricingRules() PricingRuleRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
	// LockSlot serializes check-then-commit sequences per slot. The advisory
	// lock is transaction-scoped; overlap scan and write must happen while it
	// is held.
	LockSlot(ctx context.Context, slotID uuid.UUID) error
	DB() db.DBTX
}

type CommandReads interface {
	SlotByID(ctx context.Context, id uuid.UUID) (*SlotSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// OverlappingBookings returns live bookings on slotID whose interval
	// overlaps iv, excluding excludeID when non-nil (self-exclusion on modify).
	OverlappingBookings(ctx context.Context, slotID uuid.UUID, iv booking.Interval, excludeID *uuid.UUID) ([]*BookingSnapshot, error)
	ActiveRulesBySlot(ctx context.Context, slotID uuid.UUID) ([]*pricing.Rule, error)
	RuleByID(ctx context.Context, id uuid.UUID) (*RuleSnapshot, error)
	IdempotencyByKey(ctx context.Context, key uuid.UUID) (*IdempotencyRecord, error)
}

type BookingRepository interface {
	Create(ctx context.Context, db db.DBTX, b *booking.Booking) (uuid.UUID, error)
	Update(ctx context.Context, db db.DBTX, b *booking.Booking) error
	Delete(ctx context.Context, db db.DBTX, id uuid.UUID) error
}

type SlotRepository interface {
	Create(ctx context.Context, db db.DBTX, s *slot.Slot) (uuid.UUID, error)
	SetPhysicallyAvailable(ctx context.Context, db db.DBTX, id uuid.UUID, available bool) error
}

type PricingRuleRepository interface {
	Create(ctx context.Context, db db.DBTX, r *pricing.Rule) (uuid.UUID, error)
	Delete(ctx context.Context, db db.DBTX, id uuid.UUID) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key; claimed=false means another request holds it.
	TryInsert(ctx context.Context, db db.DBTX, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (claimed bool, err error)
	UpdateStatusCompleted(ctx context.Context, db db.DBTX, key uuid.UUID, resultBookingID uuid.UUID) error
	// Delete releases a claimed key so a retry can claim it again.
	Delete(ctx context.Context, db db.DBTX, key uuid.UUID) error
}
