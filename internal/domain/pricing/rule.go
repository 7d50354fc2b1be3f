package pricing

import (
	"errors"
	"time"

	"parkspot/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeRulePrice = errors.New("rule price cannot be negative")
	ErrNilRuleSlot       = errors.New("rule requires a slot")
)

// Rule is a slot-scoped price override for a time window. Rules for the same
// slot are not supposed to overlap, but the resolver tolerates it rather than
// assuming the invariant holds.
type Rule struct {
	id        uuid.UUID
	slotID    uuid.UUID
	interval  booking.Interval
	price     decimal.Decimal
	active    bool
	createdAt time.Time
}

func NewRule(slotID uuid.UUID, iv booking.Interval, price decimal.Decimal) (*Rule, error) {
	if slotID == uuid.Nil {
		return nil, ErrNilRuleSlot
	}
	if price.IsNegative() {
		return nil, ErrNegativeRulePrice
	}

	return &Rule{
		id:       uuid.New(),
		slotID:   slotID,
		interval: iv,
		price:    price,
		active:   true,
	}, nil
}

func ReconstructRule(
	id, slotID uuid.UUID,
	iv booking.Interval,
	price decimal.Decimal,
	active bool,
	createdAt time.Time,
) *Rule {
	return &Rule{
		id:        id,
		slotID:    slotID,
		interval:  iv,
		price:     price,
		active:    active,
		createdAt: createdAt,
	}
}

func (r *Rule) AppliesTo(iv booking.Interval) bool {
	return r.active && r.interval.Overlaps(iv)
}

func (r *Rule) ID() uuid.UUID              { return r.id }
func (r *Rule) SlotID() uuid.UUID          { return r.slotID }
func (r *Rule) Interval() booking.Interval { return r.interval }
func (r *Rule) Price() decimal.Decimal     { return r.price }
func (r *Rule) Active() bool               { return r.active }
func (r *Rule) CreatedAt() time.Time       { return r.createdAt }
