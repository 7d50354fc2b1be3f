package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrNilSlot       = errors.New("booking requires a slot")
	ErrNilRequester  = errors.New("booking requires a requester")
)

// Booking is a committed, conflict-free claim on one slot for one interval.
// The price is resolved once at creation and never recomputed; later pricing
// rule edits must not retroactively change a committed booking.
type Booking struct {
	id          uuid.UUID
	slotID      uuid.UUID
	requesterID uuid.UUID
	interval    Interval
	price       decimal.Decimal
	createdAt   time.Time
	updatedAt   time.Time
}

func NewBooking(slotID, requesterID uuid.UUID, iv Interval, price decimal.Decimal) (*Booking, error) {
	if slotID == uuid.Nil {
		return nil, ErrNilSlot
	}
	if requesterID == uuid.Nil {
		return nil, ErrNilRequester
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	return &Booking{
		id:          uuid.New(),
		slotID:      slotID,
		requesterID: requesterID,
		interval:    iv,
		price:       price,
	}, nil
}

func ReconstructBooking(
	id, slotID, requesterID uuid.UUID,
	iv Interval,
	price decimal.Decimal,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		slotID:      slotID,
		requesterID: requesterID,
		interval:    iv,
		price:       price,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Reschedule moves the booking to a new interval and optionally a new slot.
// The frozen price travels with the booking; modification never re-resolves it.
func (b *Booking) Reschedule(slotID uuid.UUID, iv Interval) error {
	if slotID == uuid.Nil {
		return ErrNilSlot
	}
	b.slotID = slotID
	b.interval = iv
	return nil
}

func (b *Booking) ActiveAt(t time.Time) bool {
	return b.interval.Contains(t)
}

func (b *Booking) HasExpired(now time.Time) bool {
	return !now.Before(b.interval.End())
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) SlotID() uuid.UUID      { return b.slotID }
func (b *Booking) RequesterID() uuid.UUID { return b.requesterID }
func (b *Booking) Interval() Interval     { return b.interval }
func (b *Booking) Price() decimal.Decimal { return b.price }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }
