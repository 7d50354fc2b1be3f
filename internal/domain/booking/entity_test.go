//go:build unit

package booking_test

import (
	"testing"

	"parkspot/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	iv := mustInterval(t, at(10), at(12))
	slotID := uuid.New()
	requesterID := uuid.New()
	price := decimal.NewFromInt(500)

	t.Run("basic success case", func(t *testing.T) {
		b, err := booking.NewBooking(slotID, requesterID, iv, price)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, slotID, b.SlotID())
		assert.Equal(t, requesterID, b.RequesterID())
		assert.True(t, price.Equal(b.Price()))
	})

	t.Run("nil slot rejected", func(t *testing.T) {
		_, err := booking.NewBooking(uuid.Nil, requesterID, iv, price)
		assert.ErrorIs(t, err, booking.ErrNilSlot)
	})

	t.Run("nil requester rejected", func(t *testing.T) {
		_, err := booking.NewBooking(slotID, uuid.Nil, iv, price)
		assert.ErrorIs(t, err, booking.ErrNilRequester)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := booking.NewBooking(slotID, requesterID, iv, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, booking.ErrNegativePrice)
	})
}

func TestBooking_Reschedule(t *testing.T) {
	iv := mustInterval(t, at(10), at(12))
	price := decimal.NewFromInt(800)

	b, err := booking.NewBooking(uuid.New(), uuid.New(), iv, price)
	require.NoError(t, err)

	t.Run("price is frozen across moves", func(t *testing.T) {
		newSlot := uuid.New()
		newIv := mustInterval(t, at(20), at(24))

		require.NoError(t, b.Reschedule(newSlot, newIv))

		assert.Equal(t, newSlot, b.SlotID())
		assert.Equal(t, newIv, b.Interval())
		assert.True(t, price.Equal(b.Price()), "reschedule must not re-resolve the price")
	})

	t.Run("nil slot rejected", func(t *testing.T) {
		err := b.Reschedule(uuid.Nil, iv)
		assert.ErrorIs(t, err, booking.ErrNilSlot)
	})
}

func TestBooking_ActiveAt(t *testing.T) {
	b, err := booking.NewBooking(uuid.New(), uuid.New(), mustInterval(t, at(10), at(12)), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, b.ActiveAt(at(10)))
	assert.True(t, b.ActiveAt(at(11)))
	assert.False(t, b.ActiveAt(at(12)), "booking is over at its end instant")

	assert.False(t, b.HasExpired(at(11)))
	assert.True(t, b.HasExpired(at(12)))
}
