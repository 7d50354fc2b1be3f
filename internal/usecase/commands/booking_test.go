//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"parkspot/internal/domain/booking"
	"parkspot/internal/domain/pricing"
	"parkspot/internal/infra"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/shared"
	"parkspot/tests/common/builder"
	queriesmock "parkspot/tests/mock/queries"
	sharedmock "parkspot/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bookingCommandsFixture struct {
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	reads    *sharedmock.MockCommandReads
	bookings *sharedmock.MockBookingRepository
	idem     *sharedmock.MockIdempotencyRepository
	queries  *queriesmock.MockBookingQueries
	clock    *clock.MockClock
	commands commands.BookingCommands
}

func newBookingCommandsFixture(t *testing.T) *bookingCommandsFixture {
	ctrl := gomock.NewController(t)
	f := &bookingCommandsFixture{
		uow:      sharedmock.NewMockUnitOfWork(ctrl),
		tx:       sharedmock.NewMockTx(ctrl),
		reads:    sharedmock.NewMockCommandReads(ctrl),
		bookings: sharedmock.NewMockBookingRepository(ctrl),
		idem:     sharedmock.NewMockIdempotencyRepository(ctrl),
		queries:  queriesmock.NewMockBookingQueries(ctrl),
		clock:    clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)),
	}

	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		},
	).AnyTimes()
	f.uow.EXPECT().CommandReads().Return(f.reads).AnyTimes()
	f.tx.EXPECT().Bookings().Return(f.bookings).AnyTimes()
	f.tx.EXPECT().Idempotency().Return(f.idem).AnyTimes()
	f.tx.EXPECT().Reads().Return(f.reads).AnyTimes()
	f.tx.EXPECT().DB().Return(nil).AnyTimes()

	f.commands = commands.NewBookingCommands(f.uow, pricing.NewResolver(), f.queries, f.clock)
	return f
}

func (f *bookingCommandsFixture) expectFreshIdempotencyClaim() {
	f.idem.EXPECT().
		TryInsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)
}

func (f *bookingCommandsFixture) expectClaimRelease(key uuid.UUID) {
	f.idem.EXPECT().Delete(gomock.Any(), gomock.Any(), key).Return(nil)
}

func notFoundErr(table string) error {
	return infra.WrapRepoErr(table+" not found", nil, infra.KindNotFound)
}

// requestHashOf mirrors the hash written alongside the idempotency key, so
// replay tests can present a record that matches the retried payload.
func requestHashOf(b *builder.BookingBuilder) string {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(createParams(b))
	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:])
}

func createParams(b *builder.BookingBuilder) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		SlotID:      b.SlotID,
		RequesterID: b.RequesterID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
	}
}

func TestBookingCommands_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when the slot is free", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		slotSnap := builder.NewSlotBuilder().BuildSnapshot()
		slotSnap.ID = b.SlotID
		bookingID := uuid.New()

		f.expectFreshIdempotencyClaim()
		f.reads.EXPECT().SlotByID(ctx, b.SlotID).Return(slotSnap, nil)
		f.reads.EXPECT().ActiveRulesBySlot(ctx, b.SlotID).Return(nil, nil)
		f.tx.EXPECT().LockSlot(ctx, b.SlotID).Return(nil)
		f.reads.EXPECT().OverlappingBookings(ctx, b.SlotID, gomock.Any(), nil).Return(nil, nil)
		f.bookings.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).Return(bookingID, nil)
		f.idem.EXPECT().UpdateStatusCompleted(ctx, gomock.Any(), gomock.Any(), bookingID).Return(nil)
		view := b.BuildViewQuery()
		view.ID = bookingID
		f.queries.EXPECT().GetByID(ctx, bookingID).Return(view, nil)

		result, err := f.commands.CreateBooking(ctx, createParams(b), uuid.New())

		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Equal(t, bookingID, result.Booking.ID)
	})

	t.Run("freezes the matching rule price at creation", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		slotSnap := builder.NewSlotBuilder().BuildSnapshot()
		slotSnap.ID = b.SlotID
		rulePrice := decimal.NewFromInt(950)
		rule := builder.NewPricingRuleBuilder().
			With(func(r *builder.PricingRuleBuilder) {
				r.SlotID = b.SlotID
				r.StartTime = b.StartTime.Add(-time.Hour)
				r.EndTime = b.EndTime.Add(time.Hour)
				r.Price = rulePrice
			}).
			BuildReconstructed(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
		bookingID := uuid.New()

		f.expectFreshIdempotencyClaim()
		f.reads.EXPECT().SlotByID(ctx, b.SlotID).Return(slotSnap, nil)
		f.reads.EXPECT().ActiveRulesBySlot(ctx, b.SlotID).Return([]*pricing.Rule{rule}, nil)
		f.tx.EXPECT().LockSlot(ctx, b.SlotID).Return(nil)
		f.reads.EXPECT().OverlappingBookings(ctx, b.SlotID, gomock.Any(), nil).Return(nil, nil)
		f.bookings.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any, created *booking.Booking) (uuid.UUID, error) {
				assert.True(t, created.Price().Equal(rulePrice), "rule price should be written, not the standard price")
				return bookingID, nil
			},
		)
		f.idem.EXPECT().UpdateStatusCompleted(ctx, gomock.Any(), gomock.Any(), bookingID).Return(nil)
		f.queries.EXPECT().GetByID(ctx, bookingID).Return(b.BuildViewQuery(), nil)

		_, err := f.commands.CreateBooking(ctx, createParams(b), uuid.New())

		require.NoError(t, err)
	})

	t.Run("rejects overlapping booking inside the locked section", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		slotSnap := builder.NewSlotBuilder().BuildSnapshot()
		slotSnap.ID = b.SlotID

		key := uuid.New()
		f.expectFreshIdempotencyClaim()
		f.reads.EXPECT().SlotByID(ctx, b.SlotID).Return(slotSnap, nil)
		f.reads.EXPECT().ActiveRulesBySlot(ctx, b.SlotID).Return(nil, nil)
		f.tx.EXPECT().LockSlot(ctx, b.SlotID).Return(nil)
		f.reads.EXPECT().OverlappingBookings(ctx, b.SlotID, gomock.Any(), nil).
			Return([]*shared.BookingSnapshot{b.BuildSnapshot()}, nil)
		f.expectClaimRelease(key)

		_, err := f.commands.CreateBooking(ctx, createParams(b), key)

		assert.ErrorIs(t, err, commands.ErrBookingConflict)
	})

	t.Run("maps exclusion constraint violation to conflict", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		slotSnap := builder.NewSlotBuilder().BuildSnapshot()
		slotSnap.ID = b.SlotID

		key := uuid.New()
		f.expectFreshIdempotencyClaim()
		f.reads.EXPECT().SlotByID(ctx, b.SlotID).Return(slotSnap, nil)
		f.reads.EXPECT().ActiveRulesBySlot(ctx, b.SlotID).Return(nil, nil)
		f.tx.EXPECT().LockSlot(ctx, b.SlotID).Return(nil)
		f.reads.EXPECT().OverlappingBookings(ctx, b.SlotID, gomock.Any(), nil).Return(nil, nil)
		f.bookings.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).
			Return(uuid.Nil, infra.WrapRepoErr("overlapping interval", nil, infra.KindConflict))
		f.expectClaimRelease(key)

		_, err := f.commands.CreateBooking(ctx, createParams(b), key)

		assert.ErrorIs(t, err, commands.ErrBookingConflict)
	})

	t.Run("rejects physically unavailable slot", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		slotSnap := builder.NewSlotBuilder().
			With(func(s *builder.SlotBuilder) { s.PhysicallyAvailable = false }).
			BuildSnapshot()
		slotSnap.ID = b.SlotID

		key := uuid.New()
		f.expectFreshIdempotencyClaim()
		f.reads.EXPECT().SlotByID(ctx, b.SlotID).Return(slotSnap, nil)
		f.expectClaimRelease(key)

		_, err := f.commands.CreateBooking(ctx, createParams(b), key)

		assert.ErrorIs(t, err, commands.ErrSlotUnavailable)
	})

	t.Run("rejects unknown slot", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()

		key := uuid.New()
		f.expectFreshIdempotencyClaim()
		f.reads.EXPECT().SlotByID(ctx, b.SlotID).Return(nil, notFoundErr("parking_slots"))
		f.expectClaimRelease(key)

		_, err := f.commands.CreateBooking(ctx, createParams(b), key)

		assert.ErrorIs(t, err, commands.ErrSlotNotFound)
	})

	t.Run("rejects degenerate interval before touching storage", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.EndTime = b.StartTime
		})

		_, err := f.commands.CreateBooking(ctx, createParams(b), uuid.New())

		assert.ErrorIs(t, err, commands.ErrInvalidInterval)
	})
}

func TestBookingCommands_CreateBooking_Idempotency(t *testing.T) {
	ctx := context.Background()

	completedRecord := func(b *builder.BookingBuilder, key uuid.UUID, resultID uuid.UUID) *shared.IdempotencyRecord {
		return &shared.IdempotencyRecord{
			Key:             key,
			Endpoint:        "POST /bookings",
			Status:          "completed",
			RequestHash:     requestHashOf(b),
			ResultBookingID: &resultID,
		}
	}

	t.Run("replays the original result for a retried key", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		key := uuid.New()
		resultID := uuid.New()

		f.idem.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.reads.EXPECT().IdempotencyByKey(gomock.Any(), key).
			Return(completedRecord(b, key, resultID), nil)
		view := b.BuildViewQuery()
		view.ID = resultID
		f.queries.EXPECT().GetByID(ctx, resultID).Return(view, nil)

		result, err := f.commands.CreateBooking(ctx, createParams(b), key)

		require.NoError(t, err)
		assert.True(t, result.IsReplayed)
		assert.Equal(t, resultID, result.Booking.ID)
	})

	t.Run("rejects a reused key with a different payload", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		key := uuid.New()

		f.idem.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.reads.EXPECT().IdempotencyByKey(gomock.Any(), key).Return(&shared.IdempotencyRecord{
			Key:         key,
			Status:      "completed",
			RequestHash: "some-other-request",
		}, nil)

		_, err := f.commands.CreateBooking(ctx, createParams(b), key)

		assert.ErrorIs(t, err, commands.ErrDuplicateRequest)
	})

	t.Run("releases the key after a failed create so a retry can reclaim it", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		slotSnap := builder.NewSlotBuilder().BuildSnapshot()
		slotSnap.ID = b.SlotID
		key := uuid.New()
		bookingID := uuid.New()

		f.reads.EXPECT().SlotByID(ctx, b.SlotID).Return(slotSnap, nil).Times(2)
		f.reads.EXPECT().ActiveRulesBySlot(ctx, b.SlotID).Return(nil, nil).Times(2)
		f.tx.EXPECT().LockSlot(ctx, b.SlotID).Return(nil).Times(2)
		gomock.InOrder(
			f.idem.EXPECT().
				TryInsert(gomock.Any(), gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
				Return(true, nil),
			f.reads.EXPECT().OverlappingBookings(ctx, b.SlotID, gomock.Any(), nil).
				Return([]*shared.BookingSnapshot{b.BuildSnapshot()}, nil),
			f.idem.EXPECT().Delete(gomock.Any(), gomock.Any(), key).Return(nil),
			f.idem.EXPECT().
				TryInsert(gomock.Any(), gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
				Return(true, nil),
			f.reads.EXPECT().OverlappingBookings(ctx, b.SlotID, gomock.Any(), nil).Return(nil, nil),
			f.bookings.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).Return(bookingID, nil),
			f.idem.EXPECT().UpdateStatusCompleted(ctx, gomock.Any(), key, bookingID).Return(nil),
		)
		view := b.BuildViewQuery()
		view.ID = bookingID
		f.queries.EXPECT().GetByID(ctx, bookingID).Return(view, nil)

		_, err := f.commands.CreateBooking(ctx, createParams(b), key)
		assert.ErrorIs(t, err, commands.ErrBookingConflict)

		result, err := f.commands.CreateBooking(ctx, createParams(b), key)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Equal(t, bookingID, result.Booking.ID)
	})

	t.Run("rejects a key still being processed", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		key := uuid.New()

		f.idem.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.reads.EXPECT().IdempotencyByKey(gomock.Any(), key).Return(&shared.IdempotencyRecord{
			Key:         key,
			Status:      "processing",
			RequestHash: requestHashOf(b),
		}, nil)

		_, err := f.commands.CreateBooking(ctx, createParams(b), key)

		assert.ErrorIs(t, err, commands.ErrRequestInProgress)
	})
}

func TestBookingCommands_ModifyBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the frozen price when rescheduling", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		bookingID := uuid.New()
		current := b.BuildSnapshot()
		current.ID = bookingID
		newStart := b.StartTime.Add(48 * time.Hour)
		newEnd := b.EndTime.Add(48 * time.Hour)

		f.reads.EXPECT().BookingByID(ctx, bookingID).Return(current, nil)
		f.tx.EXPECT().LockSlot(ctx, current.SlotID).Return(nil)
		f.reads.EXPECT().OverlappingBookings(ctx, current.SlotID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, _ any, excludeID *uuid.UUID) ([]*shared.BookingSnapshot, error) {
				require.NotNil(t, excludeID, "overlap scan must exclude the booking being moved")
				assert.Equal(t, bookingID, *excludeID)
				return nil, nil
			})
		f.bookings.EXPECT().Update(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any, updated *booking.Booking) error {
				assert.True(t, updated.Price().Equal(current.Price), "price must not be re-resolved on move")
				return nil
			},
		)
		view := b.BuildViewQuery()
		view.ID = bookingID
		view.StartTime = newStart
		view.EndTime = newEnd
		f.queries.EXPECT().GetByID(ctx, bookingID).Return(view, nil)

		got, err := f.commands.ModifyBooking(ctx, bookingID, commands.ModifyBookingParams{
			StartTime: newStart,
			EndTime:   newEnd,
		})

		require.NoError(t, err)
		assert.Equal(t, newStart, got.StartTime)
	})

	t.Run("locks both slots when moving to another slot", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		bookingID := uuid.New()
		current := b.BuildSnapshot()
		current.ID = bookingID
		targetSlotID := uuid.New()
		targetSnap := builder.NewSlotBuilder().BuildSnapshot()
		targetSnap.ID = targetSlotID

		f.reads.EXPECT().BookingByID(ctx, bookingID).Return(current, nil)
		f.reads.EXPECT().SlotByID(ctx, targetSlotID).Return(targetSnap, nil)
		f.tx.EXPECT().LockSlot(ctx, current.SlotID).Return(nil)
		f.tx.EXPECT().LockSlot(ctx, targetSlotID).Return(nil)
		f.reads.EXPECT().OverlappingBookings(ctx, targetSlotID, gomock.Any(), gomock.Any()).Return(nil, nil)
		f.bookings.EXPECT().Update(ctx, gomock.Any(), gomock.Any()).Return(nil)
		f.queries.EXPECT().GetByID(ctx, bookingID).Return(b.BuildViewQuery(), nil)

		_, err := f.commands.ModifyBooking(ctx, bookingID, commands.ModifyBookingParams{
			SlotID:    &targetSlotID,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})

		require.NoError(t, err)
	})

	t.Run("rejects a move onto an occupied window", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		bookingID := uuid.New()
		current := b.BuildSnapshot()
		current.ID = bookingID

		f.reads.EXPECT().BookingByID(ctx, bookingID).Return(current, nil)
		f.tx.EXPECT().LockSlot(ctx, current.SlotID).Return(nil)
		f.reads.EXPECT().OverlappingBookings(ctx, current.SlotID, gomock.Any(), gomock.Any()).
			Return([]*shared.BookingSnapshot{builder.NewBookingBuilder().BuildSnapshot()}, nil)

		_, err := f.commands.ModifyBooking(ctx, bookingID, commands.ModifyBookingParams{
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})

		assert.ErrorIs(t, err, commands.ErrBookingConflict)
	})

	t.Run("rejects unknown booking", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		b := builder.NewBookingBuilder()
		bookingID := uuid.New()

		f.reads.EXPECT().BookingByID(ctx, bookingID).Return(nil, notFoundErr("bookings"))

		_, err := f.commands.ModifyBooking(ctx, bookingID, commands.ModifyBookingParams{
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})

		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestBookingCommands_CancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the booking", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		bookingID := uuid.New()

		f.bookings.EXPECT().Delete(ctx, gomock.Any(), bookingID).Return(nil)

		require.NoError(t, f.commands.CancelBooking(ctx, bookingID))
	})

	t.Run("rejects unknown booking", func(t *testing.T) {
		f := newBookingCommandsFixture(t)
		bookingID := uuid.New()

		f.bookings.EXPECT().Delete(ctx, gomock.Any(), bookingID).Return(notFoundErr("bookings"))

		err := f.commands.CancelBooking(ctx, bookingID)

		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}
