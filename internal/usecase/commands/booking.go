package commands

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"parkspot/internal/domain/booking"
	"parkspot/internal/domain/pricing"
	"parkspot/internal/infra"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
)

const createBookingEndpoint = "POST /bookings"

type CreateBookingParams struct {
	SlotID      uuid.UUID `json:"slot_id"`
	RequesterID uuid.UUID `json:"requester_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type ModifyBookingParams struct {
	SlotID    *uuid.UUID
	StartTime time.Time
	EndTime   time.Time
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, params CreateBookingParams, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	ModifyBooking(ctx context.Context, bookingID uuid.UUID, params ModifyBookingParams) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	resolver       *pricing.Resolver
	bookingQueries queries.BookingQueries
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	resolver *pricing.Resolver,
	bookingQueries queries.BookingQueries,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		resolver:       resolver,
		bookingQueries: bookingQueries,
		clock:          clock,
	}
}

// CreateBooking is the check-then-commit pipeline: validate the interval,
// resolve and freeze the price, then, inside one transaction holding the
// per-slot lock, scan for overlapping bookings and insert. Concurrent
// overlapping creates on the same slot therefore serialize: exactly one wins.
func (c *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	params CreateBookingParams,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	iv, err := booking.NewInterval(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	requestHash := c.calculateRequestHash(params)
	expiresAt := c.clock.Now().Add(24 * time.Hour)

	replayed, err := c.handleIdempotency(ctx, idempotencyKey, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	bookingID, err := c.createClaimed(ctx, params, iv, idempotencyKey)
	if err != nil {
		// Release the fresh claim so a retry with the same key is not stuck
		// behind a processing record until it expires. Once the transaction
		// has committed the key stays completed and replays instead.
		c.releaseClaim(ctx, idempotencyKey)
		return nil, err
	}

	// Read-after-write: return the committed view from the read store.
	view, err := c.bookingQueries.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &CreateBookingResult{Booking: view, IsReplayed: false}, nil
}

// createClaimed runs the actual create for a freshly claimed idempotency key.
func (c *bookingCommandsImpl) createClaimed(
	ctx context.Context,
	params CreateBookingParams,
	iv booking.Interval,
	idempotencyKey uuid.UUID,
) (uuid.UUID, error) {
	reads := c.uow.CommandReads()
	slotSnap, err := reads.SlotByID(ctx, params.SlotID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, ErrSlotNotFound
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !slotSnap.PhysicallyAvailable {
		return uuid.Nil, ErrSlotUnavailable
	}

	rules, err := reads.ActiveRulesBySlot(ctx, params.SlotID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	price, _ := c.resolver.Resolve(slotSnap.StandardPrice, rules, iv)

	entity, err := booking.NewBooking(params.SlotID, params.RequesterID, iv, price)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var bookingID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if lockErr := tx.LockSlot(ctx, params.SlotID); lockErr != nil {
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		overlapping, scanErr := tx.Reads().OverlappingBookings(ctx, params.SlotID, iv, nil)
		if scanErr != nil {
			return errs.Mark(scanErr, ErrDatabaseOperationFailed)
		}
		if len(overlapping) > 0 {
			return ErrBookingConflict
		}

		id, createErr := tx.Bookings().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			// Exclusion constraint backstop in case the lock was bypassed.
			if infra.IsKind(createErr, infra.KindConflict) {
				return ErrBookingConflict
			}
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		bookingID = id

		if idemErr := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, id); idemErr != nil {
			return errs.Mark(idemErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return bookingID, nil
}

// releaseClaim is best effort: an undeleted record still expires on its own.
func (c *bookingCommandsImpl) releaseClaim(ctx context.Context, key uuid.UUID) {
	_ = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Delete(ctx, tx.DB(), key)
	})
}

// ModifyBooking reruns the create pipeline for an existing booking. The
// overlap scan excludes the booking itself, so shifting one's own interval
// never self-conflicts. Price is kept from the original booking: modification
// deliberately does not re-resolve pricing rules.
func (c *bookingCommandsImpl) ModifyBooking(
	ctx context.Context,
	bookingID uuid.UUID,
	params ModifyBookingParams,
) (*queries.BookingView, error) {
	iv, err := booking.NewInterval(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	reads := c.uow.CommandReads()
	current, err := reads.BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	targetSlotID := current.SlotID
	if params.SlotID != nil && *params.SlotID != current.SlotID {
		targetSlotID = *params.SlotID

		slotSnap, slotErr := reads.SlotByID(ctx, targetSlotID)
		if slotErr != nil {
			if infra.IsKind(slotErr, infra.KindNotFound) {
				return nil, ErrSlotNotFound
			}
			return nil, errs.Mark(slotErr, ErrDatabaseOperationFailed)
		}
		if !slotSnap.PhysicallyAvailable {
			return nil, ErrSlotUnavailable
		}
	}

	entity := booking.ReconstructBooking(
		current.ID, current.SlotID, current.RequesterID,
		booking.ReconstructInterval(current.StartTime, current.EndTime),
		current.Price,
		time.Time{}, time.Time{},
	)
	if err := entity.Reschedule(targetSlotID, iv); err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Lock both slots in a stable order when the booking moves, so two
		// opposite moves cannot deadlock.
		for _, id := range lockOrder(current.SlotID, targetSlotID) {
			if lockErr := tx.LockSlot(ctx, id); lockErr != nil {
				return errs.Mark(lockErr, ErrDatabaseOperationFailed)
			}
		}

		excludeID := bookingID
		overlapping, scanErr := tx.Reads().OverlappingBookings(ctx, targetSlotID, iv, &excludeID)
		if scanErr != nil {
			return errs.Mark(scanErr, ErrDatabaseOperationFailed)
		}
		if len(overlapping) > 0 {
			return ErrBookingConflict
		}

		if updateErr := tx.Bookings().Update(ctx, tx.DB(), entity); updateErr != nil {
			if infra.IsKind(updateErr, infra.KindConflict) {
				return ErrBookingConflict
			}
			if infra.IsKind(updateErr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(updateErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.bookingQueries.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Delete(ctx, tx.DB(), bookingID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// handleIdempotency claims the key or replays the prior result. A nil view
// with nil error means the key is freshly claimed and the caller proceeds.
func (c *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	key uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.BookingView, error) {
	var (
		claimed bool
		record  *shared.IdempotencyRecord
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, insertErr := tx.Idempotency().TryInsert(ctx, tx.DB(), key, createBookingEndpoint, requestHash, expiresAt)
		if insertErr != nil {
			return errs.Mark(insertErr, ErrIdempotencyCheckFailed)
		}
		claimed = ok
		if claimed {
			return nil
		}
		existing, getErr := tx.Reads().IdempotencyByKey(ctx, key)
		if getErr != nil {
			return errs.Mark(getErr, ErrIdempotencyCheckFailed)
		}
		record = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, nil
	}

	if record.RequestHash != requestHash {
		return nil, ErrDuplicateRequest
	}

	switch record.Status {
	case "completed":
		if record.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking ID")
		}
		return c.bookingQueries.GetByID(ctx, *record.ResultBookingID)

	case "processing":
		return nil, ErrRequestInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (c *bookingCommandsImpl) calculateRequestHash(params CreateBookingParams) string {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(params)
	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:])
}

func lockOrder(a, b uuid.UUID) []uuid.UUID {
	if a == b {
		return []uuid.UUID{a}
	}
	if bytes.Compare(a[:], b[:]) < 0 {
		return []uuid.UUID{a, b}
	}
	return []uuid.UUID{b, a}
}
