package commands

import (
	"context"

	"parkspot/internal/domain/slot"
	"parkspot/internal/infra"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateSlotParams struct {
	FloorNo             int
	SlotNumber          int
	HasCharger          bool
	PhysicallyAvailable bool
	StandardPrice       decimal.Decimal
}

type SlotCommands interface {
	CreateSlot(ctx context.Context, params CreateSlotParams) (*queries.SlotView, error)
	SetPhysicallyAvailable(ctx context.Context, slotID uuid.UUID, available bool) (*queries.SlotView, error)
}

type slotCommandsImpl struct {
	uow         shared.UnitOfWork
	slotQueries queries.SlotQueries
}

func NewSlotCommands(uow shared.UnitOfWork, slotQueries queries.SlotQueries) SlotCommands {
	return &slotCommandsImpl{uow: uow, slotQueries: slotQueries}
}

func (c *slotCommandsImpl) CreateSlot(ctx context.Context, params CreateSlotParams) (*queries.SlotView, error) {
	entity, err := slot.NewSlot(
		params.FloorNo,
		params.SlotNumber,
		params.HasCharger,
		params.PhysicallyAvailable,
		params.StandardPrice,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var slotID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Slots().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return ErrSlotNumberTaken
			}
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		slotID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.slotQueries.GetByID(ctx, slotID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

// SetPhysicallyAvailable toggles the hardware-sensor flag only. Time-based
// availability stays a pure read-side derivation and is never stored.
func (c *slotCommandsImpl) SetPhysicallyAvailable(ctx context.Context, slotID uuid.UUID, available bool) (*queries.SlotView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if updateErr := tx.Slots().SetPhysicallyAvailable(ctx, tx.DB(), slotID, available); updateErr != nil {
			if infra.IsKind(updateErr, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			return errs.Mark(updateErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.slotQueries.GetByID(ctx, slotID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}
