package repository

import (
	"context"

	"parkspot/internal/domain/slot"
	"parkspot/internal/infra"
	"parkspot/internal/infra/db"
	"parkspot/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SlotRepository struct{}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{}
}

const createSlotSQL = `
INSERT INTO parking_slots (id, floor_no, slot_number, has_charger, physically_available, standard_price)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

func (r *SlotRepository) Create(ctx context.Context, dbtx db.DBTX, s *slot.Slot) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createSlotSQL,
		s.ID(),
		s.FloorNo(),
		s.SlotNumber(),
		s.HasCharger(),
		s.PhysicallyAvailable(),
		pgconv.DecimalToNumeric(s.StandardPrice()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create slot", err, infra.KindFromPgError(err))
	}

	return id, nil
}

func (r *SlotRepository) SetPhysicallyAvailable(ctx context.Context, dbtx db.DBTX, id uuid.UUID, available bool) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE parking_slots SET physically_available = $2, updated_at = now() WHERE id = $1`,
		id, available)
	if err != nil {
		return infra.WrapRepoErr("failed to update slot availability flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return nil
}
