package repository

import (
	"context"
	"time"

	"parkspot/internal/infra"
	"parkspot/internal/infra/db"

	"github.com/google/uuid"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

const tryInsertIdempotencySQL = `
INSERT INTO idempotency_keys (key, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, 'processing', $4)
ON CONFLICT (key) DO NOTHING`

func (r *IdempotencyRepository) TryInsert(ctx context.Context, dbtx db.DBTX, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, tryInsertIdempotencySQL, key, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err, infra.KindFromPgError(err))
	}
	return tag.RowsAffected() > 0, nil
}

const completeIdempotencySQL = `
UPDATE idempotency_keys
SET status = 'completed', result_booking_id = $2
WHERE key = $1`

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key uuid.UUID, resultBookingID uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, completeIdempotencySQL, key, resultBookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

const deleteIdempotencySQL = `DELETE FROM idempotency_keys WHERE key = $1`

// Delete is a no-op for keys that no longer exist.
func (r *IdempotencyRepository) Delete(ctx context.Context, dbtx db.DBTX, key uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, deleteIdempotencySQL, key); err != nil {
		return infra.WrapRepoErr("failed to delete idempotency key", err)
	}
	return nil
}
