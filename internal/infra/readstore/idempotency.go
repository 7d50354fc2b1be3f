package readstore

import (
	"context"

	"parkspot/internal/infra"
	"parkspot/internal/infra/db"
	"parkspot/internal/pkg/pgconv"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(dbtx db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{db: dbtx}
}

const findIdempotencyByKeySQL = `
SELECT key, endpoint, status, request_hash, result_booking_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND expires_at > now()`

func (r *IdempotencyReadStore) FindByKey(ctx context.Context, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec      shared.IdempotencyRecord
		resultID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, findIdempotencyByKeySQL, key).
		Scan(&rec.Key, &rec.Endpoint, &rec.Status, &rec.RequestHash, &resultID, &rec.ExpiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}
	rec.ResultBookingID = pgconv.UUIDPtrFromPgtype(resultID)
	return &rec, nil
}
