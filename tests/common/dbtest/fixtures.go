//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func CreateTestSlot(t *testing.T, db DBLike, floorNo, slotNumber int, hasCharger bool, standardPrice decimal.Decimal) uuid.UUID {
	t.Helper()

	slotID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `
		INSERT INTO parking_slots (id, floor_no, slot_number, has_charger, physically_available, standard_price)
		VALUES ($1, $2, $3, $4, true, $5)
		ON CONFLICT (floor_no, slot_number) DO NOTHING`,
		slotID, floorNo, slotNumber, hasCharger, standardPrice)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM parking_slots WHERE floor_no = $1 AND slot_number = $2", floorNo, slotNumber).Scan(&slotID)
		require.NoError(t, err)
	}

	return slotID
}

func CreateTestBooking(t *testing.T, db DBLike, slotID, requesterID uuid.UUID, start, end time.Time, price decimal.Decimal) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO bookings (id, slot_id, requester_id, start_time, end_time, price)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		bookingID, slotID, requesterID, start, end, price)
	require.NoError(t, err)

	return bookingID
}

func CreateTestPricingRule(t *testing.T, db DBLike, slotID uuid.UUID, start, end time.Time, price decimal.Decimal) uuid.UUID {
	t.Helper()

	ruleID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO pricing_rules (id, slot_id, start_time, end_time, price, active)
		VALUES ($1, $2, $3, $4, $5, true)`,
		ruleID, slotID, start, end, price)
	require.NoError(t, err)

	return ruleID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
