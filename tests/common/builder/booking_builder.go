//go:build unit || e2e

package builder

import (
	"time"

	dombooking "parkspot/internal/domain/booking"
	reqdto "parkspot/internal/handler/dto/request"
	"parkspot/internal/pkg/apitime"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingBuilder struct {
	SlotID      uuid.UUID
	RequesterID uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		SlotID:      uuid.New(),
		RequesterID: uuid.New(),
		StartTime:   now.Add(24 * time.Hour),
		EndTime:     now.Add(26 * time.Hour),
		Price:       decimal.NewFromInt(500),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	iv, err := dombooking.NewInterval(b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(b.SlotID, b.RequesterID, iv, b.Price)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		SlotID:      b.SlotID,
		RequesterID: b.RequesterID,
		StartTime:   apitime.UTCMillis{Time: b.StartTime},
		EndTime:     apitime.UTCMillis{Time: b.EndTime},
	}
}

func (b *BookingBuilder) BuildViewQuery() *queries.BookingView {
	return &queries.BookingView{
		ID:          uuid.New(),
		SlotID:      b.SlotID,
		RequesterID: b.RequesterID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Price:       b.Price,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:        uuid.New(),
		SlotID:    b.SlotID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Price:     b.Price,
		CreatedAt: b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildSnapshot() *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:          uuid.New(),
		SlotID:      b.SlotID,
		RequesterID: b.RequesterID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Price:       b.Price,
	}
}
