//go:build unit || e2e

package builder

import (
	"time"

	dombooking "parkspot/internal/domain/booking"
	"parkspot/internal/domain/pricing"
	reqdto "parkspot/internal/handler/dto/request"
	"parkspot/internal/pkg/apitime"
	"parkspot/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PricingRuleBuilder struct {
	SlotID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Price     decimal.Decimal
	Active    bool
	CreatedAt time.Time
}

func NewPricingRuleBuilder() *PricingRuleBuilder {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &PricingRuleBuilder{
		SlotID:    uuid.New(),
		StartTime: now,
		EndTime:   now.Add(7 * 24 * time.Hour),
		Price:     decimal.NewFromInt(800),
		Active:    true,
		CreatedAt: now,
	}
}

func (p *PricingRuleBuilder) With(mutate func(*PricingRuleBuilder)) *PricingRuleBuilder {
	mutate(p)
	return p
}

func (p *PricingRuleBuilder) BuildDomain() (*pricing.Rule, error) {
	iv, err := dombooking.NewInterval(p.StartTime, p.EndTime)
	if err != nil {
		return nil, err
	}
	return pricing.NewRule(p.SlotID, iv, p.Price)
}

func (p *PricingRuleBuilder) BuildReconstructed(createdAt time.Time) *pricing.Rule {
	iv := dombooking.ReconstructInterval(p.StartTime, p.EndTime)
	return pricing.ReconstructRule(uuid.New(), p.SlotID, iv, p.Price, p.Active, createdAt)
}

func (p *PricingRuleBuilder) BuildCreateRequestDTO() reqdto.CreatePricingRuleRequest {
	return reqdto.CreatePricingRuleRequest{
		SlotID:    p.SlotID,
		StartTime: apitime.UTCMillis{Time: p.StartTime},
		EndTime:   apitime.UTCMillis{Time: p.EndTime},
		Price:     p.Price,
	}
}

func (p *PricingRuleBuilder) BuildViewQuery() *queries.PricingRuleView {
	return &queries.PricingRuleView{
		ID:        uuid.New(),
		SlotID:    p.SlotID,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Price:     p.Price,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}
