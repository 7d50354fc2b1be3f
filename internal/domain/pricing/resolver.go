package pricing

import (
	"sort"

	"parkspot/internal/domain/booking"

	"github.com/shopspring/decimal"
)

// Resolver picks the price charged for a requested interval. The source data
// had no defined ordering among multiple matching rules; the tie-break here is
// deterministic: the latest-created rule wins. Callers get the standard price
// when no active rule overlaps the interval.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve scans rules newest-first and returns the price of the first active
// rule whose window overlaps iv, falling back to standardPrice. The matched
// rule is returned for auditing; nil means fallback.
func (r *Resolver) Resolve(standardPrice decimal.Decimal, rules []*Rule, iv booking.Interval) (decimal.Decimal, *Rule) {
	sorted := make([]*Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt().After(sorted[j].CreatedAt())
	})

	for _, rule := range sorted {
		if rule.AppliesTo(iv) {
			return rule.Price(), rule
		}
	}
	return standardPrice, nil
}

// ConflictsWith reports whether iv overlaps any active rule for the same slot.
// Rule creation uses this to keep the no-overlap intent of the rule set.
func ConflictsWith(existing []*Rule, iv booking.Interval) bool {
	for _, rule := range existing {
		if rule.AppliesTo(iv) {
			return true
		}
	}
	return false
}
