package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time range [start, end). Bookings and pricing
// rules share this type; two intervals overlap iff a.start < b.end and
// b.start < a.end, so touching endpoints do not overlap.
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	// Zero-length intervals are invalid input, not an empty booking.
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{
		start: start.UTC(),
		end:   end.UTC(),
	}, nil
}

func ReconstructInterval(start, end time.Time) Interval {
	return Interval{start: start.UTC(), end: end.UTC()}
}

func (iv Interval) Start() time.Time {
	return iv.start
}

func (iv Interval) End() time.Time {
	return iv.end
}

func (iv Interval) Duration() time.Duration {
	return iv.end.Sub(iv.start)
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && other.start.Before(iv.end)
}

// Contains reports whether the instant t falls inside the half-open range,
// start <= t < end. This is the "active now" test; an instant is not an
// interval, so Overlaps is deliberately not reused here.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.start) && t.Before(iv.end)
}

// Encode renders the interval as a Postgres tstzrange literal.
func (iv Interval) Encode() string {
	return fmt.Sprintf("[%s,%s)", iv.start.Format(time.RFC3339), iv.end.Format(time.RFC3339))
}
