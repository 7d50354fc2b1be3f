//go:build unit

package booking_test

import (
	"math/rand"
	"testing"
	"time"

	"parkspot/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

func mustInterval(t *testing.T, start, end time.Time) booking.Interval {
	t.Helper()
	iv, err := booking.NewInterval(start, end)
	require.NoError(t, err)
	return iv
}

func TestNewInterval(t *testing.T) {
	t.Run("valid interval", func(t *testing.T) {
		iv, err := booking.NewInterval(at(10), at(12))
		require.NoError(t, err)
		assert.Equal(t, at(10), iv.Start())
		assert.Equal(t, at(12), iv.End())
		assert.Equal(t, 2*time.Hour, iv.Duration())
	})

	t.Run("start equal to end is rejected", func(t *testing.T) {
		_, err := booking.NewInterval(at(10), at(10))
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		_, err := booking.NewInterval(at(12), at(10))
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*3600)
		iv, err := booking.NewInterval(at(10).In(jst), at(12).In(jst))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, iv.Start().Location())
		assert.True(t, iv.Start().Equal(at(10)))
	})
}

func TestInterval_Overlaps(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     booking.Interval
		overlaps bool
	}{
		{
			name:     "identical intervals",
			a:        mustInterval(t, at(10), at(12)),
			b:        mustInterval(t, at(10), at(12)),
			overlaps: true,
		},
		{
			name:     "partial overlap",
			a:        mustInterval(t, at(10), at(12)),
			b:        mustInterval(t, at(11), at(13)),
			overlaps: true,
		},
		{
			name:     "containment",
			a:        mustInterval(t, at(10), at(16)),
			b:        mustInterval(t, at(12), at(14)),
			overlaps: true,
		},
		{
			name:     "touching endpoints do not overlap",
			a:        mustInterval(t, at(10), at(12)),
			b:        mustInterval(t, at(12), at(14)),
			overlaps: false,
		},
		{
			name:     "touching endpoints reversed",
			a:        mustInterval(t, at(12), at(14)),
			b:        mustInterval(t, at(10), at(12)),
			overlaps: false,
		},
		{
			name:     "disjoint",
			a:        mustInterval(t, at(10), at(11)),
			b:        mustInterval(t, at(14), at(15)),
			overlaps: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
			// Overlap is symmetric
			assert.Equal(t, tc.overlaps, tc.b.Overlaps(tc.a))
		})
	}
}

func TestInterval_Overlaps_Property(t *testing.T) {
	// The half-open rule must agree with a brute-force instant scan at
	// one-hour granularity.
	rng := rand.New(rand.NewSource(42))

	for range 200 {
		s1 := rng.Intn(48)
		e1 := s1 + 1 + rng.Intn(24)
		s2 := rng.Intn(48)
		e2 := s2 + 1 + rng.Intn(24)

		a := mustInterval(t, at(s1), at(e1))
		b := mustInterval(t, at(s2), at(e2))

		shared := false
		for h := 0; h < 80; h++ {
			if s1 <= h && h < e1 && s2 <= h && h < e2 {
				shared = true
				break
			}
		}

		require.Equal(t, shared, a.Overlaps(b),
			"[%d,%d) vs [%d,%d)", s1, e1, s2, e2)
	}
}

func TestInterval_Contains(t *testing.T) {
	iv := mustInterval(t, at(10), at(12))

	assert.True(t, iv.Contains(at(10)), "start is inside")
	assert.True(t, iv.Contains(at(11)))
	assert.False(t, iv.Contains(at(12)), "end is outside (half-open)")
	assert.False(t, iv.Contains(at(9)))
	assert.False(t, iv.Contains(at(13)))
}

func TestInterval_Encode(t *testing.T) {
	iv := mustInterval(t, at(10), at(12))
	assert.Equal(t, "[2025-06-01T10:00:00Z,2025-06-01T12:00:00Z)", iv.Encode())
}
