//go:build unit

package apitime_test

import (
	"encoding/json"
	"testing"
	"time"

	"parkspot/internal/pkg/apitime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("accepts the exact wire format", func(t *testing.T) {
		got, err := apitime.Parse("2023-01-03T12:00:00.000Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, 1, 3, 12, 0, 0, 0, time.UTC), got)
	})

	t.Run("keeps millisecond precision", func(t *testing.T) {
		got, err := apitime.Parse("2023-01-03T12:00:00.250Z")
		require.NoError(t, err)
		assert.Equal(t, 250*time.Millisecond, time.Duration(got.Nanosecond()))
	})

	rejected := []struct {
		name  string
		input string
	}{
		{"missing milliseconds", "2023-01-03T12:00:00Z"},
		{"missing Z suffix", "2023-01-03T12:00:00.000"},
		{"numeric offset instead of Z", "2023-01-03T12:00:00.000+00:00"},
		{"too many fractional digits", "2023-01-03T12:00:00.000000Z"},
		{"too few fractional digits", "2023-01-03T12:00:00.0Z"},
		{"date only", "2023-01-03"},
		{"empty string", ""},
		{"garbage", "not-a-timestamp"},
	}

	for _, tc := range rejected {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			_, err := apitime.Parse(tc.input)
			assert.ErrorIs(t, err, apitime.ErrInvalidTimestamp)
		})
	}
}

func TestFormat(t *testing.T) {
	t.Run("truncates to milliseconds with Z suffix", func(t *testing.T) {
		in := time.Date(2023, 1, 3, 12, 0, 0, 250_000_000, time.UTC)
		assert.Equal(t, "2023-01-03T12:00:00.250Z", apitime.Format(in))
	})

	t.Run("converts non-UTC input", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*3600)
		in := time.Date(2023, 1, 3, 21, 0, 0, 0, jst)
		assert.Equal(t, "2023-01-03T12:00:00.000Z", apitime.Format(in))
	})
}

func TestUTCMillis_JSON(t *testing.T) {
	type payload struct {
		At apitime.UTCMillis `json:"at"`
	}

	t.Run("round trip", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"at":"2023-01-03T12:00:00.000Z"}`), &p))
		assert.Equal(t, time.Date(2023, 1, 3, 12, 0, 0, 0, time.UTC), p.At.Time)

		out, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"at":"2023-01-03T12:00:00.000Z"}`, string(out))
	})

	t.Run("rejects second-precision timestamp", func(t *testing.T) {
		var p payload
		err := json.Unmarshal([]byte(`{"at":"2023-01-03T12:00:00Z"}`), &p)
		assert.ErrorIs(t, err, apitime.ErrInvalidTimestamp)
	})

	t.Run("rejects non-string value", func(t *testing.T) {
		var p payload
		err := json.Unmarshal([]byte(`{"at":1672747200}`), &p)
		assert.ErrorIs(t, err, apitime.ErrInvalidTimestamp)
	})
}
