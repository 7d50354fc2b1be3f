// Package apitime enforces the wire format for timestamps: ISO-8601 with
// exactly millisecond precision and a literal Z suffix, e.g.
// "2023-01-03T12:00:00.000Z". Anything else is rejected at the boundary.
package apitime

import (
	"encoding/json"
	"strings"
	"time"

	"parkspot/internal/pkg/errs"
)

const Layout = "2006-01-02T15:04:05.000Z"

var ErrInvalidTimestamp = errs.New("timestamp must be ISO-8601 with milliseconds and Z suffix")

// UTCMillis is a time.Time that only unmarshals the strict wire format.
// The zero value marks a missing field for request validation.
type UTCMillis struct {
	time.Time
}

func Parse(s string) (time.Time, error) {
	// The reference layout's trailing Z would also accept a numeric offset,
	// so the literal suffix is checked explicitly first.
	if !strings.HasSuffix(s, "Z") {
		return time.Time{}, ErrInvalidTimestamp
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, errs.Mark(err, ErrInvalidTimestamp)
	}
	return t.UTC(), nil
}

func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

func (u *UTCMillis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidTimestamp
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	u.Time = t
	return nil
}

func (u UTCMillis) MarshalJSON() ([]byte, error) {
	return json.Marshal(Format(u.Time))
}
