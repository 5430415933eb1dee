// internal/domain/timesale/countdown.go
package timesale

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Countdown is the remaining time split into display fields
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// dateLayout is the calendar-date form used by StartDate/EndDate
const dateLayout = "2006-01-02"

// bare ISO datetime without a zone, produced by older admin saves
const bareISOLayout = "2006-01-02T15:04:05"

// NormalizeCountdownEnd maps every legacy countdown end-time encoding to a
// time.Time. This is the single place wire encodings are interpreted; new
// callers must go through it rather than parse raw values themselves.
//
// Supported encodings, all found in rows written by earlier versions:
//   - an RFC3339 string: "2024-05-01T00:00:00+09:00"
//   - a bare ISO datetime string without a zone, taken as local time
//   - a timestamp object {"seconds": n} or {"_seconds": n} (epoch seconds)
func NormalizeCountdownEnd(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty countdown end time")
	}

	// String encodings may arrive JSON-quoted or plain.
	str := raw
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal([]byte(raw), &str); err != nil {
			return time.Time{}, fmt.Errorf("malformed countdown end time: %w", err)
		}
	}

	if !strings.HasPrefix(str, "{") {
		if t, err := time.Parse(time.RFC3339, str); err == nil {
			return t, nil
		}
		if t, err := time.ParseInLocation(bareISOLayout, str, time.Local); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("unrecognized countdown end time %q", str)
	}

	var obj struct {
		Seconds     *int64 `json:"seconds"`
		RawSeconds  *int64 `json:"_seconds"`
		Nanoseconds int64  `json:"nanoseconds"`
	}
	if err := json.Unmarshal([]byte(str), &obj); err != nil {
		return time.Time{}, fmt.Errorf("malformed countdown end time object: %w", err)
	}
	switch {
	case obj.Seconds != nil:
		return time.Unix(*obj.Seconds, obj.Nanoseconds), nil
	case obj.RawSeconds != nil:
		return time.Unix(*obj.RawSeconds, obj.Nanoseconds), nil
	default:
		return time.Time{}, fmt.Errorf("countdown end time object has no seconds field")
	}
}

// parseDate interprets a YYYY-MM-DD string as local midnight of that day
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
}

// localMidnight truncates a time to the start of its local calendar day
func localMidnight(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// ResolveEndTime picks the countdown target for a sale. EndDate wins when
// parseable (the sale ends at the START of that date); the legacy countdown
// field is next; with neither, the target is local midnight of the current
// day, which reads as an expired sale.
func (s *TimeSale) ResolveEndTime(now time.Time) time.Time {
	if s.EndDate != "" {
		if d, err := parseDate(s.EndDate); err == nil {
			return d
		}
	}
	if s.LegacyCountdownEnd != "" {
		if t, err := NormalizeCountdownEnd(s.LegacyCountdownEnd); err == nil {
			return t
		}
	}
	return localMidnight(now)
}

// sameCalendarDay reports whether the sale's start and end dates normalize
// to the same local calendar day. Unparseable dates never match.
func (s *TimeSale) sameCalendarDay() bool {
	start, err := parseDate(s.StartDate)
	if err != nil {
		return false
	}
	end, err := parseDate(s.EndDate)
	if err != nil {
		return false
	}
	return start.Equal(end)
}

// Evaluate computes the remaining countdown at the given instant.
//
// A non-positive remainder zeroes every field. When the sale starts and ends
// on the same calendar day, or less than 24 hours remain, days is forced to
// zero and the full remaining hours land in the hours field; a short sale
// shows "23 hours", never "0 days, 23 hours" split oddly. This mirrors how
// the storefront has always displayed it, so it is pinned by tests.
func (s *TimeSale) Evaluate(now time.Time) Countdown {
	diff := s.ResolveEndTime(now).Sub(now)
	if diff <= 0 {
		return Countdown{}
	}

	totalSeconds := int(diff / time.Second)
	if s.sameCalendarDay() || diff < 24*time.Hour {
		return Countdown{
			Days:    0,
			Hours:   totalSeconds / 3600,
			Minutes: (totalSeconds % 3600) / 60,
			Seconds: totalSeconds % 60,
		}
	}

	return Countdown{
		Days:    totalSeconds / 86400,
		Hours:   (totalSeconds % 86400) / 3600,
		Minutes: (totalSeconds % 3600) / 60,
		Seconds: totalSeconds % 60,
	}
}
