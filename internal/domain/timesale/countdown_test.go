// internal/domain/timesale/countdown_test.go
package timesale

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localTime(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.Local)
}

func TestNormalizeCountdownEnd_RFC3339String(t *testing.T) {
	got, err := NormalizeCountdownEnd(`"2024-05-01T10:30:00+09:00"`)
	require.NoError(t, err)

	want, _ := time.Parse(time.RFC3339, "2024-05-01T10:30:00+09:00")
	assert.True(t, got.Equal(want))
}

func TestNormalizeCountdownEnd_BareISODatetimeIsLocal(t *testing.T) {
	got, err := NormalizeCountdownEnd("2024-05-01T10:30:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(localTime(2024, time.May, 1, 10, 30, 0)))
}

func TestNormalizeCountdownEnd_SecondsObject(t *testing.T) {
	epoch := int64(1714521000)

	got, err := NormalizeCountdownEnd(fmt.Sprintf(`{"seconds": %d}`, epoch))
	require.NoError(t, err)
	assert.Equal(t, epoch, got.Unix())

	got, err = NormalizeCountdownEnd(fmt.Sprintf(`{"_seconds": %d, "_nanoseconds": 0}`, epoch))
	require.NoError(t, err)
	assert.Equal(t, epoch, got.Unix())
}

func TestNormalizeCountdownEnd_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "next tuesday", `{"minutes": 5}`, `{"seconds": "soon"}`} {
		_, err := NormalizeCountdownEnd(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestResolveEndTime_EndDateWinsOverLegacy(t *testing.T) {
	sale := &TimeSale{
		EndDate:            "2024-05-10",
		LegacyCountdownEnd: `"2024-06-01T00:00:00+09:00"`,
	}

	got := sale.ResolveEndTime(localTime(2024, time.May, 1, 12, 0, 0))
	assert.True(t, got.Equal(localTime(2024, time.May, 10, 0, 0, 0)),
		"sale must end at the start of the end date")
}

func TestResolveEndTime_FallsBackToLegacy(t *testing.T) {
	sale := &TimeSale{LegacyCountdownEnd: "2024-05-03T18:00:00"}
	got := sale.ResolveEndTime(localTime(2024, time.May, 1, 12, 0, 0))
	assert.True(t, got.Equal(localTime(2024, time.May, 3, 18, 0, 0)))
}

func TestResolveEndTime_DefaultsToTodayMidnight(t *testing.T) {
	sale := &TimeSale{}
	now := localTime(2024, time.May, 1, 15, 45, 0)
	assert.True(t, sale.ResolveEndTime(now).Equal(localTime(2024, time.May, 1, 0, 0, 0)))
}

func TestEvaluate_ExpiredSaleIsAllZeros(t *testing.T) {
	sale := &TimeSale{StartDate: "2024-04-01", EndDate: "2024-04-10"}
	got := sale.Evaluate(localTime(2024, time.May, 1, 12, 0, 0))
	assert.Equal(t, Countdown{}, got)
}

func TestEvaluate_MultiDaySplit(t *testing.T) {
	sale := &TimeSale{StartDate: "2024-05-01", EndDate: "2024-05-04"}
	// 2 days, 13 hours, 30 minutes, 15 seconds before midnight of May 4.
	got := sale.Evaluate(localTime(2024, time.May, 1, 10, 29, 45))
	assert.Equal(t, Countdown{Days: 2, Hours: 13, Minutes: 30, Seconds: 15}, got)
}

func TestEvaluate_SameCalendarDayNeverShowsDays(t *testing.T) {
	sale := &TimeSale{StartDate: "2024-05-03", EndDate: "2024-05-03"}

	// 36 hours out: still zero days, everything folded into hours.
	got := sale.Evaluate(localTime(2024, time.May, 1, 12, 0, 0))
	assert.Equal(t, 0, got.Days)
	assert.Equal(t, 36, got.Hours)
}

func TestEvaluate_Under24HoursFoldsIntoHours(t *testing.T) {
	sale := &TimeSale{StartDate: "2024-05-01", EndDate: "2024-05-02"}

	// 23 hours 59 minutes remaining.
	got := sale.Evaluate(localTime(2024, time.May, 1, 0, 1, 0))
	assert.Equal(t, Countdown{Days: 0, Hours: 23, Minutes: 59, Seconds: 0}, got)
}

func TestEvaluate_ExactlyAtEndIsZero(t *testing.T) {
	sale := &TimeSale{StartDate: "2024-05-01", EndDate: "2024-05-02"}
	got := sale.Evaluate(localTime(2024, time.May, 2, 0, 0, 0))
	assert.Equal(t, Countdown{}, got)
}
