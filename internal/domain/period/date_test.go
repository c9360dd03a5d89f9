package period

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("end of month uses day zero of next month", func(t *testing.T) {
		tests := []struct {
			in   string
			want string
		}{
			{"2024-02-10", "2024-02-29"},
			{"2025-02-10", "2025-02-28"},
			{"2000-02-01", "2000-02-29"},
			{"1900-02-01", "1900-02-28"},
			{"2026-12-05", "2026-12-31"},
			{"2026-04-30", "2026-04-30"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, MustParseDate(tt.in).EndOfMonth().String(), tt.in)
		}
	})

	t.Run("AddYears clamps Feb 29 into non-leap years", func(t *testing.T) {
		assert.Equal(t, "2023-02-28", MustParseDate("2024-02-29").AddYears(-1).String())
		assert.Equal(t, "2020-02-29", MustParseDate("2024-02-29").AddYears(-4).String())
		assert.Equal(t, "2025-03-01", MustParseDate("2026-03-01").AddYears(-1).String())
	})

	t.Run("AddDays crosses month and year boundaries", func(t *testing.T) {
		assert.Equal(t, "2025-12-31", MustParseDate("2026-01-01").AddDays(-1).String())
		assert.Equal(t, "2024-03-01", MustParseDate("2024-02-29").AddDays(1).String())
	})

	t.Run("DaysSince counts whole days", func(t *testing.T) {
		assert.Equal(t, 0, MustParseDate("2026-01-01").DaysSince(MustParseDate("2026-01-01")))
		assert.Equal(t, 366, MustParseDate("2025-01-01").DaysSince(MustParseDate("2024-01-01")))
		assert.Equal(t, -31, MustParseDate("2026-01-01").DaysSince(MustParseDate("2026-02-01")))
	})

	t.Run("DaysSince spans centuries", func(t *testing.T) {
		assert.Equal(t, 119158, MustParseDate("2026-03-31").DaysSince(MustParseDate("1700-01-01")))
		assert.Equal(t, -119158, MustParseDate("1700-01-01").DaysSince(MustParseDate("2026-03-31")))
	})

	t.Run("Quarter", func(t *testing.T) {
		assert.Equal(t, 1, NewDate(2026, time.March, 31).Quarter())
		assert.Equal(t, 2, NewDate(2026, time.April, 1).Quarter())
		assert.Equal(t, 4, NewDate(2026, time.December, 31).Quarter())
	})

	t.Run("parse accepts single digit month and day", func(t *testing.T) {
		d, err := ParseDate("2026-4-1")
		require.NoError(t, err)
		assert.Equal(t, "2026-04-01", d.String())
	})

	t.Run("parse rejects garbage", func(t *testing.T) {
		_, err := ParseDate("01/04/2026")
		assert.Error(t, err)
	})

	t.Run("JSON round trip", func(t *testing.T) {
		var r DateRange
		require.NoError(t, json.Unmarshal([]byte(`{"from":"2026-04-01","to":"2026-06-30"}`), &r))
		assert.Equal(t, 91, r.Days())
		b, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"from":"2026-04-01","to":"2026-06-30"}`, string(b))
	})
}

func TestDateRange(t *testing.T) {
	t.Run("rejects inverted range", func(t *testing.T) {
		_, err := NewDateRange(MustParseDate("2026-02-01"), MustParseDate("2026-01-01"))
		assert.ErrorIs(t, err, ErrInvertedRange)
	})

	t.Run("rejects zero dates", func(t *testing.T) {
		assert.Error(t, DateRange{}.Validate())
	})

	t.Run("single day range has one day", func(t *testing.T) {
		r, err := NewDateRange(MustParseDate("2026-02-01"), MustParseDate("2026-02-01"))
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("Contains includes both ends", func(t *testing.T) {
		r := DateRange{From: MustParseDate("2026-01-01"), To: MustParseDate("2026-01-31")}
		assert.True(t, r.Contains(MustParseDate("2026-01-01")))
		assert.True(t, r.Contains(MustParseDate("2026-01-31")))
		assert.False(t, r.Contains(MustParseDate("2026-02-01")))
	})
}
