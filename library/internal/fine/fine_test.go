package fine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/polyakovs/library-lending/library/internal/fine"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPolicy_Fine(t *testing.T) {
	t.Parallel()
	p := fine.NewPolicy(10)

	var tests = []struct {
		name     string
		due      time.Time
		returned time.Time
		want     int64
	}{
		{
			name:     "on due date",
			due:      date(2024, time.January, 15),
			returned: date(2024, time.January, 15),
			want:     0,
		},
		{
			name:     "before due date",
			due:      date(2024, time.January, 15),
			returned: date(2024, time.January, 10),
			want:     0,
		},
		{
			name:     "five days late",
			due:      date(2024, time.January, 15),
			returned: date(2024, time.January, 20),
			want:     50,
		},
		{
			name:     "one day late",
			due:      date(2024, time.January, 15),
			returned: date(2024, time.January, 16),
			want:     10,
		},
		{
			name:     "late across month boundary",
			due:      date(2024, time.January, 31),
			returned: date(2024, time.February, 3),
			want:     30,
		},
		{
			name:     "time of day is ignored",
			due:      date(2024, time.January, 15),
			returned: time.Date(2024, time.January, 15, 23, 59, 0, 0, time.UTC),
			want:     0,
		},
		{
			name:     "one day late in a positive-offset zone",
			due:      date(2024, time.June, 10),
			returned: time.Date(2024, time.June, 11, 0, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60)),
			want:     10,
		},
		{
			name:     "returned on the due date in a negative-offset zone",
			due:      date(2024, time.June, 10),
			returned: time.Date(2024, time.June, 10, 20, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60)),
			want:     0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, p.Fine(tt.due, tt.returned))
		})
	}
}

func TestPolicy_Fine_Monotonic(t *testing.T) {
	t.Parallel()
	p := fine.NewPolicy(10)
	due := date(2024, time.March, 1)

	prev := int64(0)
	for days := 1; days <= 60; days++ {
		got := p.Fine(due, due.AddDate(0, 0, days))
		require.Positive(t, got)
		require.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestNewPolicy_DefaultRate(t *testing.T) {
	t.Parallel()
	p := fine.NewPolicy(0)
	require.Equal(t, int64(fine.DefaultDailyRate), p.DailyRate)
}
