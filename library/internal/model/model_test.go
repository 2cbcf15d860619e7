package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/polyakovs/library-lending/library/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLoan_Status(t *testing.T) {
	t.Parallel()

	due := date(2024, time.January, 15)
	returned := date(2024, time.March, 1)

	var tests = []struct {
		name  string
		loan  model.Loan
		today time.Time
		want  model.LoanStatus
	}{
		{
			name:  "open before due date",
			loan:  model.Loan{DueDate: due},
			today: date(2024, time.January, 10),
			want:  model.StatusIssued,
		},
		{
			name:  "open on due date",
			loan:  model.Loan{DueDate: due},
			today: due,
			want:  model.StatusIssued,
		},
		{
			name:  "open past due date",
			loan:  model.Loan{DueDate: due},
			today: date(2024, time.January, 16),
			want:  model.StatusOverdue,
		},
		{
			name:  "returned is terminal even when late",
			loan:  model.Loan{DueDate: due, ReturnDate: &returned},
			today: date(2024, time.June, 1),
			want:  model.StatusReturned,
		},
		{
			name:  "time of day does not flip the status",
			loan:  model.Loan{DueDate: due},
			today: time.Date(2024, time.January, 15, 23, 30, 0, 0, time.UTC),
			want:  model.StatusIssued,
		},
		{
			name:  "due today stays issued in a negative-offset zone",
			loan:  model.Loan{DueDate: date(2024, time.June, 10)},
			today: time.Date(2024, time.June, 10, 12, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60)),
			want:  model.StatusIssued,
		},
		{
			name:  "lapsed yesterday is overdue in a positive-offset zone",
			loan:  model.Loan{DueDate: date(2024, time.June, 10)},
			today: time.Date(2024, time.June, 11, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60)),
			want:  model.StatusOverdue,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.loan.Status(tt.today))
		})
	}
}

func TestLoanFilter_Valid(t *testing.T) {
	t.Parallel()
	require.True(t, model.FilterAll.Valid())
	require.True(t, model.FilterActive.Valid())
	require.True(t, model.FilterOverdue.Valid())
	require.False(t, model.LoanFilter("bogus").Valid())
	require.False(t, model.LoanFilter("").Valid())
}
