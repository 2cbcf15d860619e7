package fine

import (
	"time"

	"github.com/polyakovs/library-lending/library/internal/model"
)

const DefaultDailyRate = 10

// Calculator computes the fine owed for a loan returned on a given day.
type Calculator interface {
	Fine(due, returned time.Time) int64
}

// Policy charges a flat rate per whole day past the due date. Returning
// on or before the due date costs nothing.
type Policy struct {
	DailyRate int64
}

func NewPolicy(dailyRate int64) Policy {
	if dailyRate <= 0 {
		dailyRate = DefaultDailyRate
	}
	return Policy{DailyRate: dailyRate}
}

func (p Policy) Fine(due, returned time.Time) int64 {
	due = model.TruncateDay(due)
	returned = model.TruncateDay(returned)
	if !returned.After(due) {
		return 0
	}
	days := int64(returned.Sub(due) / (24 * time.Hour))
	return p.DailyRate * days
}
