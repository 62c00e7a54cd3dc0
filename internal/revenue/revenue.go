package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in the salon's timezone, formatted YYYY-MM-DD.
type Day string

func DayOf(t time.Time, loc *time.Location) Day {
	return Day(t.In(loc).Format(dayLayout))
}

func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", errs.Validation("invalid day %q, want YYYY-MM-DD", s)
	}

	return Day(s), nil
}

// Bounds returns the half-open instant range [start, end) covered by the day in loc.
func (d Day) Bounds(loc *time.Location) (start, end time.Time, err error) {
	start, err = time.ParseInLocation(dayLayout, string(d), loc)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Validation("invalid day %q", d)
	}

	return start, start.AddDate(0, 0, 1), nil
}

func (d Day) String() string {
	return string(d)
}

// Row is the daily aggregate of finalized tickets.
type Row struct {
	Day         Day
	Revenue     decimal.Decimal
	Commissions decimal.Decimal
	TicketCount int64
	UpdatedAt   time.Time
}

// Delta is the amount one or more finalizations add to a day.
type Delta struct {
	Revenue     decimal.Decimal
	Commissions decimal.Decimal
	Tickets     int64
}

// Validate rejects negative deltas; the ledger only shrinks by deletion.
func (d Delta) Validate() error {
	if d.Revenue.IsNegative() || d.Commissions.IsNegative() || d.Tickets < 0 {
		return errs.Validation("negative revenue delta")
	}

	return nil
}
