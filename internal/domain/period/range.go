package period

import (
	"errors"
	"fmt"
)

// ErrInvertedRange is returned when a range ends before it starts.
var ErrInvertedRange = errors.New("range end is before range start")

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewDateRange builds a range and checks that from <= to.
func NewDateRange(from, to Date) (DateRange, error) {
	r := DateRange{From: from, To: to}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks that both ends are set and ordered.
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return errors.New("range requires both from and to")
	}
	if r.To.Before(r.From) {
		return fmt.Errorf("%w: %s > %s", ErrInvertedRange, r.From, r.To)
	}
	return nil
}

// Days returns the inclusive number of days in the range. A single-day range has one day.
func (r DateRange) Days() int {
	return r.To.DaysSince(r.From) + 1
}

// Contains reports whether d falls within the range, boundaries included.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Equal reports whether both ends match.
func (r DateRange) Equal(o DateRange) bool {
	return r.From == o.From && r.To == o.To
}

func (r DateRange) String() string {
	return r.From.String() + ".." + r.To.String()
}
