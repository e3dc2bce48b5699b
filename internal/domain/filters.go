package domain

import (
	"fmt"
	"time"
)

// FilterSet narrows a recommendation request. Nil fields impose no constraint.
type FilterSet struct {
	GenreID    *int
	MaxRuntime *int
	Decade     *int
}

// DateRange is an inclusive range of release dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// InvalidDecadeError is returned when a decade value is not a four-digit year.
type InvalidDecadeError struct {
	Year int
}

func (e *InvalidDecadeError) Error() string {
	return fmt.Sprintf("decade must be a four-digit year, got %d", e.Year)
}

// DecadeRange truncates year to its decade and returns the first and last day
// of that decade, so 1995 maps to [1990-01-01, 1999-12-31].
func DecadeRange(year int) (DateRange, error) {
	if year < 1000 || year > 9999 {
		return DateRange{}, &InvalidDecadeError{Year: year}
	}
	start := year - year%10
	return DateRange{
		From: time.Date(start, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(start+9, time.December, 31, 0, 0, 0, 0, time.UTC),
	}, nil
}

// ReleaseRange resolves the decade filter. ok is false when no decade is set.
func (f FilterSet) ReleaseRange() (r DateRange, ok bool, err error) {
	if f.Decade == nil {
		return DateRange{}, false, nil
	}
	r, err = DecadeRange(*f.Decade)
	if err != nil {
		return DateRange{}, false, err
	}
	return r, true, nil
}
