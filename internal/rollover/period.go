package rollover

import (
	"time"

	"rentflow-backend/internal/domain"
)

// PeriodStart is midnight UTC on the first day of the month.
func PeriodStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// PreviousPeriod returns the calendar month before (year, month).
func PreviousPeriod(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// DaysIn returns the number of days in the month.
func DaysIn(year, month int) int {
	return PeriodStart(year, month).AddDate(0, 1, -1).Day()
}

// ClampedDate places day in (year, month), moving it back to the last day
// of the month when the month is shorter.
func ClampedDate(year, month, day int) time.Time {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func validPeriod(year, month int) error {
	fields := map[string]string{}
	if month < 1 || month > 12 {
		fields["month"] = "must be between 1 and 12"
	}
	if year < 1 {
		fields["year"] = "must be positive"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
