package expense

import (
	"fmt"
	"time"

	"max.ks1230/expense-ledger/internal/model/customerr"
)

// CalendarDate is a day without time of day or timezone.
type CalendarDate struct {
	Day   int
	Month time.Month
	Year  int
}

func NewDate(year int, month time.Month, day int) (CalendarDate, error) {
	if month < time.January || month > time.December {
		return CalendarDate{}, customerr.NewValidation("date", fmt.Sprintf("month %d out of range", month))
	}
	if day < 1 || day > daysIn(month, year) {
		return CalendarDate{}, customerr.NewValidation("date", fmt.Sprintf("day %d out of range for %s %d", day, month, year))
	}
	return CalendarDate{Day: day, Month: month, Year: year}, nil
}

// DateOf takes the calendar day of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Day: d, Month: m, Year: y}
}

func (d CalendarDate) LeapYear() bool {
	return isLeap(d.Year)
}

func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Compare(other) < 0
}

func (d CalendarDate) After(other CalendarDate) bool {
	return d.Compare(other) > 0
}

func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.Compare(other) == 0
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Day, d.Month, d.Year)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}
