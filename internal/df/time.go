package df

import "fmt"

// Calendar constants. One tick is the smallest unit of game time.
const (
	TicksPerDay   = 1200
	DaysPerMonth  = 28
	MonthsPerYear = 12
	TicksPerMonth = TicksPerDay * DaysPerMonth
	TicksPerYear  = TicksPerMonth * MonthsPerYear
	TicksPerHour  = TicksPerDay / 24
)

var monthNames = [MonthsPerYear]string{
	"Granite", "Slate", "Felsite",
	"Hematite", "Malachite", "Galena",
	"Limestone", "Sandstone", "Timber",
	"Moonstone", "Opal", "Obsidian",
}

var seasonNames = [4]string{"Spring", "Summer", "Autumn", "Winter"}

// Time is a non-negative span of game ticks. It doubles as an absolute
// date counted from year 0.
type Time uint64

// Date builds a Time from a year and a tick within that year. Negative
// inputs are treated as zero.
func Date(year, tick int32) Time {
	return Years(int64(year)) + Ticks(int64(tick))
}

// Ticks converts a raw tick count, clamping negatives to zero.
func Ticks(n int64) Time {
	if n < 0 {
		return 0
	}
	return Time(n)
}

// Years converts whole years, clamping negatives to zero.
func Years(n int64) Time { return Ticks(n) * TicksPerYear }

// Months converts whole months, clamping negatives to zero.
func Months(n int64) Time { return Ticks(n) * TicksPerMonth }

// Days converts whole days, clamping negatives to zero.
func Days(n int64) Time { return Ticks(n) * TicksPerDay }

// Add returns t+u.
func (t Time) Add(u Time) Time { return t + u }

// Sub returns t-u, saturating at zero.
func (t Time) Sub(u Time) Time {
	if u > t {
		return 0
	}
	return t - u
}

// Year returns whole years.
func (t Time) Year() int { return int(t / TicksPerYear) }

// TotalMonths returns whole months.
func (t Time) TotalMonths() int { return int(t / TicksPerMonth) }

// TotalDays returns whole days.
func (t Time) TotalDays() int { return int(t / TicksPerDay) }

// Month returns the month of the year, 0 through 11.
func (t Time) Month() int { return t.TotalDays() / DaysPerMonth % MonthsPerYear }

// Day returns the day of the month, 1 through 28.
func (t Time) Day() int { return t.TotalDays()%DaysPerMonth + 1 }

// MonthName returns the name of the month.
func (t Time) MonthName() string { return monthNames[t.Month()] }

// Season returns the season the month falls in.
func (t Time) Season() string { return seasonNames[t.Month()/3] }

// String formats t as a calendar date.
func (t Time) String() string {
	return fmt.Sprintf("%d %s, year %d", t.Day(), t.MonthName(), t.Year())
}
