// Package date provides a local calendar date value without a time
// component. All habit scheduling and completion bookkeeping is keyed by
// the canonical YYYY-MM-DD form to avoid timezone-boundary bugs that come
// with raw timestamps.
package date

import (
	"time"

	errorvalues "github.com/strideapp/stride/internal/error_values"
)

// Layout is the canonical string form of a local date.
const Layout = "2006-01-02"

// Local is a year/month/day triple. The zero value means "no date".
type Local struct {
	year  int
	month time.Month
	day   int
}

func New(year int, month time.Month, day int) Local {
	// Normalize through time.Date so New(2024, 2, 30) carries over to March
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Local{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Parse accepts only the canonical YYYY-MM-DD form.
func Parse(s string) (Local, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Local{}, errorvalues.ErrInvalidDate
	}
	return FromTime(t), nil
}

// FromTime takes the calendar date of t in t's own location.
func FromTime(t time.Time) Local {
	return Local{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Today returns the current date in loc.
func Today(loc *time.Location) Local {
	return FromTime(time.Now().In(loc))
}

func (d Local) IsZero() bool {
	return d == Local{}
}

func (d Local) String() string {
	return d.Time().Format(Layout)
}

// Time returns midnight UTC of d, for arithmetic and formatting.
func (d Local) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Local) AddDays(n int) Local {
	return FromTime(d.Time().AddDate(0, 0, n))
}

func (d Local) Next() Local {
	return d.AddDays(1)
}

func (d Local) Prev() Local {
	return d.AddDays(-1)
}

// Weekday reports the day of week as 0 = Sunday .. 6 = Saturday.
func (d Local) Weekday() int {
	return int(d.Time().Weekday())
}

// ISOWeek reports the ISO 8601 year and week number of d.
func (d Local) ISOWeek() (year, week int) {
	return d.Time().ISOWeek()
}

func (d Local) Before(other Local) bool {
	return d.Compare(other) < 0
}

func (d Local) After(other Local) bool {
	return d.Compare(other) > 0
}

func (d Local) Equal(other Local) bool {
	return d == other
}

func (d Local) Compare(other Local) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes d as "YYYY-MM-DD", and the zero value as null.
func (d Local) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Local) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Local{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errorvalues.ErrInvalidDate
	}
	parsed, err := Parse(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
