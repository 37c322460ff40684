// Package datetime combines separately picked dates and clock times and
// formats timestamps for generated filenames.
package datetime

import (
	"fmt"
	"strings"
	"time"
)

// DateTime is [year, month (1-12), day, hour, minute].
type DateTime [5]int

// Combine takes the calendar fields from date and the clock fields from
// clock. Both are read in their own locations.
func Combine(date, clock time.Time) DateTime {
	return DateTime{
		date.Year(),
		int(date.Month()),
		date.Day(),
		clock.Hour(),
		clock.Minute(),
	}
}

func (d DateTime) Year() int   { return d[0] }
func (d DateTime) Month() int  { return d[1] }
func (d DateTime) Day() int    { return d[2] }
func (d DateTime) Hour() int   { return d[3] }
func (d DateTime) Minute() int { return d[4] }

// Validate checks the field ranges, including the day against the month
// length.
func (d DateTime) Validate() error {
	if d.Month() < 1 || d.Month() > 12 {
		return fmt.Errorf("month %d out of range", d.Month())
	}
	last := time.Date(d.Year(), time.Month(d.Month())+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d.Day() < 1 || d.Day() > last {
		return fmt.Errorf("day %d out of range for %04d-%02d", d.Day(), d.Year(), d.Month())
	}
	if d.Hour() < 0 || d.Hour() > 23 {
		return fmt.Errorf("hour %d out of range", d.Hour())
	}
	if d.Minute() < 0 || d.Minute() > 59 {
		return fmt.Errorf("minute %d out of range", d.Minute())
	}
	return nil
}

// Time builds the instant in loc. A nil loc means time.Local.
func (d DateTime) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year(), time.Month(d.Month()), d.Day(), d.Hour(), d.Minute(), 0, 0, loc)
}

func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute())
}

// Clock yields the current instant. Tests use FixedClock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

const filenameLayout = "2006-01-02_15-04-05"

// TimestampForFilename formats the clock's current instant as
// YYYY-MM-DD_HH-MM-SS.
func TimestampForFilename(c Clock) string {
	if c == nil {
		c = SystemClock{}
	}
	return c.Now().Format(filenameLayout)
}

var unsafeNameChars = strings.NewReplacer("/", "-", `\`, "-", "\x00", "")

// Filename returns "{name}_{timestamp}.{ext}". Path separators in name are
// replaced so the result is always a single path element.
func Filename(name, ext string, c Clock) string {
	return unsafeNameChars.Replace(name) + "_" + TimestampForFilename(c) + "." + ext
}
