package fatdir

import (
	"time"
)

// ParseDate decodes a packed DOS date:
//
//	Bits 0-4:  day of month, 1-31
//	Bits 5-8:  month of year, 1-12
//	Bits 9-15: years since 1980, 0-127
//
// The result is at 00:00:00 UTC.
//
// Day 0 or month 0 are invalid and result in time.Time{}, so the result can be
// checked with IsZero. A month above 12 rolls over into the next year.
func ParseDate(input uint16) time.Time {
	day := input & 0x1F
	month := input >> 5 & 0x0F
	year := input >> 9

	if day == 0 || month == 0 {
		return time.Time{}
	}

	return time.Date(1980+int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
}

// ParseTime decodes a packed DOS time with a granularity of 2 seconds:
//
//	Bits 0-4:   seconds / 2, 0-29
//	Bits 5-10:  minutes, 0-59
//	Bits 11-15: hours, 0-23
//
// The result is on January 1 of year 1, so midnight IsZero.
//
// Out of range values are added up but the result never exceeds 23:59:59.
func ParseTime(input uint16) time.Time {
	seconds := int(input&0x1F) * 2
	minutes := input >> 5 & 0x3F
	hours := input >> 11

	result := time.Date(1, 1, 1, int(hours), int(minutes), seconds, 0, time.UTC)
	if result.Day() > 1 {
		return time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}
	return result
}

// ParseDateTime combines a packed DOS date and time.
// tenth is the creation time fine resolution in units of 10ms (0-199), pass 0 if unused.
// It returns time.Time{} if the date is invalid.
func ParseDateTime(date, tm uint16, tenth uint8) time.Time {
	d := ParseDate(date)
	if d.IsZero() {
		return time.Time{}
	}

	t := ParseTime(tm)
	fine := time.Duration(tenth) * 10 * time.Millisecond
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC).Add(fine)
}
