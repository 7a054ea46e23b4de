package event

import (
	"time"

	// Embedded zone data so Europe/London resolves on minimal CI images.
	_ "time/tzdata"
)

const (
	// DisplayTimeZone is the civil timezone every published date and time uses.
	DisplayTimeZone = "Europe/London"

	DateFormat         = "2006-01-02"
	TimeFormat         = "15:04"
	TimeRangeSeparator = "–" // en dash

	// TimestampFormat renders lastUpdated as UTC with milliseconds,
	// e.g. 2024-03-10T12:00:00.000Z.
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// LoadDisplayLocation returns the DisplayTimeZone location.
func LoadDisplayLocation() (*time.Location, error) {
	return time.LoadLocation(DisplayTimeZone)
}

// ParseTimestamp parses an Airtable datetime (RFC 3339, usually with
// milliseconds). Date-only values are taken as midnight UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatDate renders t's calendar date in loc as YYYY-MM-DD.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateFormat)
}

// FormatTime renders t's wall-clock time in loc as 24-hour HH:MM.
func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimeFormat)
}

// FormatTimeRange renders "HH:MM–HH:MM" in loc.
func FormatTimeRange(start, end time.Time, loc *time.Location) string {
	return FormatTime(start, loc) + TimeRangeSeparator + FormatTime(end, loc)
}

// FormatTimestamp renders the lastUpdated value for now.
func FormatTimestamp(now time.Time) string {
	return now.UTC().Format(TimestampFormat)
}

// WindowStart returns the first day of the month before now's month in loc,
// formatted as YYYY-MM-DD. Events dated on or after it are published.
func WindowStart(now time.Time, loc *time.Location) string {
	local := now.In(loc)
	// Month 0 normalizes to December of the previous year.
	first := time.Date(local.Year(), local.Month()-1, 1, 0, 0, 0, 0, loc)
	return first.Format(DateFormat)
}

// FilterFrom keeps events dated on or after threshold, in their original
// order. Dates are zero-padded YYYY-MM-DD, so string comparison is date
// comparison. There is no upper bound.
func FilterFrom(events []Event, threshold string) []Event {
	kept := make([]Event, 0, len(events))
	for _, evt := range events {
		if evt.Date >= threshold {
			kept = append(kept, evt)
		}
	}
	return kept
}
