package event

import (
	"strings"
	"time"

	"github.com/pfrederiksen/airtable-events/internal/airtable"
)

// Airtable field names read by FromRecord.
const (
	FieldStart      = "Start"
	FieldEnd        = "End"
	FieldTitle      = "Title"
	FieldVenue      = "Venue"
	FieldType       = "Type"
	FieldTicketsURL = "Tickets URL"
	FieldEventURL   = "Event URL"
)

// DefaultType is used when a record has no Type.
const DefaultType = "show"

// Event is one entry of the published events list
type Event struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"` // never populated
}

// FromRecord maps an Airtable record to an Event, rendering dates and times
// in loc. Missing fields fall back to defaults; it never fails.
//
// An empty string counts as missing, so an empty "Tickets URL" still falls
// through to "Event URL".
func FromRecord(rec airtable.Record, loc *time.Location) Event {
	f := rec.Fields

	evt := Event{
		Title: f.String(FieldTitle),
		Venue: f.String(FieldVenue),
		Type:  DefaultType,
		URL:   firstNonEmpty(f.String(FieldTicketsURL), f.String(FieldEventURL)),
	}

	if t := f.String(FieldType); t != "" {
		evt.Type = strings.ToLower(t)
	}

	if start, ok := ParseTimestamp(f.String(FieldStart)); ok {
		evt.Date = FormatDate(start, loc)
		evt.Time = FormatTime(start, loc)

		if end, ok := ParseTimestamp(f.String(FieldEnd)); ok {
			evt.Time = FormatTimeRange(start, end, loc)
		}
	}

	return evt
}

// FromRecords maps records in order
func FromRecords(records []airtable.Record, loc *time.Location) []Event {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		events = append(events, FromRecord(rec, loc))
	}
	return events
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
