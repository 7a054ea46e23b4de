// Package event turns Airtable records into the events published to the site.
//
// It owns the output schema (Event and the Envelope written to disk), the
// rendering of dates and times in the display timezone, the window filter
// that drops events older than the start of the previous month, and a diff
// of one envelope against the next for the run summary.
package event
