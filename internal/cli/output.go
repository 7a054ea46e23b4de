package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/airtable-events/internal/event"
	"github.com/pfrederiksen/airtable-events/internal/export"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Summary describes a finished export run
type Summary struct {
	LastUpdated string        `json:"last_updated"`
	Fetched     int           `json:"fetched"`
	Published   int           `json:"published"`
	WindowStart string        `json:"window_start"`
	Added       []event.Event `json:"added"`
	Removed     []event.Event `json:"removed"`
	Locations   []string      `json:"locations"`
	DryRun      bool          `json:"dry_run,omitempty"`
}

// NewSummary builds a Summary from an export result
func NewSummary(result *export.Result, dryRun bool) *Summary {
	return &Summary{
		LastUpdated: result.Envelope.LastUpdated,
		Fetched:     result.Fetched,
		Published:   result.Kept,
		WindowStart: result.WindowStart,
		Added:       result.Diff.Added,
		Removed:     result.Diff.Removed,
		Locations:   result.Locations,
		DryRun:      dryRun,
	}
}

// WriteSummary writes the summary in the specified format
func WriteSummary(w io.Writer, s *Summary, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatText:
		return writeText(w, s, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, s *Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(s)
}

// writeText outputs the summary as human-readable text. Verbose lists each
// added and removed event.
func writeText(w io.Writer, s *Summary, verbose bool) error {
	fmt.Fprintf(w, "Published %d of %d approved events (from %s)\n", s.Published, s.Fetched, s.WindowStart)

	if len(s.Added) == 0 && len(s.Removed) == 0 {
		fmt.Fprintln(w, "No changes since last run.")
	} else {
		fmt.Fprintf(w, "Changes: %d added, %d removed\n", len(s.Added), len(s.Removed))
		if verbose {
			for _, evt := range s.Added {
				fmt.Fprintf(w, "  + %s\n", describe(evt))
			}
			for _, evt := range s.Removed {
				fmt.Fprintf(w, "  - %s\n", describe(evt))
			}
		}
	}

	if s.DryRun {
		fmt.Fprintln(w, "Dry run: nothing written.")
		return nil
	}
	for _, loc := range s.Locations {
		fmt.Fprintf(w, "Wrote %s\n", loc)
	}
	return nil
}

// describe renders "date time title @ venue", skipping empty parts
func describe(evt event.Event) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{evt.Date, evt.Time, evt.Title} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, " ")
	if evt.Venue != "" {
		line += " @ " + evt.Venue
	}
	return line
}
