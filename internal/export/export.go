// Package export runs one fetch, transform, filter and write cycle.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/airtable-events/internal/airtable"
	"github.com/pfrederiksen/airtable-events/internal/event"
	"github.com/pfrederiksen/airtable-events/internal/logger"
	"github.com/pfrederiksen/airtable-events/internal/storage"
)

// Fetcher returns approved records sorted by start
type Fetcher interface {
	ListApproved(ctx context.Context) ([]airtable.Record, error)
}

// PreviousLoader returns the envelope written by the last run
type PreviousLoader interface {
	Load() (*event.Envelope, error)
}

// Exporter holds the collaborators of a run
type Exporter struct {
	fetcher  Fetcher
	writers  []storage.Writer
	location *time.Location

	// Previous, when set, supplies the last envelope for the change summary.
	Previous PreviousLoader
	// Now is the run clock; it decides the window and lastUpdated.
	Now     func() time.Time
	Log     *logger.Logger
	Metrics *logger.Metrics
}

// Result summarizes a completed run
type Result struct {
	Fetched     int
	Kept        int
	WindowStart string
	Diff        *event.DiffResult
	Envelope    *event.Envelope
	Locations   []string
}

// New creates an Exporter rendering in loc and writing to writers in order.
func New(fetcher Fetcher, loc *time.Location, writers ...storage.Writer) *Exporter {
	return &Exporter{
		fetcher:  fetcher,
		writers:  writers,
		location: loc,
		Now:      time.Now,
		Log:      logger.Default(),
		Metrics:  logger.NewMetrics(),
	}
}

// Run fetches, transforms, filters and writes. Any error aborts the run
// before the first write, or stops at the writer that failed.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	now := e.Now()

	start := time.Now()
	records, err := e.fetcher.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}
	e.Metrics.RecordTiming("export.fetch", time.Since(start))

	threshold := event.WindowStart(now, e.location)
	events := event.FilterFrom(event.FromRecords(records, e.location), threshold)

	e.Log.Info("Filtered events", logger.Fields{
		"fetched":      len(records),
		"kept":         len(events),
		"window_start": threshold,
	})

	env := event.NewEnvelope(now, events)
	data, err := env.Encode()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Fetched:     len(records),
		Kept:        len(events),
		WindowStart: threshold,
		Diff:        event.Diff(e.loadPrevious(), events),
		Envelope:    env,
		Locations:   make([]string, 0, len(e.writers)),
	}

	e.Metrics.AddCounter("events.fetched", int64(result.Fetched))
	e.Metrics.AddCounter("events.kept", int64(result.Kept))
	e.Metrics.AddCounter("events.added", int64(len(result.Diff.Added)))
	e.Metrics.AddCounter("events.removed", int64(len(result.Diff.Removed)))

	for _, w := range e.writers {
		start := time.Now()
		if err := w.Write(ctx, data); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}
		e.Metrics.RecordTiming("export.write", time.Since(start))
		e.Log.Info("Wrote events", logger.Fields{
			"location": w.Location(),
			"events":   len(events),
			"bytes":    len(data),
		})
		result.Locations = append(result.Locations, w.Location())
	}

	return result, nil
}

// loadPrevious never fails the run; the summary is informational.
func (e *Exporter) loadPrevious() *event.Envelope {
	if e.Previous == nil {
		return nil
	}
	prev, err := e.Previous.Load()
	if err != nil {
		e.Log.Warn("Could not read previous output, reporting all events as added", logger.Fields{
			"error": err.Error(),
		})
		return nil
	}
	return prev
}
