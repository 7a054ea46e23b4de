package event

// DiffResult lists what changed between two published event lists
type DiffResult struct {
	Added   []Event
	Removed []Event
}

// Changed reports whether anything was added or removed
func (d *DiffResult) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Key identifies an event across runs. Published events carry no record ID,
// so an edit to any keyed field shows up as one removal plus one addition.
func (e Event) Key() string {
	return e.Date + "|" + e.Time + "|" + e.Title + "|" + e.Venue
}

// Diff compares the events of a previous envelope with the current list.
// Added keeps current order and Removed keeps previous order. Duplicate keys
// are counted, so two identical listings replacing one yield one addition.
func Diff(previous *Envelope, current []Event) *DiffResult {
	result := &DiffResult{
		Added:   make([]Event, 0),
		Removed: make([]Event, 0),
	}

	var prevEvents []Event
	if previous != nil {
		prevEvents = previous.Events
	}

	remaining := make(map[string]int, len(prevEvents))
	for _, evt := range prevEvents {
		remaining[evt.Key()]++
	}

	for _, evt := range current {
		key := evt.Key()
		if remaining[key] > 0 {
			remaining[key]--
			continue
		}
		result.Added = append(result.Added, evt)
	}

	for _, evt := range prevEvents {
		key := evt.Key()
		if remaining[key] > 0 {
			remaining[key]--
			result.Removed = append(result.Removed, evt)
		}
	}

	return result
}
