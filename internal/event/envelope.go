package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the document written for the site
type Envelope struct {
	LastUpdated string  `json:"lastUpdated"`
	Events      []Event `json:"events"`
}

// NewEnvelope stamps events with now. Events is never nil, so an empty
// list is written as [] rather than null.
func NewEnvelope(now time.Time, events []Event) *Envelope {
	if events == nil {
		events = make([]Event, 0)
	}
	return &Envelope{
		LastUpdated: FormatTimestamp(now),
		Events:      events,
	}
}

// Encode renders the envelope as 2-space indented JSON with a trailing
// newline. HTML characters in titles and URLs are written as-is.
func (e *Envelope) Encode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(e); err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeEnvelope parses a previously written envelope.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing envelope: %w", err)
	}
	if env.Events == nil {
		env.Events = make([]Event, 0)
	}
	return &env, nil
}
