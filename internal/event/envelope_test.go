package event

import (
	"strings"
	"testing"
	"time"
)

func TestNewEnvelope(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	env := NewEnvelope(now, nil)
	if env.LastUpdated != "2024-03-10T12:00:00.000Z" {
		t.Errorf("LastUpdated = %q", env.LastUpdated)
	}
	if env.Events == nil {
		t.Error("Events should never be nil")
	}
}

func TestEnvelope_Encode(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	env := NewEnvelope(now, []Event{
		{
			Date:  "2024-03-15",
			Title: "Rock & Roll <Live>",
			Venue: "The Crypt",
			Time:  "19:30–21:00",
			Type:  "gig",
			URL:   "https://example.com/?a=1&b=2",
		},
	})

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{
  "lastUpdated": "2024-03-10T12:00:00.000Z",
  "events": [
    {
      "date": "2024-03-15",
      "title": "Rock & Roll <Live>",
      "venue": "The Crypt",
      "time": "19:30–21:00",
      "type": "gig",
      "url": "https://example.com/?a=1&b=2",
      "description": ""
    }
  ]
}
`
	if string(data) != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", data, want)
	}
}

func TestEnvelope_EncodeEmpty(t *testing.T) {
	env := NewEnvelope(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), []Event{})

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(string(data), `"events": []`) {
		t.Errorf("empty list should encode as [], got:\n%s", data)
	}
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"lastUpdated":"2024-03-10T12:00:00.000Z","events":[{"date":"2024-03-15","title":"A"}]}`))
		if err != nil {
			t.Fatalf("DecodeEnvelope() error = %v", err)
		}
		if len(env.Events) != 1 || env.Events[0].Title != "A" {
			t.Errorf("Events = %+v", env.Events)
		}
	})

	t.Run("null events", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"lastUpdated":"x","events":null}`))
		if err != nil {
			t.Fatalf("DecodeEnvelope() error = %v", err)
		}
		if env.Events == nil {
			t.Error("Events should be initialized")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := DecodeEnvelope([]byte(`{"events": [`)); err == nil {
			t.Error("DecodeEnvelope() expected error")
		}
	})
}
