package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/airtable-events/internal/event"
	"google.golang.org/api/option"
)

func TestFileStorage_Write(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "site", "_data", "events.json")

	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if store.Location() != path {
		t.Errorf("Location() = %q, want %q", store.Location(), path)
	}

	if err := store.Write(context.Background(), []byte("first run, a longer document\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := store.Write(context.Background(), []byte("second\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "second\n" {
		t.Errorf("file contents = %q, want full overwrite with %q", data, "second\n")
	}
}

func TestFileStorage_WriteCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	store, err := New(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Write(ctx, []byte("{}")); err == nil {
		t.Error("Write() expected error on canceled context")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written after cancellation")
	}
}

func TestFileStorage_WriteUnwritable(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := New(filepath.Join(blocker, "events.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(context.Background(), []byte("{}")); err == nil {
		t.Error("Write() expected error when parent is a file")
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	store, err := New("~/events/events.json")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if want := filepath.Join(home, "events", "events.json"); store.Location() != want {
		t.Errorf("Location() = %q, want %q", store.Location(), want)
	}
}

func TestFileStorage_Load(t *testing.T) {
	tests := []struct {
		name      string
		content   *string
		wantErr   bool
		wantCount int
	}{
		{
			name:      "missing file is empty",
			content:   nil,
			wantCount: 0,
		},
		{
			name:      "previous envelope",
			content:   strPtr(`{"lastUpdated":"2024-03-10T12:00:00.000Z","events":[{"date":"2024-03-15","title":"A"},{"date":"2024-03-16","title":"B"}]}`),
			wantCount: 2,
		},
		{
			name:    "corrupt file",
			content: strPtr(`{"lastUpdated": "2024-03-10T12:0`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "events.json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			store, err := New(path)
			if err != nil {
				t.Fatal(err)
			}

			env, err := store.Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(env.Events) != tt.wantCount {
				t.Errorf("Load() returned %d events, want %d", len(env.Events), tt.wantCount)
			}
		})
	}
}

func TestFileStorage_RoundTripEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	store, err := New(path)
	if err != nil {
		t.Fatal(err)
	}

	env := event.NewEnvelope(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), []event.Event{
		{Date: "2024-03-15", Title: "Jazz Night", Time: "19:30–21:00", Type: "gig"},
	})
	data, err := env.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(context.Background(), data); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.LastUpdated != env.LastUpdated {
		t.Errorf("LastUpdated = %q, want %q", loaded.LastUpdated, env.LastUpdated)
	}
	if len(loaded.Events) != 1 || loaded.Events[0] != env.Events[0] {
		t.Errorf("Events = %+v, want %+v", loaded.Events, env.Events)
	}
}

func TestGCSStorage_Write(t *testing.T) {
	var gotPath, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/upload/") {
			gotPath = r.URL.Path
			gotBody = string(body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"kind":"storage#object","bucket":"site-bucket","name":"events.json","size":"2"}`)
	}))
	defer server.Close()

	ctx := context.Background()
	store, err := NewGCS(ctx, "site-bucket", "events.json",
		option.WithEndpoint(server.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewGCS() error: %v", err)
	}
	defer store.Close()

	if store.Location() != "gs://site-bucket/events.json" {
		t.Errorf("Location() = %q", store.Location())
	}

	payload := `{"lastUpdated":"2024-03-10T12:00:00.000Z","events":[]}`
	if err := store.Write(ctx, []byte(payload)); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if !strings.Contains(gotPath, "/b/site-bucket/o") {
		t.Errorf("upload path = %q, want bucket site-bucket", gotPath)
	}
	if !strings.Contains(gotBody, payload) {
		t.Errorf("upload body does not contain the envelope:\n%s", gotBody)
	}
	if !strings.Contains(gotBody, "events.json") {
		t.Errorf("upload body does not name the object:\n%s", gotBody)
	}
}

func strPtr(s string) *string {
	return &s
}

func TestStreamWriter(t *testing.T) {
	var buf strings.Builder
	w := NewStream(&buf, "stdout")

	if w.Location() != "stdout" {
		t.Errorf("Location() = %q, want stdout", w.Location())
	}
	if err := w.Write(context.Background(), []byte("{}\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if buf.String() != "{}\n" {
		t.Errorf("written = %q", buf.String())
	}
}
