package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLogNotifierLevels(t *testing.T) {
	tests := []struct {
		severity string
		want     string
	}{
		{SeverityInfo, "INFO"},
		{SeverityWarning, "WARN"},
		{SeverityError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			var buf bytes.Buffer
			n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

			err := n.Notify(context.Background(), Event{
				Type:     EventRunStarted,
				RunID:    "run-1",
				Message:  "processing recording",
				Severity: tt.severity,
			})
			if err != nil {
				t.Fatalf("Notify() error = %v", err)
			}

			out := buf.String()
			if !strings.Contains(out, "level="+tt.want) {
				t.Errorf("log output %q missing level %s", out, tt.want)
			}
			if !strings.Contains(out, "run-1") {
				t.Errorf("log output %q missing run id", out)
			}
		})
	}
}

func TestWebhookNotifierPostsEvent(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if got := r.Header.Get("X-Token"); got != "secret" {
			t.Errorf("X-Token = %q, want secret", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode event: %v", err)
		}
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, map[string]string{"X-Token": "secret"})
	event := Event{
		Type:      EventRecordPersisted,
		RunID:     "run-9",
		Message:   "memo 3 persisted",
		Severity:  SeverityInfo,
		Timestamp: time.Now(),
		Metadata:  map[string]any{"memoId": float64(3)},
	}
	if err := n.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if received.Type != EventRecordPersisted || received.RunID != "run-9" {
		t.Errorf("received = %+v", received)
	}
	if received.Metadata["memoId"] != float64(3) {
		t.Errorf("metadata = %v", received.Metadata)
	}
}

func TestWebhookNotifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil)
	if err := n.Notify(context.Background(), Event{Type: EventRunStarted}); err == nil {
		t.Fatal("Notify() = nil, want error on 502")
	}
}

type recordingNotifier struct {
	events []Event
	err    error
}

func (r *recordingNotifier) Notify(ctx context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestMultiNotifierFansOut(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{err: errors.New("b failed")}
	c := &recordingNotifier{}

	n := NewMultiNotifier(a, b, c)
	n.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	err := n.Notify(context.Background(), Event{Type: EventProcessingFailed})
	if err == nil {
		t.Fatal("Notify() = nil, want last error surfaced")
	}
	for i, r := range []*recordingNotifier{a, b, c} {
		if len(r.events) != 1 {
			t.Errorf("notifier %d received %d events, want 1", i, len(r.events))
		}
	}
}

func TestNopNotifier(t *testing.T) {
	if err := (NopNotifier{}).Notify(context.Background(), Event{Type: EventRunCompleted}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
}
