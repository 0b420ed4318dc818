package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ecolog/internal/planner"
)

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func TestRunStreamSnapshotForFinishedRun(t *testing.T) {
	s := newTestServer(t)
	s.Runs.Start("r1", 2)
	s.Runs.Complete("r1", &planner.Result{})

	ts := httptest.NewServer(http.HandlerFunc(s.RunByIDHandler))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/v1/runs/r1/stream"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var evt Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Type != "run.snapshot" {
		t.Fatalf("got %s, want run.snapshot", evt.Type)
	}
	if evt.Data["status"] != RunCompleted {
		t.Fatalf("snapshot status = %v", evt.Data["status"])
	}
}

func TestRunStreamForwardsProgress(t *testing.T) {
	s := newTestServer(t)
	s.Runs.Start("r2", 2)

	ts := httptest.NewServer(http.HandlerFunc(s.RunByIDHandler))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/v1/runs/r2/stream"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	// give the handler time to subscribe
	time.Sleep(50 * time.Millisecond)
	s.Broker.Publish("r2", Event{Type: "run.generation", Data: map[string]any{"gen": 1}})
	s.Broker.Publish("r2", Event{Type: "run.completed", Data: map[string]any{"frontSize": 4}})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var evt Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Type != "run.generation" {
		t.Fatalf("got %s, want run.generation", evt.Type)
	}
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Type != "run.completed" {
		t.Fatalf("got %s, want run.completed", evt.Type)
	}
	// server closes the stream after the terminal event
	if err := conn.ReadJSON(&evt); err == nil {
		t.Fatalf("expected stream to end, got %+v", evt)
	}
}

func TestRunStreamUnknownRun(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(http.HandlerFunc(s.RunByIDHandler))
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "/v1/runs/nope/stream"), nil)
	if err == nil {
		t.Fatal("expected the handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("handshake response = %+v", resp)
	}
}
