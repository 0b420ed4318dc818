package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// runStreamHandler upgrades GET /v1/runs/{id}/stream to a WebSocket and
// forwards the run's progress events until the run finishes or the client
// goes away. For an already-finished run it sends a single snapshot event.
func (s *Server) runStreamHandler(w http.ResponseWriter, r *http.Request, runID string) {
	run, ok := s.Runs.Get(runID)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Unknown run", runID, r.URL.Path)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Subscribe before re-reading status so no terminal event slips past.
	ch := s.Broker.Subscribe(runID)
	defer s.Broker.Unsubscribe(runID, ch)

	if run, _ = s.Runs.Get(runID); run.Status != RunRunning {
		_ = conn.WriteJSON(Event{Type: "run.snapshot", Data: map[string]any{
			"runId":  runID,
			"status": run.Status,
		}})
		return
	}

	// Drain client frames to notice a closed connection.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(20 * time.Second)
	defer ping.Stop()
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
			if evt.Type == "run.completed" || evt.Type == "run.failed" {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
