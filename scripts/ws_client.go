// Package main runs a demo WebSocket client for optimization run progress.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Generate sample demand
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/optimize/sample", bytes.NewReader([]byte(`{"count":12,"seed":42}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	var sample struct {
		Requests []json.RawMessage `json:"requests"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sample); err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()
	if len(sample.Requests) == 0 {
		log.Fatal("no sample requests returned")
	}

	// Launch an async run over them
	body, _ := json.Marshal(map[string]any{
		"requests":       sample.Requests,
		"populationSize": 80,
		"generations":    40,
		"async":          true,
	})
	req, _ = http.NewRequest(http.MethodPost, base+"/v1/optimize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var ack struct {
		RunID string `json:"runId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		log.Fatal(err)
	}
	if ack.RunID == "" {
		log.Fatal("no run id returned")
	}
	log.Printf("Run ID: %s", ack.RunID)

	// Stream progress
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/runs/" + ack.RunID + "/stream"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	for {
		_ = c.SetReadDeadline(time.Now().Add(30 * time.Second))
		var evt event
		if err := c.ReadJSON(&evt); err != nil {
			log.Printf("stream closed: %v", err)
			return
		}
		log.Printf("WS <- %s: %v", evt.Type, evt.Data)
		if evt.Type == "run.completed" || evt.Type == "run.failed" {
			break
		}
	}

	// Fetch the finished run
	resp, err = http.Get(base + "/v1/runs/" + ack.RunID)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var run struct {
		Status string `json:"status"`
		Result *struct {
			ParetoFront []struct {
				TotalCostDZD float64 `json:"totalCostDzd"`
				TotalCO2Kg   float64 `json:"totalCo2Kg"`
			} `json:"paretoFront"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		log.Fatal(err)
	}
	log.Printf("run %s", run.Status)
	if run.Result != nil {
		for i, s := range run.Result.ParetoFront {
			log.Printf("  front[%d]: %.0f DZD, %.1f kg CO2", i, s.TotalCostDZD, s.TotalCO2Kg)
		}
	}
}
