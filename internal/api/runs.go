package api

import (
	"sync"
	"time"

	"ecolog/internal/planner"
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Run is the record of one optimization run.
type Run struct {
	ID           string          `json:"runId"`
	Status       string          `json:"status"`
	RequestCount int             `json:"requestCount"`
	StartedAt    time.Time       `json:"startedAt"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
	Result       *planner.Result `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// RunCache keeps recent runs in memory, evicting the oldest past the cap.
type RunCache struct {
	mu    sync.Mutex
	m     map[string]Run
	order []string
	cap   int
}

func NewRunCache(capacity int) *RunCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &RunCache{m: map[string]Run{}, cap: capacity}
}

// Start records a freshly launched run.
func (c *RunCache) Start(id string, requestCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[id] = Run{ID: id, Status: RunRunning, RequestCount: requestCount, StartedAt: time.Now().UTC()}
	c.order = append(c.order, id)
	for len(c.order) > c.cap {
		delete(c.m, c.order[0])
		c.order = c.order[1:]
	}
}

// Complete attaches the result to a run.
func (c *RunCache) Complete(id string, res *planner.Result) {
	c.finish(id, RunCompleted, res, "")
}

// Fail marks a run as failed.
func (c *RunCache) Fail(id string, errMsg string) {
	c.finish(id, RunFailed, nil, errMsg)
}

func (c *RunCache) finish(id, status string, res *planner.Result, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	run, ok := c.m[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	run.Status = status
	run.CompletedAt = &now
	run.Result = res
	run.Error = errMsg
	c.m[id] = run
}

// Get returns a run by id.
func (c *RunCache) Get(id string) (Run, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	run, ok := c.m[id]
	return run, ok
}

// List returns recent runs, newest first, without their results.
func (c *RunCache) List() []Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Run, 0, len(c.order))
	for i := len(c.order) - 1; i >= 0; i-- {
		run := c.m[c.order[i]]
		run.Result = nil
		out = append(out, run)
	}
	return out
}
