package api

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	runID := "run1"
	ch := b.Subscribe(runID)

	evt := Event{Type: "run.generation", Data: map[string]any{"gen": 3}}
	b.Publish(runID, evt)

	select {
	case got := <-ch:
		if got.Type != evt.Type {
			t.Fatalf("got type %s, want %s", got.Type, evt.Type)
		}
		if got.Data["gen"].(int) != 3 {
			t.Fatalf("bad payload: %+v", got.Data)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe(runID, ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should be closed after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
		// acceptable if already drained and closed
	}
}

func TestBrokerIsolatesRuns(t *testing.T) {
	b := NewBroker()
	ch1 := b.Subscribe("run1")
	ch2 := b.Subscribe("run2")
	defer b.Unsubscribe("run2", ch2)

	b.Publish("run2", Event{Type: "run.completed"})

	select {
	case evt := <-ch1:
		t.Fatalf("run1 subscriber received foreign event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
	select {
	case evt := <-ch2:
		if evt.Type != "run.completed" {
			t.Fatalf("got %s", evt.Type)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
	b.Unsubscribe("run1", ch1)
}

func TestBrokerDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("run1")
	defer b.Unsubscribe("run1", ch)

	// overflow the buffer; publishes must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish("run1", Event{Type: "run.generation"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
