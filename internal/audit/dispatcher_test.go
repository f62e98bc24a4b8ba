package audit

import (
	"context"
	"testing"
	"time"
)

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{gate: make(chan struct{})}
}

func (s *gateSink) Emit(context.Context, Event) {
	<-s.gate
}

func TestNewDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{}, nil)
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	d.Emit(context.Background(), NewEvent("x", false, ""))
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero drops")
	}
}

func TestDispatcherDropIfFullDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink, nil)
	defer func() {
		close(sink.gate)
		d.Close()
	}()

	d.Emit(context.Background(), Event{EventType: "e1"})
	d.Emit(context.Background(), Event{EventType: "e2"})

	start := time.Now()
	d.Emit(context.Background(), Event{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is set")
	}
	if d.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestDispatcherBlockingHonoursContext(t *testing.T) {
	sink := newGateSink()
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: false}, sink, nil)
	defer func() {
		close(sink.gate)
		d.Close()
	}()

	d.Emit(context.Background(), Event{EventType: "e1"})
	d.Emit(context.Background(), Event{EventType: "e2"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		d.Emit(ctx, Event{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("blocking emit must return once its context expires")
	}
	if d.Dropped() != 0 {
		t.Fatal("blocking mode must not count drops")
	}
}

func TestDispatcherCloseDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink, nil)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), NewEvent("e", false, ""))
	}
	d.Close()
	d.Close()

	if got := len(sink.Events()); got != 10 {
		t.Fatalf("expected 10 drained events, got %d", got)
	}
}

func TestNewEventStampsIDAndTime(t *testing.T) {
	a := NewEvent("t", true, "ok")
	b := NewEvent("t", true, "ok")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Fatal("expected timestamp")
	}
}

type panicSink struct {
	calls chan string
}

func (s *panicSink) Emit(_ context.Context, event Event) {
	s.calls <- event.EventType
	if event.EventType == "boom" {
		panic("sink failure")
	}
}

func TestDispatcherSurvivesSinkPanic(t *testing.T) {
	sink := &panicSink{calls: make(chan string, 4)}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink, nil)

	d.Emit(context.Background(), Event{EventType: "boom"})
	d.Emit(context.Background(), Event{EventType: "after"})
	d.Close()

	if got := len(sink.calls); got != 2 {
		t.Fatalf("expected delivery to continue after a panic, got %d calls", got)
	}
}

func TestDispatcherEmitAfterCloseIsDiscarded(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink, nil)
	d.Close()

	d.Emit(context.Background(), Event{EventType: "late"})
	if got := len(sink.Events()); got != 0 {
		t.Fatalf("expected no events after Close, got %d", got)
	}
}
