package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Dispatcher hands events to a Sink on a single background goroutine, so
// verification never waits on sink I/O. A nil *Dispatcher discards events.
type Dispatcher struct {
	sink       Sink
	logger     *slog.Logger
	dropIfFull bool

	// mu guards queue against sends after Close.
	mu     sync.RWMutex
	queue  chan Event
	closed bool
	idle   chan struct{}

	dropped atomic.Uint64
}

// NewDispatcher starts the delivery goroutine. It returns nil when cfg is disabled.
func NewDispatcher(cfg Config, sink Sink, logger *slog.Logger) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := &Dispatcher{
		sink:       sink,
		logger:     logger,
		dropIfFull: cfg.DropIfFull,
		queue:      make(chan Event, cfg.BufferSize),
		idle:       make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.idle)
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("goCSRF: audit sink panicked", "event_type", event.EventType, "panic", r)
		}
	}()
	d.sink.Emit(context.Background(), event)
}

// Emit queues event for delivery. With DropIfFull it never blocks; otherwise
// it waits for queue space or ctx.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
		default:
			n := d.dropped.Add(1)
			d.logger.Debug("goCSRF: audit event dropped", "event_type", event.EventType, "dropped_total", n)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	}
}

// Close rejects further events and returns once every queued event reached the sink.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.idle
}

// Dropped reports how many events were discarded because the buffer was full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
