package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gotracker/internal/domain"
)

// ErrQueueFull is returned when the dispatcher buffer has no room left.
var ErrQueueFull = errors.New("event queue full")

// ErrDispatcherStopped is returned by Publish once Start has returned.
var ErrDispatcherStopped = errors.New("event dispatcher stopped")

// drainTimeout bounds delivery of events still queued at shutdown.
const drainTimeout = 5 * time.Second

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// DropRecorder counts events that could not be queued.
type DropRecorder interface {
	RecordEventDropped()
}

// Dispatcher decouples request handling from event delivery. Publish only
// enqueues; a single worker started with Start forwards events in order.
type Dispatcher struct {
	queue     chan *domain.Event
	publisher Publisher
	logger    zerolog.Logger
	drops     DropRecorder

	mu      sync.RWMutex
	stopped bool
}

// Config for Dispatcher.
type Config struct {
	Publisher  Publisher
	Logger     zerolog.Logger
	BufferSize int          // Number of events held before new ones are dropped
	Drops      DropRecorder // optional
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}

	return &Dispatcher{
		queue:     make(chan *domain.Event, cfg.BufferSize),
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		drops:     cfg.Drops,
	}
}

// Publish enqueues the event without blocking. Events are refused once
// Start has begun its final drain.
func (d *Dispatcher) Publish(_ context.Context, event *domain.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.dropped(event, ErrDispatcherStopped)
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- event:
		return nil
	default:
		d.dropped(event, ErrQueueFull)
		return ErrQueueFull
	}
}

func (d *Dispatcher) dropped(event *domain.Event, reason error) {
	if d.drops != nil {
		d.drops.RecordEventDropped()
	}
	d.logger.Warn().
		Err(reason).
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Msg("event dropped")
}

// Start forwards queued events until ctx is cancelled, then delivers what
// is still buffered and returns.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info().Int("buffer_size", cap(d.queue)).Msg("event dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.mu.Lock()
			d.stopped = true
			d.mu.Unlock()

			d.drain()
			d.logger.Info().Msg("event dispatcher stopped")
			return nil
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case event := <-d.queue:
			d.deliver(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event *domain.Event) {
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Str("aggregate_id", event.AggregateID).
			Msg("failed to publish event")
		return
	}

	d.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Msg("event published")
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		Time("occurred_at", event.OccurredAt).
		RawJSON("payload", payload).
		Msg("event")

	return nil
}
