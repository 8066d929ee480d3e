package notification

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap/internal/domain/notification"
)

const (
	DefaultQueueSize = 1024
	deliverTimeout   = 5 * time.Second
)

// Metrics counts dispatcher outcomes.
type Metrics struct {
	Published *prometheus.CounterVec
	Dropped   *prometheus.CounterVec
	Delivered *prometheus.CounterVec
	Failed    *prometheus.CounterVec
}

// NewMetrics creates dispatcher counters and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_events_published_total",
			Help: "Events accepted by the dispatcher",
		}, []string{"type"}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_events_dropped_total",
			Help: "Events dropped before delivery",
		}, []string{"reason"}),
		Delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Successful sink deliveries",
		}, []string{"sink"}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_delivery_failures_total",
			Help: "Failed sink deliveries",
		}, []string{"sink"}),
	}
	if reg != nil {
		reg.MustRegister(m.Published, m.Dropped, m.Delivered, m.Failed)
	}
	return m
}

// Dispatcher queues events in memory and fans them out to sinks on a
// background goroutine. It implements notification.Publisher.
type Dispatcher struct {
	queue   chan *notification.Event
	sinks   []notification.Sink
	filter  *Filter
	metrics *Metrics
	logger  zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	started bool
}

var _ notification.Publisher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher. filter and metrics may be nil.
func NewDispatcher(queueSize int, filter *Filter, metrics *Metrics, logger zerolog.Logger, sinks ...notification.Sink) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Dispatcher{
		queue:   make(chan *notification.Event, queueSize),
		sinks:   sinks,
		filter:  filter,
		metrics: metrics,
		logger:  logger.With().Str("service", "notification").Logger(),
		done:    make(chan struct{}),
	}
}

// Publish enqueues e. A full queue or a stopped dispatcher drops the event.
func (d *Dispatcher) Publish(_ context.Context, e *notification.Event) {
	if e == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.metrics.Dropped.WithLabelValues("stopped").Inc()
		return
	}
	select {
	case d.queue <- e:
		d.metrics.Published.WithLabelValues(string(e.Type)).Inc()
	default:
		d.metrics.Dropped.WithLabelValues("queue_full").Inc()
		d.logger.Warn().
			Str("event_id", e.EventID.String()).
			Str("type", string(e.Type)).
			Msg("notification queue full, event dropped")
	}
}

// Start runs the delivery loop until Stop is called.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	go func() {
		defer close(d.done)
		for e := range d.queue {
			d.dispatch(e)
		}
	}()
}

// Stop stops accepting events, drains the queue and waits for the loop to
// exit or ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) dispatch(e *notification.Event) {
	ok, err := d.filter.Allow(e)
	if err != nil {
		d.logger.Warn().Err(err).Str("filter", d.filter.String()).Msg("notification filter failed, delivering")
		ok = true
	}
	if !ok {
		d.metrics.Dropped.WithLabelValues("filtered").Inc()
		return
	}
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		err := sink.Deliver(ctx, e)
		cancel()
		if err != nil {
			d.metrics.Failed.WithLabelValues(sink.Name()).Inc()
			d.logger.Warn().
				Err(err).
				Str("sink", sink.Name()).
				Str("event_id", e.EventID.String()).
				Str("type", string(e.Type)).
				Msg("notification delivery failed")
			continue
		}
		d.metrics.Delivered.WithLabelValues(sink.Name()).Inc()
	}
}

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, *notification.Event) {}
