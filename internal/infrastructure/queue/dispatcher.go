package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the event's account, guaranteeing per-account ordering. It
// implements ports.AuditSink.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	store   ports.Store[domain.AuditEvent]
	log     zerolog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store ports.Store[domain.AuditEvent], log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		store:   store,
		log:     log,
		now:     time.Now,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues event for the worker responsible for its account. It never
// blocks: when that worker's buffer is full the event is dropped.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = d.now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	idx := d.shardIndex(event.ShardKey())
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.drop(event, "queue full")
	}
}

// Close stops accepting events and waits until queued events are written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps an account key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(event domain.AuditEvent, reason string) {
	metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("action", string(event.Action)).
		Str("subject_id", event.SubjectID).
		Str("reason", reason).
		Msg("audit event dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Dec()
			d.write(ctx, id, event)
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := d.store.Insert(ctx, event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("event_id", event.EventID).
			Str("action", string(event.Action)).
			Int("worker_id", id).
			Msg("audit event write failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
}
