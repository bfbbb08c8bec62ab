package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskflow-api/internal/api/metrics"
	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	publishTimeout = 5 * time.Second
	drainTimeout   = 10 * time.Second
)

// ErrQueueFull is returned when the recipient's worker channel has no room.
var ErrQueueFull = errors.New("notification queue full")

// Dispatcher routes notifications to a fixed set of workers using consistent
// hashing on the recipient, so one user's notifications are published in
// the order they were stored.
type Dispatcher struct {
	workers []chan domain.Notification
	sink    ports.NotificationPublisher
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers feeding
// sink. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.NotificationPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Notification, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// publishes what is still buffered, bounded by drainTimeout, then returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands n to the worker responsible for its recipient. It never
// blocks: a full channel drops the notification and returns ErrQueueFull.
// The notification is already stored, so a drop only loses the live push.
func (d *Dispatcher) Publish(_ context.Context, n domain.Notification) error {
	idx := d.shardIndex(n.UserID)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	default:
		metrics.NotificationsPublishedTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	// A publish already in flight when ctx is cancelled runs to completion.
	pubCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if ctx.Err() != nil {
				d.drain(id, ch, n)
				return
			}
			d.publish(pubCtx, id, n)
		}
	}
}

// drain flushes pending and whatever is still buffered in ch. It uses a
// fresh context since the worker's own context is already done.
func (d *Dispatcher) drain(id int, ch <-chan domain.Notification, pending ...domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for _, n := range pending {
		d.publish(ctx, id, n)
	}
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if ctx.Err() != nil {
				metrics.NotificationsPublishedTotal.WithLabelValues("dropped").Inc()
				continue
			}
			d.publish(ctx, id, n)
		default:
			return
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, worker int, n domain.Notification) {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	start := time.Now()
	err := d.sink.Publish(pubCtx, n)
	metrics.NotificationPublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsPublishedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("notification_id", n.ID).
			Str("user_id", n.UserID).
			Int("worker_id", worker).
			Msg("notification publish failed")
		return
	}
	metrics.NotificationsPublishedTotal.WithLabelValues("ok").Inc()
}
