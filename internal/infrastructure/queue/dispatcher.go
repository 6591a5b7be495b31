package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-manager/internal/api/metrics"
	"github.com/99minutos/task-manager/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes invitation notices to a fixed set of workers using
// consistent hashing on the email, so notices for one address are delivered
// in the order they were issued.
type Dispatcher struct {
	workers  []chan ports.InvitationNotice
	delivery ports.InvitationDelivery
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, delivery ports.InvitationDelivery, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.InvitationNotice, numWorkers),
		delivery: delivery,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.InvitationNotice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker started by Start has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Notify hands a notice to the worker responsible for its email. It never
// blocks: when that worker's buffer is full the notice is dropped and logged.
func (d *Dispatcher) Notify(notice ports.InvitationNotice) {
	idx := d.shardIndex(notice.Email)
	select {
	case d.workers[idx] <- notice:
		metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.InvitationDeliveriesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("invitation_id", notice.InvitationID).
			Int("worker_id", idx).
			Msg("delivery queue full, invitation notice dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.InvitationNotice) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-ch:
			if !ok {
				return
			}
			metrics.DeliveryQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			if err := d.delivery.Deliver(ctx, notice); err != nil {
				metrics.InvitationDeliveriesTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("invitation_id", notice.InvitationID).
					Int("worker_id", id).
					Msg("invitation delivery failed")
				continue
			}
			metrics.InvitationDeliveriesTotal.WithLabelValues("delivered").Inc()
		}
	}
}
