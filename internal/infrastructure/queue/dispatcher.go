package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/smartwater/monitoring-api/internal/api/metrics"
	"github.com/smartwater/monitoring-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes batch-submitted readings to a fixed set of workers using
// consistent hashing on the instrument id, guaranteeing per-instrument
// ingestion ordering.
type Dispatcher struct {
	workers []chan ports.ReadingInput
	service ports.IngestService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.IngestService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ReadingInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReadingInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a reading to the worker responsible for its instrument.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(reading ports.ReadingInput) {
	idx := d.shardIndex(reading.InstrumentID)
	d.workers[idx] <- reading
	metrics.IngestQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple readings preserving per-instrument ordering.
func (d *Dispatcher) EnqueueBatch(readings []ports.ReadingInput) {
	for _, r := range readings {
		d.Enqueue(r)
	}
}

// shardIndex maps an instrument id deterministically to a worker index.
func (d *Dispatcher) shardIndex(instrumentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(instrumentID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReadingInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case reading, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, reading); err != nil {
				metrics.ReadingsIngestedTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("instrument_id", reading.InstrumentID).
					Int("worker_id", id).
					Msg("reading ingestion failed")
				continue
			}
			metrics.ReadingsIngestedTotal.WithLabelValues("ok").Inc()
		}
	}
}
