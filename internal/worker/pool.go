package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const jobQueueKey = "phoneshop:jobs"

// Job kinds.
const (
	JobReceipt = "receipt"
)

// Job is the envelope pushed onto the Redis queue. Payload is kind-specific
// JSON.
type Job struct {
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// ReceiptJobPayload asks a worker to render the receipt PDF for a sale and,
// when an address is present, email it.
type ReceiptJobPayload struct {
	SaleID        string `json:"sale_id"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Dispatcher enqueues background jobs. Jobs are best-effort: a failed job is
// logged and dropped, never retried.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

func (d *Dispatcher) enqueue(ctx context.Context, kind string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Kind: kind, Payload: raw, EnqueuedAt: time.Now()}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, jobQueueKey, data).Err(); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("job enqueue failed")
		return err
	}
	return nil
}

func (d *Dispatcher) EnqueueReceipt(ctx context.Context, payload ReceiptJobPayload) error {
	return d.enqueue(ctx, JobReceipt, payload)
}

// Handler processes one job kind.
type Handler interface {
	Handle(ctx context.Context, payload json.RawMessage) error
}

// Pool pulls jobs off the queue with BRPOP and fans them out to size
// goroutines. One failed job never blocks the queue: the error is logged and
// the worker moves on.
type Pool struct {
	rdb      *redis.Client
	size     int
	handlers map[string]Handler
}

func NewPool(rdb *redis.Client, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{rdb: rdb, size: size, handlers: make(map[string]Handler)}
}

func (p *Pool) Register(kind string, h Handler) { p.handlers[kind] = h }

// Start launches the workers. They run until ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		go p.run(ctx, i)
	}
	log.Info().Int("workers", p.size).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		res, err := p.rdb.BRPop(ctx, 5*time.Second, jobQueueKey).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			if errors.Is(err, redis.Nil) {
				continue // timeout, queue empty
			}
			log.Error().Err(err).Int("worker", id).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}
		if len(res) < 2 {
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			log.Error().Err(err).Int("worker", id).Msg("malformed job dropped")
			continue
		}

		h, ok := p.handlers[job.Kind]
		if !ok {
			log.Warn().Str("kind", job.Kind).Msg("no handler for job kind")
			continue
		}
		if err := h.Handle(ctx, job.Payload); err != nil {
			log.Error().Err(err).Str("kind", job.Kind).Int("worker", id).Msg("job failed")
		}
	}
}
