package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"
	"github.com/Karthikx21/Alagarcater-sub000/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReconcile = "jobs:reconcile"
	QueueEmail     = "jobs:email"

	JobReconcile      = "reconcile"
	JobPaymentReceipt = "payment_receipt"
)

// ErrPermanent marks a job that will never succeed; it goes straight to the DLQ.
var ErrPermanent = errors.New("permanent job failure")

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A non-nil error schedules a retry
// unless it wraps ErrPermanent.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

var _ service.JobDispatcher = (*Dispatcher)(nil)

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueReconcile(ctx context.Context, job dto.ReconcileJob) error {
	return d.enqueue(ctx, QueueReconcile, JobReconcile, job)
}

func (d *Dispatcher) EnqueuePaymentReceipt(ctx context.Context, job dto.PaymentReceiptJob) error {
	return d.enqueue(ctx, QueueEmail, JobPaymentReceipt, job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.push(ctx, queue, Job{Type: jobType, Payload: data})
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", job.Type, err)
	}
	return nil
}

// WorkerHandlers maps each queue to the handler consuming it.
type WorkerHandlers struct {
	Reconcile Handler
	Email     Handler
}

// Pool is a set of goroutines blocked on BRPOP over all queues.
type Pool struct {
	rdb         *redis.Client
	dispatcher  *Dispatcher
	handlers    map[string]Handler
	maxAttempts int
	backoff     func(attempt int) time.Duration
	wg          sync.WaitGroup
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, so idle workers cost no CPU. Cancel ctx
// and call Wait to drain.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers, maxAttempts int) *Pool {
	p := newPool(rdb, handlers, maxAttempts)
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Int("max_attempts", maxAttempts).Msg("worker pool started")
	return p
}

func newPool(rdb *redis.Client, handlers *WorkerHandlers, maxAttempts int) *Pool {
	return &Pool{
		rdb:        rdb,
		dispatcher: NewDispatcher(rdb),
		handlers: map[string]Handler{
			QueueReconcile: handlers.Reconcile,
			QueueEmail:     handlers.Email,
		},
		maxAttempts: maxAttempts,
		backoff:     retryBackoff,
	}
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	queues := []string{QueueReconcile, QueueEmail}
	for {
		if ctx.Err() != nil {
			log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
		// Blocking pop: waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
				sleep(ctx, time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		SendToDLQ(ctx, p.rdb, queue, Job{Type: "unknown", Payload: json.RawMessage(fmt.Sprintf("%q", raw))}, "malformed envelope: "+err.Error())
		return
	}
	h := p.handlers[queue]
	if h == nil {
		SendToDLQ(ctx, p.rdb, queue, job, "no handler for queue")
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	switch {
	case err == nil:
		return
	case errors.Is(err, ErrPermanent):
		SendToDLQ(ctx, p.rdb, queue, job, err.Error())
	case job.Attempts >= p.maxAttempts:
		SendToDLQ(ctx, p.rdb, queue, job, fmt.Sprintf("max attempts (%d) exceeded: %v", p.maxAttempts, err))
	default:
		wait := p.backoff(job.Attempts)
		log.Warn().Err(err).
			Str("queue", queue).
			Str("job_type", job.Type).
			Int("attempt", job.Attempts).
			Dur("retry_in", wait).
			Msg("job failed, retrying")
		sleep(ctx, wait)
		// Requeue with the original context gone still has to land.
		if perr := p.dispatcher.push(context.WithoutCancel(ctx), queue, job); perr != nil {
			log.Error().Err(perr).Str("queue", queue).Msg("job lost: requeue failed")
		}
	}
}

// retryBackoff doubles from 1s and caps at 30s.
func retryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Second << uint(min(attempt-1, 5))
	return min(d, 30*time.Second)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
