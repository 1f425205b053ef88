// Package printing serializes ticket rendering and dispatch so overlapping
// print requests never race on shared print resources.
package printing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"comanda/internal/domain"
	"comanda/internal/logger"
)

// TicketConfig controls ticket rendering.
type TicketConfig struct {
	Header     string
	Footer     string
	ShowPrices bool
}

// Job is one queued ticket: the lines to print, the order they belong to,
// and the render configuration. Ephemeral, lives for a single print cycle.
type Job struct {
	Items       []domain.OrderLine
	Order       domain.Order
	Config      TicketConfig
	DisplayName string
}

// Renderer produces a printable document. Treated as synchronous and
// side-effect-free by the queue.
type Renderer interface {
	Render(items []domain.OrderLine, o domain.Order, cfg TicketConfig, displayName string) ([]byte, error)
}

// Dispatcher hands a rendered document to the native print flow. It may
// fail; a failure never crashes the queue.
type Dispatcher interface {
	Dispatch(ctx context.Context, doc []byte) error
}

// Queue drains jobs strictly FIFO, one in flight at a time. Idle until a
// job is enqueued, draining until the queue empties. Each job is isolated:
// a render or dispatch failure is logged and the next job still runs.
type Queue struct {
	renderer   Renderer
	dispatcher Dispatcher
	delay      time.Duration // between dispatches, avoids overlapping print dialogs
	lg         *logger.Logger

	mu       sync.Mutex
	jobs     []Job
	draining bool
	wg       sync.WaitGroup
}

func NewQueue(r Renderer, d Dispatcher, delay time.Duration, lg *logger.Logger) *Queue {
	return &Queue{renderer: r, dispatcher: d, delay: delay, lg: lg}
}

// Enqueue appends the job and starts draining if the queue was idle.
func (q *Queue) Enqueue(job Job) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	if !q.draining {
		q.draining = true
		q.wg.Add(1)
		go q.drain()
	}
	q.mu.Unlock()
}

func (q *Queue) drain() {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		q.run(job)
		if q.delay > 0 {
			time.Sleep(q.delay)
		}
	}
}

func (q *Queue) run(job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			q.lg.Error("print_job_panicked", fmt.Errorf("%v", rec), map[string]any{"order_id": job.Order.ID.String()})
		}
	}()

	doc, err := q.renderer.Render(job.Items, job.Order, job.Config, job.DisplayName)
	if err != nil {
		q.lg.Error("ticket_render_failed", err, map[string]any{"order_id": job.Order.ID.String()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := q.dispatcher.Dispatch(ctx, doc); err != nil {
		q.lg.Error("print_dispatch_failed", err, map[string]any{"order_id": job.Order.ID.String()})
	}
}

// Wait blocks until the queue has fully drained. Test and shutdown helper.
func (q *Queue) Wait() { q.wg.Wait() }
