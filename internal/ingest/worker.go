package ingest

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tally-dev/tally/internal/queue"
)

// Worker drains the three ingest queues in the background, one goroutine
// per queue. Item failures are logged and never retried; retry policy, if
// any, belongs to whoever enqueues.
type Worker struct {
	Imports   *queue.Queue[ImportRequest]
	Reprocess *queue.Queue[ReprocessRequest]
	RunRules  *queue.Queue[RunRulesRequest]

	svc *Service
	log zerolog.Logger
	wg  sync.WaitGroup
}

// NewWorker creates a Worker with one fresh queue per purpose.
func NewWorker(svc *Service, log zerolog.Logger) *Worker {
	return &Worker{
		Imports:   queue.New[ImportRequest](),
		Reprocess: queue.New[ReprocessRequest](),
		RunRules:  queue.New[RunRulesRequest](),
		svc:       svc,
		log:       log,
	}
}

// Start launches the consumer goroutines. Each runs until ctx is cancelled
// or its queue is closed.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(3)
	go func() {
		defer w.wg.Done()
		drain(ctx, w.Imports, w.log, func(ctx context.Context, req ImportRequest) error {
			_, err := w.svc.Import(ctx, req)
			return err
		})
	}()
	go func() {
		defer w.wg.Done()
		drain(ctx, w.Reprocess, w.log, w.svc.Reprocess)
	}()
	go func() {
		defer w.wg.Done()
		drain(ctx, w.RunRules, w.log, w.svc.RunRules)
	}()
}

// Stop closes all queues and waits for the consumers to exit. Items still
// queued at Stop are dropped.
func (w *Worker) Stop() {
	w.Imports.Close()
	w.Reprocess.Close()
	w.RunRules.Close()
	w.wg.Wait()
}

// drain pulls items until the queue closes or ctx is cancelled. Handler
// errors are logged; the loop keeps going.
func drain[T any](ctx context.Context, q *queue.Queue[T], log zerolog.Logger, handle func(context.Context, T) error) {
	for {
		item, err := q.Dequeue(ctx)
		if err != nil {
			return
		}
		if err := handle(ctx, item); err != nil {
			log.Error().Err(err).Msg("work item failed")
		}
	}
}
