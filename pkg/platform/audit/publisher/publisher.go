package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "fieldaudit/pkg/domain"
	audit "fieldaudit/pkg/platform/audit"
	"fieldaudit/pkg/platform/audit/worker"
)

// Publisher fronts an audit store. In sync mode Emit appends directly; with
// an async buffer a background worker drains events so hot paths never wait
// on audit persistence.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger
	inbox  chan audit.Event
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given
// channel capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}

	if p.inbox != nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		w := worker.NewWorker(store, p.inbox)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			// A worker that dies on a store error strands everything still
			// buffered; make that state visible.
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				p.logger.Error("audit worker stopped, buffered events are stranded",
					"buffered", len(p.inbox),
					"error", err,
				)
			}
		}()
	}

	return p
}

// Emit records an audit event. In async mode a full buffer falls back to a
// synchronous append rather than dropping the event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		return p.store.Append(ctx, event)
	}
}

// List reads back events for a checklist; used by admin surfaces and tests.
func (p *Publisher) List(ctx context.Context, checklistID id.ChecklistID) ([]audit.Event, error) {
	return p.store.ListByChecklist(ctx, checklistID)
}

// Close stops the background worker, draining nothing further.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
		p.wg.Wait()
	})
}
