// Package audit batches console audit events into the ledger off the
// request path.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/store/ledger"
	"go.uber.org/zap"
)

const (
	batchSize  = 100
	flushEvery = 250 * time.Millisecond
	writeTO    = 2 * time.Second
)

type Queue struct {
	store ledger.Store
	log   *zap.Logger
	ch    chan ledger.AuditEvent
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// Start spins up workers over a buffered channel. Suggested: buf=1000, workers=1.
func Start(store ledger.Store, buf, workers int, log *zap.Logger) *Queue {
	if buf <= 0 {
		buf = 1000
	}
	if workers <= 0 {
		workers = 1
	}
	q := &Queue{
		store: store,
		log:   log,
		ch:    make(chan ledger.AuditEvent, buf),
		done:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue queues an event without blocking; a full buffer drops it.
func (q *Queue) Enqueue(ev ledger.AuditEvent) {
	if q == nil || ev.Action == "" {
		return
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	select {
	case <-q.done:
		return
	default:
	}
	select {
	case q.ch <- ev:
	default:
		q.log.Warn("audit queue full; event dropped", zap.String("action", ev.Action))
	}
}

// Shutdown stops the workers after they flush what is buffered.
func (q *Queue) Shutdown() {
	if q == nil {
		return
	}
	q.once.Do(func() { close(q.done) })
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	tk := time.NewTicker(flushEvery)
	defer tk.Stop()

	batch := make([]ledger.AuditEvent, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTO)
		if err := q.store.InsertAudit(ctx, batch...); err != nil {
			q.log.Warn("audit flush failed", zap.Int("events", len(batch)), zap.Error(err))
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case <-q.done:
			// drain quickly then flush
			for {
				select {
				case ev := <-q.ch:
					batch = append(batch, ev)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case ev := <-q.ch:
			batch = append(batch, ev)
			if len(batch) >= batchSize {
				flush()
			}
		case <-tk.C:
			flush()
		}
	}
}
