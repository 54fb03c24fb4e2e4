package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/upstream"
	"github.com/sahajlabs/exam-admin-gateway/pkg/config"
	"github.com/sahajlabs/exam-admin-gateway/pkg/jobs"
)

// Observer is notified after every refresh attempt; the metrics service
// implements it.
type Observer interface {
	CatalogRefresh(entity string, err error)
}

// Refresher keeps the catalog warm: one refresh job per entity at startup
// and on every interval tick, worked by the jobs queue with its retry
// semantics. The upstream API authenticates reads, so the refresher only
// runs when a service token is configured.
type Refresher struct {
	refreshers []NamedRefresh
	queue      *jobs.Queue
	interval   time.Duration
	token      string
	logger     *zap.Logger
	observer   Observer

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool
}

// NewRefresher wires a refresher over the catalog. observer may be nil.
func NewRefresher(catalog *Catalog, cfg config.CatalogConfig, token string, logger *zap.Logger, observer Observer) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Refresher{
		refreshers: catalog.RefreshFuncs(),
		interval:   cfg.RefreshInterval,
		token:      token,
		logger:     logger,
		observer:   observer,
	}
	r.queue = jobs.NewQueue("catalog-refresh", r.handle, jobs.QueueConfig{
		Workers:    cfg.RefreshWorkers,
		BufferSize: len(r.refreshers) * 2,
		MaxRetries: 2,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return r
}

// Start launches the queue and the tick loop. Without a service token the
// refresher logs once and stays idle.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	if r.token == "" {
		r.logger.Info("catalog refresher disabled, no upstream service token configured")
		return
	}

	r.queue.Start(ctx)
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.started = true

	r.enqueueAll()
	go r.loop()

	r.logger.Info("catalog refresher started",
		zap.Duration("interval", r.interval),
		zap.Int("entities", len(r.refreshers)),
	)
}

// Stop halts the tick loop and drains the queue workers.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	close(r.stop)
	r.mu.Unlock()

	<-r.done
	r.queue.Stop()
}

func (r *Refresher) loop() {
	defer close(r.done)

	interval := r.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.enqueueAll()
		}
	}
}

func (r *Refresher) enqueueAll() {
	for _, named := range r.refreshers {
		// Anything dropped on a full buffer is re-enqueued by the next tick.
		if !r.queue.TryEnqueue(jobs.Job{Type: named.Entity}) {
			r.logger.Warn("catalog refresh queue full", zap.String("entity", named.Entity))
		}
	}
}

func (r *Refresher) handle(ctx context.Context, job jobs.Job) error {
	refresh := r.lookup(job.Type)
	if refresh == nil {
		r.logger.Warn("unknown catalog entity", zap.String("entity", job.Type))
		return nil
	}

	err := refresh(upstream.WithToken(ctx, r.token))
	if r.observer != nil {
		r.observer.CatalogRefresh(job.Type, err)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("catalog snapshot refreshed", zap.String("entity", job.Type))
	return nil
}

func (r *Refresher) lookup(entity string) func(context.Context) error {
	for _, named := range r.refreshers {
		if named.Entity == entity {
			return named.Refresh
		}
	}
	return nil
}
