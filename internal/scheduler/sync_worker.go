package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/merge"
)

// Syncer is the part of the dashboard the worker drives.
type Syncer interface {
	Sync(ctx context.Context) (merge.Stats, error)
}

// SyncWorker merges the remote into the local document in the background:
// once after start, then on every tick of an optional interval and on
// manual triggers.
type SyncWorker struct {
	syncer     Syncer
	logger     logger.Logger
	startDelay time.Duration
	interval   time.Duration
	trigger    chan struct{}
	stopCh     chan struct{}
	done       chan struct{}
}

// NewSyncWorker creates a worker. interval 0 disables periodic syncs, so the
// remote is only read once per process unless triggered.
func NewSyncWorker(syncer Syncer, log logger.Logger, startDelay, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		syncer:     syncer,
		logger:     log,
		startDelay: startDelay,
		interval:   interval,
		trigger:    make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Trigger queues a sync. It returns false when one is already queued.
func (w *SyncWorker) Trigger() bool {
	select {
	case w.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Start runs the worker in a goroutine and returns immediately.
func (w *SyncWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop ends the loop and waits for an in-flight sync to finish.
func (w *SyncWorker) Stop() {
	close(w.stopCh)
	<-w.done
}

func (w *SyncWorker) run(ctx context.Context) {
	defer close(w.done)

	initial := time.NewTimer(w.startDelay)
	defer initial.Stop()

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-initial.C:
			w.sync(ctx, "startup")
		case <-tick:
			w.sync(ctx, "interval")
		case <-w.trigger:
			w.logger.Info("manual sync triggered")
			w.sync(ctx, "manual")
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *SyncWorker) sync(ctx context.Context, reason string) {
	start := time.Now()
	stats, err := w.syncer.Sync(ctx)
	if err != nil {
		w.logger.Error("background sync failed",
			logger.String("reason", reason),
			logger.Error(err))
		return
	}
	w.logger.Debug("background sync done",
		logger.String("reason", reason),
		logger.Int("local_only", stats.LocalOnly),
		logger.Int("remote_only", stats.RemoteOnly),
		logger.Duration("took", time.Since(start)))
}
