package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"subburn/internal/config"
	"subburn/internal/logging"
	"subburn/internal/pipeline"
	"subburn/internal/queue"
)

// Watcher polls the queue and processes pending items sequentially. A file
// lock enforces a single running instance per log directory.
type Watcher struct {
	cfg    *config.Config
	runner *pipeline.Runner
	store  *queue.Store
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock
}

// New constructs a watcher over the given runner and queue store.
func New(cfg *config.Config, runner *pipeline.Runner, store *queue.Store, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil || runner == nil || store == nil {
		return nil, errors.New("watch requires config, runner, and store")
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "subburn.lock")
	return &Watcher{
		cfg:      cfg,
		runner:   runner,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "watch"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the lock file location.
func (w *Watcher) LockPath() string {
	return w.lockPath
}

// Run acquires the instance lock and polls until the context is canceled.
// Items stranded mid-stage by a previous crash are rolled back before the
// first poll.
func (w *Watcher) Run(ctx context.Context) error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another subburn watcher is already running")
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watch lock", logging.Error(err))
		}
	}()

	if moved, err := w.store.RecoverStale(ctx); err != nil {
		return fmt.Errorf("recover stale items: %w", err)
	} else if moved > 0 {
		w.logger.InfoContext(ctx, "recovered stale items", logging.Int64("recovered", moved))
	}

	interval := time.Duration(w.cfg.Watch.PollIntervalSeconds) * time.Second
	w.logger.InfoContext(ctx, "watch loop started",
		logging.String("lock", w.lockPath),
		logging.Duration("poll_interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := w.drain(ctx); err != nil && ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			w.logger.Info("watch loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// drain processes pending items until the queue is empty. Item failures are
// recorded on the item and do not stop the loop.
func (w *Watcher) drain(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		processed, err := w.runner.RunNext(ctx)
		if err != nil {
			if !processed {
				return err
			}
			continue
		}
		if !processed {
			return nil
		}
	}
}
