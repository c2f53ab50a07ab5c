package mediaingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// CleanerConfig controls the concurrency characteristics of the cleanup worker.
type CleanerConfig struct {
	QueueSize int
	Workers   int
}

// Cleaner disposes of superseded assets off the request path: it resolves the
// old asset from its previous public URL, deletes the physical object, then
// deletes the asset record. Failures are logged and dropped; the webhook that
// scheduled the job has already been acknowledged.
type Cleaner struct {
	repo   Repository
	store  ObjectStore
	urls   URLStrategy
	logger *slog.Logger

	jobs   chan CleanupJob
	closed chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewCleaner constructs a background worker pool for asset disposal.
func NewCleaner(repo Repository, store ObjectStore, urls URLStrategy, cfg CleanerConfig, logger *slog.Logger) *Cleaner {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cleaner{
		repo:   repo,
		store:  store,
		urls:   urls,
		logger: logger,
		jobs:   make(chan CleanupJob, cfg.QueueSize),
		closed: make(chan struct{}),
	}

	c.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go c.worker()
	}

	return c
}

// Enqueue schedules disposal of the asset behind job.PreviousURL.
func (c *Cleaner) Enqueue(ctx context.Context, job CleanupJob) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return ErrCleanerClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return ErrCleanerClosed
	case c.jobs <- job:
		return nil
	}
}

// Shutdown stops intake and waits for queued jobs to drain.
func (c *Cleaner) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		close(c.closed)
		close(c.jobs)
	})

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c *Cleaner) worker() {
	defer c.wg.Done()
	for job := range c.jobs {
		c.handleJob(job)
	}
}

func (c *Cleaner) handleJob(job CleanupJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path, ok := c.urls.StoragePath(job.PreviousURL)
	if !ok {
		c.logger.Warn("cleanup: url not served from configured bucket", "url", job.PreviousURL)
		return
	}

	asset, err := c.repo.GetAssetByStoragePath(ctx, path)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			// Already reconciled by an earlier duplicate; nothing to do.
			c.logger.Info("cleanup: asset already gone", "path", path)
		} else {
			c.logger.Error("cleanup: resolve asset", "path", path, "err", err)
		}
		return
	}

	if err := c.store.Delete(ctx, asset.StoragePath); err != nil {
		// Keep the record so the orphan stays visible; a later sweep can retry.
		c.logger.Error("cleanup: delete object", "path", asset.StoragePath, "err", err)
		return
	}

	if err := c.repo.DeleteAsset(ctx, asset.ID); err != nil {
		c.logger.Error("cleanup: delete asset record", "asset_id", asset.ID.String(), "err", err)
		return
	}

	c.logger.Info("cleanup: superseded asset removed", "asset_id", asset.ID.String(), "path", asset.StoragePath)
}
