package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/whatnewads/safeshift-sub006/internal/notifications"
	"github.com/whatnewads/safeshift-sub006/pkg/logger"
)

const defaultCleanupSpec = "@daily"

// Cleaner drives the recurring removal of expired notifications. The
// notification core only exposes CleanupExpired; scheduling lives here so the
// core stays free of background machinery.
type Cleaner struct {
	manager *notifications.Manager
	cron    *cron.Cron
	log     *zap.Logger

	cleanupSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithCleanupSchedule overrides the cron specification for expiry cleanup.
func WithCleanupSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.cleanupSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(manager *notifications.Manager, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		manager:         manager,
		cleanupSchedule: defaultCleanupSpec,
		log:             logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.manager == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.cleanupSchedule, func() {
		ctx := context.Background()
		if _, err := c.manager.CleanupExpired(ctx); err != nil {
			c.log.Warn("notification expiry cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes the cleanup routine immediately. Primarily used in tests
// and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.manager != nil {
		if _, err := c.manager.CleanupExpired(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
