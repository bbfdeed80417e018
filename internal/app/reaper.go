package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TokenSweeper is the store operation the reaper drives.
type TokenSweeper interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// TokenReaper periodically deactivates expired inclusion tokens so the
// auto-inclusion flow never honors a stale token between requests.
type TokenReaper struct {
	tokens   TokenSweeper
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewTokenReaper creates a reaper. A non-positive interval defaults to
// one hour.
func NewTokenReaper(tokens TokenSweeper, interval time.Duration, logger *zap.Logger) *TokenReaper {
	if interval <= 0 {
		interval = time.Hour
	}

	return &TokenReaper{
		tokens:   tokens,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (r *TokenReaper) Start(ctx context.Context) {
	r.logger.Info("Starting token reaper", zap.Duration("interval", r.interval))
	go r.run(ctx)
}

// Stop terminates the sweep loop.
func (r *TokenReaper) Stop() {
	r.logger.Info("Stopping token reaper")
	close(r.stopChan)
}

func (r *TokenReaper) run(ctx context.Context) {
	// First sweep right at startup.
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(ctx)
		case <-r.stopChan:
			r.logger.Info("Token reaper stopped")
			return
		case <-ctx.Done():
			r.logger.Info("Token reaper cancelled")
			return
		}
	}
}

func (r *TokenReaper) sweep(ctx context.Context) {
	swept, err := r.tokens.DeactivateExpired(ctx)
	if err != nil {
		r.logger.Error("Failed to sweep expired tokens", zap.Error(err))
		return
	}

	if swept > 0 {
		r.logger.Info("Expired tokens deactivated", zap.Int64("count", swept))
	}
}
