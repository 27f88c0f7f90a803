package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kvasek/betterschedule/internal/ports"
)

const (
	// DefaultRefreshThreshold leaves enough lead time for a network
	// round trip before the token actually expires. The upstream app
	// shipped with a 3s threshold, which leaves a window where requests
	// race the expiry; treat that value as a floor, not a default.
	DefaultRefreshThreshold = 90 * time.Second
	DefaultCheckInterval    = 10 * time.Second
)

// ExpiryMonitor periodically decodes the current token's expiry claim
// and triggers a refresh through the session manager before the token
// lapses. It never raises errors of its own: a missing token, an
// undecodable token, or a failed refresh is swallowed because the next
// tick re-evaluates and the manager already handled the fallout.
type ExpiryMonitor struct {
	manager   *SessionManager
	threshold time.Duration
	interval  time.Duration
	clock     ports.Clock
	logger    *zap.Logger

	// OnRefreshed runs after a successful background refresh so the
	// collaborator can re-parse claims and re-fetch the timetable.
	OnRefreshed func(ctx context.Context)
}

func NewExpiryMonitor(manager *SessionManager, threshold, interval time.Duration, clock ports.Clock, logger *zap.Logger) *ExpiryMonitor {
	if threshold <= 0 {
		threshold = DefaultRefreshThreshold
	}
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ExpiryMonitor{
		manager:   manager,
		threshold: threshold,
		interval:  interval,
		clock:     clock,
		logger:    logger,
	}
}

// Run ticks until ctx is done.
func (m *ExpiryMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// Tick performs one expiry check. Exposed for the run loop and tests.
func (m *ExpiryMonitor) Tick(ctx context.Context) {
	claims, err := m.manager.Claims()
	if err != nil || claims.ExpiresAt == 0 {
		return
	}

	remaining := claims.ExpiresIn(m.clock.Now())
	if remaining > m.threshold {
		return
	}

	m.logger.Debug("token near expiry, refreshing", zap.Duration("remaining", remaining))

	if err := m.manager.TryRefresh(ctx); err != nil {
		if errors.Is(err, ErrRefreshInFlight) {
			m.logger.Debug("refresh skipped, session busy")
			return
		}
		m.logger.Warn("background refresh failed", zap.Error(err))
		return
	}

	if m.OnRefreshed != nil {
		m.OnRefreshed(ctx)
	}
}
