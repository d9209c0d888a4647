package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/ist-ho/progdash/internal/utils"
)

// RefreshStatus holds the outcome of the last background refresh.
type RefreshStatus struct {
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       string
}

// Refresher reloads the snapshot on a fixed interval so requests rarely pay
// for a download. A failed refresh keeps serving the previous snapshot until
// its TTL runs out.
type Refresher struct {
	svc      *Service
	interval time.Duration

	mu   sync.RWMutex
	last *RefreshStatus
}

func NewRefresher(svc *Service, interval time.Duration) *Refresher {
	return &Refresher{svc: svc, interval: interval}
}

// Run refreshes immediately, then every interval until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	utils.Log.WithField("interval", r.interval).Info("Starting background refresh")

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	status := &RefreshStatus{StartedAt: time.Now()}
	_, err := r.svc.cache.Refresh(ctx, r.svc.now())
	status.Duration = time.Since(status.StartedAt)
	status.Success = err == nil
	if err != nil {
		status.Err = err.Error()
		utils.Log.WithError(err).Warn("Background refresh failed")
	}

	r.mu.Lock()
	r.last = status
	r.mu.Unlock()
}

// Last returns a copy of the most recent refresh status, or nil before the
// first one completes.
func (r *Refresher) Last() *RefreshStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return nil
	}
	cp := *r.last
	return &cp
}
