package pipeline

import (
	"context"
	"time"

	"github.com/ist-ho/progdash/internal/metrics"
	"github.com/ist-ho/progdash/pkg/sheets"
)

// Service serves snapshots out of a TTL cache in front of a Loader.
type Service struct {
	loader  *Loader
	cache   *sheets.Cache[*Snapshot]
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(loader *Loader, ttl time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		loader:  loader,
		cache:   sheets.NewCache(ttl, loader.Load),
		metrics: m,
		now:     time.Now,
	}
}

// Snapshot returns the cached snapshot or loads a new one.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, hit, err := s.cache.GetOrRefresh(ctx, s.now())
	if s.metrics != nil {
		result := "miss"
		if hit {
			result = "hit"
		}
		s.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
	return snap, err
}

// Reload drops the cached snapshot; the next call to Snapshot refetches.
func (s *Service) Reload() {
	s.cache.Invalidate()
}

func (s *Service) SourceURL() string { return s.loader.SourceURL() }
func (s *Service) ExportURL() string { return s.loader.ExportURL() }
