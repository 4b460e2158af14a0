package jobstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/observability"
)

type instrumentedStore struct {
	backend string
	inner   Store
	metrics *observability.Metrics
}

// Instrument records latency and outcome of every call when metrics are on.
func Instrument(backend string, inner Store) Store {
	m := observability.Current()
	if inner == nil || m == nil {
		return inner
	}
	return &instrumentedStore{backend: backend, inner: inner, metrics: m}
}

func (s *instrumentedStore) ListJobs(ctx context.Context, owner uuid.UUID) ([]*studio.Video, error) {
	start := time.Now()
	out, err := s.inner.ListJobs(ctx, owner)
	s.observe("list", err, time.Since(start))
	return out, err
}

func (s *instrumentedStore) DeleteJob(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	start := time.Now()
	err := s.inner.DeleteJob(ctx, owner, id)
	s.observe("delete", err, time.Since(start))
	return err
}

func (s *instrumentedStore) observe(op string, err error, dur time.Duration) {
	result := "ok"
	switch {
	case IsNotFound(err):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	s.metrics.ObserveStore(s.backend, op, result, dur)
}
