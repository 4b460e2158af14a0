package jobstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/studio/cache"
)

// CachedStore keeps the last listed snapshot per owner. ListJobs always goes to
// the backing store and writes the result through unless a delete invalidated
// the owner while the list was in flight; Cached serves reads that tolerate a
// snapshot up to the cache TTL old.
type CachedStore struct {
	next  Store
	cache cache.SnapshotCache
}

func NewCachedStore(next Store, c cache.SnapshotCache) *CachedStore {
	return &CachedStore{next: next, cache: c}
}

func (s *CachedStore) ListJobs(ctx context.Context, owner uuid.UUID) ([]*studio.Video, error) {
	gen, cacheable := s.cache.Generation(ctx, owner)
	videos, err := s.next.ListJobs(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cache.Put(ctx, owner, gen, videos)
	}
	return videos, nil
}

// Cached returns the cached snapshot, listing on a miss.
func (s *CachedStore) Cached(ctx context.Context, owner uuid.UUID) ([]*studio.Video, error) {
	if videos, ok := s.cache.Get(ctx, owner); ok {
		return videos, nil
	}
	return s.ListJobs(ctx, owner)
}

// DeleteJob invalidates the owner's snapshot whenever the video is known to be
// absent afterwards, including when it was already gone.
func (s *CachedStore) DeleteJob(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	err := s.next.DeleteJob(ctx, owner, id)
	if err == nil || IsNotFound(err) {
		s.cache.Invalidate(ctx, owner)
	}
	return err
}
