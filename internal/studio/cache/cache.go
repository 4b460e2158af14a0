// Package cache holds per-owner snapshots of the studio job list.
package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
)

// SnapshotCache stores whole job-list snapshots. Implementations never hand out
// a slice that a later Put can modify.
//
// Writers read Generation before listing and pass it to Put. Invalidate bumps
// the generation, so a list that started before an invalidation can never
// write its older snapshot back.
type SnapshotCache interface {
	// Get returns ok=false on a miss or on any backend failure.
	Get(ctx context.Context, owner uuid.UUID) ([]*studio.Video, bool)
	// Generation returns ok=false when it cannot be read; callers skip Put then.
	Generation(ctx context.Context, owner uuid.UUID) (uint64, bool)
	// Put stores videos only while owner's generation still equals gen.
	Put(ctx context.Context, owner uuid.UUID, gen uint64, videos []*studio.Video) bool
	Invalidate(ctx context.Context, owner uuid.UUID)
}

func key(owner uuid.UUID) string {
	if owner == uuid.Nil {
		return "studio:videos:all"
	}
	return "studio:videos:" + owner.String()
}

func genKey(owner uuid.UUID) string {
	return key(owner) + ":gen"
}

// invalidated lists the snapshot keys an owner's change makes stale; the
// all-owners listing includes every owner's rows.
func invalidated(owner uuid.UUID) []uuid.UUID {
	if owner == uuid.Nil {
		return []uuid.UUID{uuid.Nil}
	}
	return []uuid.UUID{owner, uuid.Nil}
}
