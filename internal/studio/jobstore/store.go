// Package jobstore is the single source of truth the rest of the studio core
// observes: it lists videos and deletes them, nothing else.
package jobstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
)

// Store lists and deletes studio videos. Job content is never written here;
// the external generation pipeline owns every other mutation.
//
// ListJobs returns videos newest first and fails with *FetchError when the
// backing store cannot be reached. DeleteJob fails with *NotFoundError when the
// id is gone and *FetchError on transport failure. uuid.Nil as owner means
// every owner.
type Store interface {
	ListJobs(ctx context.Context, owner uuid.UUID) ([]*studio.Video, error)
	DeleteJob(ctx context.Context, owner uuid.UUID, id uuid.UUID) error
}
