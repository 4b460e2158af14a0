package jobstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/clients/dataapi"
	"github.com/yungbote/studio-tracker/internal/domain/studio"
)

// APIStore reads videos through the hosted data API.
type APIStore struct {
	api dataapi.Client
}

func NewAPIStore(api dataapi.Client) *APIStore {
	return &APIStore{api: api}
}

func (s *APIStore) ListJobs(ctx context.Context, owner uuid.UUID) ([]*studio.Video, error) {
	videos, err := s.api.ListVideos(ctx, owner)
	if err != nil {
		return nil, newFetchError("list", err)
	}
	return videos, nil
}

func (s *APIStore) DeleteJob(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	removed, err := s.api.DeleteVideo(ctx, owner, id)
	if err != nil {
		return newFetchError("delete", err)
	}
	if !removed {
		return &NotFoundError{ID: id}
	}
	return nil
}
