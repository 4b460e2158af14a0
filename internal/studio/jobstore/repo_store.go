package jobstore

import (
	"context"

	"github.com/google/uuid"

	studiorepo "github.com/yungbote/studio-tracker/internal/data/repos/studio"
	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/pkg/dbctx"
)

// RepoStore reads the video table directly.
type RepoStore struct {
	repo studiorepo.VideoRepo
}

func NewRepoStore(repo studiorepo.VideoRepo) *RepoStore {
	return &RepoStore{repo: repo}
}

func (s *RepoStore) ListJobs(ctx context.Context, owner uuid.UUID) ([]*studio.Video, error) {
	videos, err := s.repo.ListByOwner(dbctx.New(ctx), owner)
	if err != nil {
		return nil, newFetchError("list", err)
	}
	return videos, nil
}

func (s *RepoStore) DeleteJob(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	deleted, err := s.repo.DeleteByID(dbctx.New(ctx), owner, id)
	if err != nil {
		return newFetchError("delete", err)
	}
	if !deleted {
		return &NotFoundError{ID: id}
	}
	return nil
}
