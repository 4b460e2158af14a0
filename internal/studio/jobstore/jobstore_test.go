package jobstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	studiorepo "github.com/yungbote/studio-tracker/internal/data/repos/studio"
	"github.com/yungbote/studio-tracker/internal/data/repos/testutil"
	"github.com/yungbote/studio-tracker/internal/domain/studio"
	pkgerrors "github.com/yungbote/studio-tracker/internal/pkg/errors"
	"github.com/yungbote/studio-tracker/internal/studio/cache"
)

type fakeAPI struct {
	videos  []*studio.Video
	listErr error
	delErr  error
	calls   int
}

func (f *fakeAPI) ListVideos(_ context.Context, _ uuid.UUID) ([]*studio.Video, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.videos, nil
}

func (f *fakeAPI) DeleteVideo(_ context.Context, _ uuid.UUID, id uuid.UUID) (bool, error) {
	if f.delErr != nil {
		return false, f.delErr
	}
	for i, v := range f.videos {
		if v.ID == id {
			f.videos = append(f.videos[:i:i], f.videos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func TestAPIStoreErrors(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{listErr: errors.New("connection refused")}
	s := NewAPIStore(api)

	_, err := s.ListJobs(ctx, uuid.Nil)
	if !IsFetchError(err) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !errors.Is(err, pkgerrors.ErrUnavailable) {
		t.Fatalf("FetchError should match ErrUnavailable")
	}

	api.listErr = nil
	missing := uuid.New()
	err = s.DeleteJob(ctx, uuid.Nil, missing)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != missing {
		t.Fatalf("expected NotFoundError for %v, got %v", missing, err)
	}
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("NotFoundError should match ErrNotFound")
	}

	api.delErr = errors.New("timeout")
	if err := s.DeleteJob(ctx, uuid.Nil, missing); !IsFetchError(err) {
		t.Fatalf("expected FetchError on transport failure, got %v", err)
	}
}

func TestRepoStore(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	owner := uuid.New()
	now := time.Now().UTC()

	older := testutil.SeedVideo(t, ctx, db, owner, studio.StatusCompleted, now.Add(-time.Hour))
	newer := testutil.SeedVideo(t, ctx, db, owner, studio.StatusProcessing, now)

	s := NewRepoStore(studiorepo.NewVideoRepo(db, testutil.Logger(t)))

	videos, err := s.ListJobs(ctx, owner)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(videos) != 2 || videos[0].ID != newer.ID || videos[1].ID != older.ID {
		t.Fatalf("ListJobs: unexpected result %+v", videos)
	}

	if err := s.DeleteJob(ctx, owner, older.ID); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	if err := s.DeleteJob(ctx, owner, older.ID); !IsNotFound(err) {
		t.Fatalf("DeleteJob(again): expected NotFoundError, got %v", err)
	}
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	v1 := &studio.Video{ID: uuid.New(), UserID: owner, Status: studio.StatusProcessing}
	api := &fakeAPI{videos: []*studio.Video{v1}}
	s := NewCachedStore(NewAPIStore(api), cache.NewMemory(time.Minute))

	if _, err := s.Cached(ctx, owner); err != nil {
		t.Fatalf("Cached: %v", err)
	}
	if _, err := s.Cached(ctx, owner); err != nil {
		t.Fatalf("Cached: %v", err)
	}
	if api.calls != 1 {
		t.Fatalf("expected second read to hit cache, backend calls=%d", api.calls)
	}

	// ListJobs never serves from cache.
	if _, err := s.ListJobs(ctx, owner); err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if api.calls != 2 {
		t.Fatalf("expected ListJobs to reach backend, calls=%d", api.calls)
	}

	if err := s.DeleteJob(ctx, owner, v1.ID); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	videos, err := s.Cached(ctx, owner)
	if err != nil {
		t.Fatalf("Cached after delete: %v", err)
	}
	if len(videos) != 0 {
		t.Fatalf("expected deletion to be visible, got %d videos", len(videos))
	}

	// Not-found still invalidates: the desired end state holds.
	gen, _ := s.cache.Generation(ctx, owner)
	s.cache.Put(ctx, owner, gen, []*studio.Video{v1})
	if err := s.DeleteJob(ctx, owner, v1.ID); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if _, ok := s.cache.Get(ctx, owner); ok {
		t.Fatalf("expected snapshot invalidated after not-found delete")
	}
}

// gatedStore holds ListJobs until release is closed and returns the rows it
// saw on entry.
type gatedStore struct {
	mu      sync.Mutex
	videos  []*studio.Video
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) ListJobs(_ context.Context, _ uuid.UUID) ([]*studio.Video, error) {
	g.mu.Lock()
	snap := append([]*studio.Video(nil), g.videos...)
	g.mu.Unlock()
	if g.entered != nil {
		close(g.entered)
		g.entered = nil
		<-g.release
	}
	return snap, nil
}

func (g *gatedStore) DeleteJob(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, v := range g.videos {
		if v.ID == id {
			g.videos = append(g.videos[:i:i], g.videos[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

func TestCachedStoreListRacingDelete(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	v1 := &studio.Video{ID: uuid.New(), UserID: owner, Status: studio.StatusProcessing}
	backend := &gatedStore{
		videos:  []*studio.Video{v1},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	entered := backend.entered
	s := NewCachedStore(backend, cache.NewMemory(time.Minute))

	listed := make(chan error, 1)
	go func() {
		_, err := s.ListJobs(ctx, owner)
		listed <- err
	}()
	<-entered

	if err := s.DeleteJob(ctx, owner, v1.ID); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	close(backend.release)
	if err := <-listed; err != nil {
		t.Fatalf("ListJobs: %v", err)
	}

	videos, err := s.Cached(ctx, owner)
	if err != nil {
		t.Fatalf("Cached: %v", err)
	}
	for _, v := range videos {
		if v.ID == v1.ID {
			t.Fatalf("deleted video served from cache after delete")
		}
	}
}
