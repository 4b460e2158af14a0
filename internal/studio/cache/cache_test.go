package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

func exercise(t *testing.T, c SnapshotCache) {
	t.Helper()
	ctx := context.Background()
	owner := uuid.New()

	if _, ok := c.Get(ctx, owner); ok {
		t.Fatalf("expected miss on empty cache")
	}

	videos := []*studio.Video{{ID: uuid.New(), UserID: owner, Status: studio.StatusProcessing}}
	put(t, c, owner, videos)
	put(t, c, uuid.Nil, videos)

	got, ok := c.Get(ctx, owner)
	if !ok || len(got) != 1 || got[0].ID != videos[0].ID {
		t.Fatalf("expected hit, got ok=%v len=%d", ok, len(got))
	}

	c.Invalidate(ctx, owner)
	if _, ok := c.Get(ctx, owner); ok {
		t.Fatalf("expected miss after invalidate")
	}
	if _, ok := c.Get(ctx, uuid.Nil); ok {
		t.Fatalf("expected all-owners snapshot to be invalidated too")
	}

	// A list that read the generation before the invalidation must not
	// write its older snapshot back.
	stale, ok := c.Generation(ctx, owner)
	if !ok {
		t.Fatalf("generation unreadable")
	}
	c.Invalidate(ctx, owner)
	if c.Put(ctx, owner, stale, videos) {
		t.Fatalf("put with a superseded generation was stored")
	}
	if _, ok := c.Get(ctx, owner); ok {
		t.Fatalf("stale snapshot served after invalidate")
	}
	put(t, c, owner, videos)
	if _, ok := c.Get(ctx, owner); !ok {
		t.Fatalf("expected hit after put with current generation")
	}
}

func put(t *testing.T, c SnapshotCache, owner uuid.UUID, videos []*studio.Video) {
	t.Helper()
	ctx := context.Background()
	gen, ok := c.Generation(ctx, owner)
	if !ok {
		t.Fatalf("generation unreadable")
	}
	if !c.Put(ctx, owner, gen, videos) {
		t.Fatalf("put with current generation rejected")
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory(time.Minute))
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Second)
	now := time.Now()
	m.now = func() time.Time { return now }

	owner := uuid.New()
	put(t, m, owner, []*studio.Video{})
	if _, ok := m.Get(context.Background(), owner); !ok {
		t.Fatalf("expected hit before expiry")
	}
	now = now.Add(2 * time.Second)
	if _, ok := m.Get(context.Background(), owner); ok {
		t.Fatalf("expected miss after expiry")
	}
}

func TestMemoryExpiredGetKeepsFreshPut(t *testing.T) {
	m := NewMemory(time.Second)
	base := time.Now()
	clock := base
	m.now = func() time.Time { return clock }
	owner := uuid.New()
	put(t, m, owner, []*studio.Video{})

	// The first expiry check in Get runs between the read and write locks.
	// Land a fresh Put right there.
	fresh := &studio.Video{ID: uuid.New()}
	interleave := true
	m.now = func() time.Time {
		if interleave {
			interleave = false
			clock = base.Add(2 * time.Second)
			put(t, m, owner, []*studio.Video{fresh})
		}
		return clock
	}
	if _, ok := m.Get(context.Background(), owner); ok {
		t.Fatalf("expected the expired read to miss")
	}
	got, ok := m.Get(context.Background(), owner)
	if !ok || len(got) != 1 || got[0].ID != fresh.ID {
		t.Fatalf("fresh snapshot dropped by expiry cleanup: ok=%v len=%d", ok, len(got))
	}
}

func TestMemoryPutCopiesSlice(t *testing.T) {
	m := NewMemory(time.Minute)
	owner := uuid.New()
	videos := []*studio.Video{{ID: uuid.New()}}
	put(t, m, owner, videos)
	videos[0] = &studio.Video{ID: uuid.New()}

	got, _ := m.Get(context.Background(), owner)
	if got[0].ID == videos[0].ID {
		t.Fatalf("cached snapshot shares backing array with caller")
	}
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis cache tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	exercise(t, NewRedis(logger.Nop(), rdb, time.Minute))
}
