package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
)

type memoryEntry struct {
	videos  []*studio.Video
	expires time.Time
}

// Memory is an in-process TTL cache.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
	gens    map[string]uint64
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
		gens:    make(map[string]uint64),
	}
}

func (m *Memory) expired(e memoryEntry) bool {
	return m.ttl > 0 && m.now().After(e.expires)
}

func (m *Memory) Get(_ context.Context, owner uuid.UUID) ([]*studio.Video, bool) {
	k := key(owner)
	m.mu.RLock()
	e, ok := m.entries[k]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.expired(e) {
		m.mu.Lock()
		// a Put may have replaced the entry since the read lock was released
		if cur, ok := m.entries[k]; ok && m.expired(cur) {
			delete(m.entries, k)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.videos, true
}

func (m *Memory) Generation(_ context.Context, owner uuid.UUID) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gens[key(owner)], true
}

func (m *Memory) Put(_ context.Context, owner uuid.UUID, gen uint64, videos []*studio.Video) bool {
	snap := make([]*studio.Video, len(videos))
	copy(snap, videos)
	k := key(owner)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[k] != gen {
		return false
	}
	m.entries[k] = memoryEntry{videos: snap, expires: m.now().Add(m.ttl)}
	return true
}

func (m *Memory) Invalidate(_ context.Context, owner uuid.UUID) {
	m.mu.Lock()
	for _, o := range invalidated(owner) {
		k := key(o)
		delete(m.entries, k)
		m.gens[k]++
	}
	m.mu.Unlock()
}
