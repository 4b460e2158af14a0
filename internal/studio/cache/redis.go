package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

// putIfGeneration writes KEYS[1] only while the counter at KEYS[2] equals
// ARGV[1]. A missing counter reads as 0. ARGV[3] is the TTL in ms, 0 for none.
var putIfGeneration = goredis.NewScript(`
local cur = redis.call('GET', KEYS[2]) or '0'
if cur ~= ARGV[1] then
  return 0
end
if ARGV[3] == '0' then
  redis.call('SET', KEYS[1], ARGV[2])
else
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return 1
`)

// Redis shares snapshots between service instances.
type Redis struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewRedis(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{
		log: log.With("cache", "RedisSnapshotCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func (r *Redis) Get(ctx context.Context, owner uuid.UUID) ([]*studio.Video, bool) {
	raw, err := r.rdb.Get(ctx, key(owner)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.log.Warn("Snapshot cache read failed", "owner", owner.String(), "error", err)
		}
		return nil, false
	}
	var out []*studio.Video
	if err := json.Unmarshal(raw, &out); err != nil {
		r.log.Warn("Snapshot cache entry undecodable", "owner", owner.String(), "error", err)
		return nil, false
	}
	return out, true
}

func (r *Redis) Generation(ctx context.Context, owner uuid.UUID) (uint64, bool) {
	gen, err := r.rdb.Get(ctx, genKey(owner)).Uint64()
	switch {
	case errors.Is(err, goredis.Nil):
		return 0, true
	case err != nil:
		r.log.Warn("Snapshot generation read failed", "owner", owner.String(), "error", err)
		return 0, false
	}
	return gen, true
}

func (r *Redis) Put(ctx context.Context, owner uuid.UUID, gen uint64, videos []*studio.Video) bool {
	if videos == nil {
		videos = []*studio.Video{}
	}
	raw, err := json.Marshal(videos)
	if err != nil {
		r.log.Warn("Snapshot cache encode failed", "owner", owner.String(), "error", err)
		return false
	}
	stored, err := putIfGeneration.Run(ctx, r.rdb,
		[]string{key(owner), genKey(owner)},
		strconv.FormatUint(gen, 10), raw, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		r.log.Warn("Snapshot cache write failed", "owner", owner.String(), "error", err)
		return false
	}
	return stored == 1
}

func (r *Redis) Invalidate(ctx context.Context, owner uuid.UUID) {
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, o := range invalidated(owner) {
			pipe.Incr(ctx, genKey(o))
			pipe.Del(ctx, key(o))
		}
		return nil
	})
	if err != nil {
		r.log.Warn("Snapshot cache invalidate failed", "owner", owner.String(), "error", err)
	}
}
