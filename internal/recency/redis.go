package recency

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"snipvault/internal/snip"
)

// touchScript moves a snippet id to the front of the owner's list and trims
// it to the cap. Running it server-side makes the read-modify-write atomic
// per key: two concurrent touches for one owner cannot interleave into
// duplicate or lost entries.
var touchScript = redis.NewScript(`
redis.call("LREM", KEYS[1], 0, ARGV[1])
redis.call("LPUSH", KEYS[1], ARGV[1])
redis.call("LTRIM", KEYS[1], 0, tonumber(ARGV[2]) - 1)
return redis.call("LLEN", KEYS[1])
`)

// RedisIndex implements snip.RecencyIndex on a Redis list per owner.
type RedisIndex struct {
	client *redis.Client
	cap    int
}

var _ snip.RecencyIndex = (*RedisIndex)(nil)

// NewRedisIndex creates a RedisIndex with the given per-owner cap.
func NewRedisIndex(client *redis.Client, cap int) *RedisIndex {
	return &RedisIndex{client: client, cap: cap}
}

func ownerKey(ownerID int64) string {
	return fmt.Sprintf("snipvault:recent:%d", ownerID)
}

func (r *RedisIndex) Touch(ctx context.Context, ownerID, snippetID int64) error {
	if err := touchScript.Run(ctx, r.client, []string{ownerKey(ownerID)}, snippetID, r.cap).Err(); err != nil {
		return fmt.Errorf("touching recency list: %w", err)
	}
	return nil
}

func (r *RedisIndex) Remove(ctx context.Context, ownerID, snippetID int64) error {
	if err := r.client.LRem(ctx, ownerKey(ownerID), 0, snippetID).Err(); err != nil {
		return fmt.Errorf("removing from recency list: %w", err)
	}
	return nil
}

func (r *RedisIndex) List(ctx context.Context, ownerID int64) ([]int64, error) {
	values, err := r.client.LRange(ctx, ownerKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading recency list: %w", err)
	}

	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed recency entry %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *RedisIndex) Initialize(ctx context.Context, ownerID int64, ids []int64) error {
	key := ownerKey(ownerID)

	// MULTI/EXEC so the rebuild replaces the list in one atomic step.
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(ids) > 0 {
			// RPUSH in front-to-back order preserves ranking.
			args := make([]any, len(ids))
			for i, id := range ids {
				args[i] = id
			}
			pipe.RPush(ctx, key, args...)
			pipe.LTrim(ctx, key, 0, int64(r.cap)-1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("initializing recency list: %w", err)
	}
	return nil
}
