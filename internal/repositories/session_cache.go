package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alphaDash/internal/session"
)

// SessionCache keeps session values in a Redis hash per session.
type SessionCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("alpha:session:%s", sessionID)
}

func (c *SessionCache) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	values, err := c.RDB.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (c *SessionCache) Save(ctx context.Context, sessionID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	pipe := c.RDB.TxPipeline()
	c.write(ctx, pipe, sessionKey(sessionID), values)
	_, err := pipe.Exec(ctx)
	return err
}

// updateAttempts bounds retries when another writer touches the key mid-update.
const updateAttempts = 3

// Update writes only while the hash exists. The key is watched so a Clear
// racing with the write aborts the transaction; the retry then sees no key.
func (c *SessionCache) Update(ctx context.Context, sessionID string, values map[string]string) error {
	key := sessionKey(sessionID)
	update := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return session.ErrNotStored
		}
		if len(values) == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			c.write(ctx, pipe, key, values)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < updateAttempts; i++ {
		err = c.RDB.Watch(ctx, update, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func (c *SessionCache) write(ctx context.Context, pipe redis.Pipeliner, key string, values map[string]string) {
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}
	pipe.HSet(ctx, key, fields)
	if c.TTL > 0 {
		pipe.Expire(ctx, key, c.TTL)
	}
}

func (c *SessionCache) Clear(ctx context.Context, sessionID string) error {
	return c.RDB.Del(ctx, sessionKey(sessionID)).Err()
}
