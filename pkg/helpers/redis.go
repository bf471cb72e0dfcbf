package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisQueue is a FIFO job queue on a redis list: RPUSH to enqueue, BLPOP to take.
type RedisQueue struct {
	rdb *redis.Client
	Key string
}

func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, Key: key}
}

func (q *RedisQueue) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, q.Key, b).Err()
}

// Pop blocks up to wait for the next job. It returns nil, nil on timeout.
func (q *RedisQueue) Pop(ctx context.Context, wait time.Duration) ([]byte, error) {
	res, err := q.rdb.BLPop(ctx, wait, q.Key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BLPOP replies with [key, value].
	if len(res) != 2 {
		return nil, errors.New("redis: unexpected BLPOP reply")
	}
	return []byte(res[1]), nil
}
