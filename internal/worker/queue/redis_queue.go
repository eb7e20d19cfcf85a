package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a FIFO of object keys on a Redis list: LPUSH in, BRPOP out.
type RedisQueue struct {
	rdb       *redis.Client
	queueName string
	// wait bounds one BRPOP so shutdown is noticed between pops.
	wait time.Duration
}

func NewRedisQueue(rdb *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{rdb: rdb, queueName: queueName, wait: 5 * time.Second}
}

func (q *RedisQueue) Name() string { return q.queueName }

// Pop blocks up to the queue's wait for an element. It returns "" and no
// error when the wait elapses empty.
func (q *RedisQueue) Pop(ctx context.Context) (string, error) {
	res, err := q.rdb.BRPop(ctx, q.wait, q.queueName).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if len(res) < 2 {
		return "", nil
	}
	return res[1], nil
}

// Push enqueues object keys for the worker.
func (q *RedisQueue) Push(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	vals := make([]any, len(keys))
	for i, k := range keys {
		vals[i] = k
	}
	return q.rdb.LPush(ctx, q.queueName, vals...).Err()
}

// Len returns the number of pending keys.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.queueName).Result()
}
