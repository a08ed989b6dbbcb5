package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueueKey is the Redis list shared by the API producers and the email worker.
const QueueKey = "email-queue"

// Dispatcher pushes email jobs onto the durable Redis queue. Jobs are queued
// before the producing request returns; delivery and retry are the worker's
// concern.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func NewDispatcherFromURL(redisURL string) (*Dispatcher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Dispatcher{rdb: client}, nil
}

func (d *Dispatcher) Enqueue(ctx context.Context, job EmailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := d.rdb.LPush(ctx, QueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue %s job: %w", job.Type, err)
	}
	return nil
}

// Dequeue blocks until a job is available or the timeout elapses. A zero
// timeout blocks indefinitely. Returns nil, nil on timeout.
func (d *Dispatcher) Dequeue(ctx context.Context, timeout time.Duration) (*EmailJob, error) {
	res, err := d.rdb.BRPop(ctx, timeout, QueueKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	// BRPOP returns [key, value].
	var job EmailJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}
