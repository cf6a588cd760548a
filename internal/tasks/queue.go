package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
)

// ErrQueueEmpty is returned by Dequeue when no job arrived within the wait window.
var ErrQueueEmpty = errors.New("task queue is empty")

// Job is the unit of work pushed through the broker. Args carries
// job-specific parameters and must be JSON-serializable.
type Job struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Args       map[string]string `json:"args,omitempty"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// NewJob stamps a fresh job with an ID and enqueue time.
func NewJob(name string, args map[string]string) Job {
	return Job{
		ID:         uuid.New(),
		Name:       name,
		Args:       args,
		EnqueuedAt: time.Now().UTC(),
	}
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context, wait time.Duration) (Job, error)
	Close() error
}

type redisQueue struct {
	rdb *goredis.Client
	key string
}

// NewRedisQueue connects to the broker and verifies it with a ping.
func NewRedisQueue(addr, key string) (Queue, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if key == "" {
		key = "storefront:tasks"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisQueue{rdb: rdb, key: key}, nil
}

func (q *redisQueue) Enqueue(ctx context.Context, job Job) error {
	log := logger.FromCtx(ctx)

	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := q.rdb.LPush(ctx, q.key, raw).Err(); err != nil {
		log.Error("failed to enqueue job",
			zap.String("job_name", job.Name),
			zap.Error(err),
		)
		return err
	}

	metrics.JobsEnqueued.Inc()
	log.Info("job enqueued",
		zap.String("job_id", job.ID.String()),
		zap.String("job_name", job.Name),
	)
	return nil
}

func (q *redisQueue) Dequeue(ctx context.Context, wait time.Duration) (Job, error) {
	res, err := q.rdb.BRPop(ctx, wait, q.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return Job{}, ErrQueueEmpty
		}
		return Job{}, err
	}

	// BRPop returns [key, value].
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return Job{}, fmt.Errorf("decode job payload: %w", err)
	}
	return job, nil
}

func (q *redisQueue) Close() error {
	return q.rdb.Close()
}
