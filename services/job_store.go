package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog-service/models"

	"github.com/go-redis/redis/v8"
)

const (
	jobKeyPrefix  = "bulk_import:job:"
	BulkQueueKey  = "bulk_import:queue"
	jobTTL        = 24 * time.Hour
	queuePollWait = 5 * time.Second
)

// JobStore keeps asynchronous import jobs in Redis and queues their IDs on a
// list consumed by the bulk import worker.
type JobStore struct {
	rdb *redis.Client
}

func NewJobStore(rdb *redis.Client) *JobStore {
	return &JobStore{rdb: rdb}
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}

// Save writes job and refreshes its 24h TTL.
func (s *JobStore) Save(ctx context.Context, job *models.BulkImportJob) error {
	job.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := s.rdb.Set(ctx, jobKey(job.ID), data, jobTTL).Err(); err != nil {
		return fmt.Errorf("failed to store job metadata: %w", err)
	}
	return nil
}

func (s *JobStore) Get(ctx context.Context, id string) (*models.BulkImportJob, error) {
	val, err := s.rdb.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job metadata: %w", err)
	}
	var job models.BulkImportJob
	if err := json.Unmarshal(val, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job metadata: %w", err)
	}
	return &job, nil
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, jobKey(id)).Err()
}

func (s *JobStore) Push(ctx context.Context, id string) error {
	if err := s.rdb.RPush(ctx, BulkQueueKey, id).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Pop blocks for a short while waiting for the next job ID. It returns ""
// and no error when the wait elapsed with an empty queue.
func (s *JobStore) Pop(ctx context.Context) (string, error) {
	res, err := s.rdb.BLPop(ctx, queuePollWait, BulkQueueKey).Result()
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
