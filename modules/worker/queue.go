package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pastlife-server/modules/common/model"
)

// Queue - 비동기 뽑기 요청 대기열
type Queue interface {
	// Push - 요청을 넣고 현재 대기열 길이를 돌려준다
	Push(ctx context.Context, job model.DrawJob) (int64, error)
	// Pop - 요청이 들어올 때까지 기다린다 (ctx 취소 시 에러)
	Pop(ctx context.Context) (*model.DrawJob, error)
	Name() string
}

// popBlockTimeout - BRPOP 1회 대기 시간
const popBlockTimeout = 5 * time.Second

// RedisQueue - Redis 리스트 기반 대기열 (LPUSH / BRPOP)
type RedisQueue struct {
	rdb  *redis.Client
	name string
}

// NewRedisQueue - RedisQueue 생성
func NewRedisQueue(rdb *redis.Client, name string) *RedisQueue {
	return &RedisQueue{rdb: rdb, name: name}
}

func (q *RedisQueue) Name() string { return q.name }

func (q *RedisQueue) Push(ctx context.Context, job model.DrawJob) (int64, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.name, payload).Err(); err != nil {
		return 0, fmt.Errorf("redis LPUSH failed: %w", err)
	}

	// Queue 길이 조회
	queueLen, err := q.rdb.LLen(ctx, q.name).Result()
	if err != nil {
		return 0, nil
	}
	return queueLen, nil
}

func (q *RedisQueue) Pop(ctx context.Context) (*model.DrawJob, error) {
	var result []string
	for {
		// 짧게 나눠서 기다려야 ctx 취소를 바로 확인할 수 있다
		var err error
		result, err = q.rdb.BRPop(ctx, popBlockTimeout, q.name).Result()
		if err == nil {
			break
		}
		if errors.Is(err, redis.Nil) && ctx.Err() == nil {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	// result[0]은 queue 이름, result[1]이 실제 payload
	if len(result) < 2 {
		return nil, fmt.Errorf("unexpected BRPOP result: %v", result)
	}

	var job model.DrawJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("invalid job payload: %w", err)
	}
	return &job, nil
}
