package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/brightvolt/backoffice-backend/pkg/redis"
)

// Locker guards a job so only one worker instance runs it at a time.
type Locker interface {
	Acquire(ctx context.Context, job string) (bool, error)
	Release(ctx context.Context, job string) error
}

// RedisLock is a SETNX-based distributed lock. The TTL bounds how long a
// crashed holder can block other instances; Release only deletes the key when
// this instance still owns it.
type RedisLock struct {
	client *redis.Client
	owner  string
	ttl    time.Duration
}

func NewRedisLock(client *redis.Client, owner string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisLock{client: client, owner: owner, ttl: ttl}
}

func (l *RedisLock) key(job string) string {
	return redis.Key("cron", "lock", job)
}

// Acquire takes the job lock if no other instance holds it.
func (l *RedisLock) Acquire(ctx context.Context, job string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(job), l.owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire lock for %s: %w", job, err)
	}
	return ok, nil
}

// Release drops the lock when this instance owns it. A lock taken over by
// another instance after TTL expiry is left alone.
func (l *RedisLock) Release(ctx context.Context, job string) error {
	holder, err := l.client.Get(ctx, l.key(job))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return fmt.Errorf("inspect lock for %s: %w", job, err)
	}
	if holder != l.owner {
		return nil
	}
	if err := l.client.Del(ctx, l.key(job)); err != nil {
		return fmt.Errorf("release lock for %s: %w", job, err)
	}
	return nil
}

// NoopLocker always grants the lock. Used when running a single instance
// without Redis.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (bool, error) { return true, nil }
func (NoopLocker) Release(context.Context, string) error         { return nil }
