package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
	"github.com/sanosuguru/go-event-listing/internal/pkg/metrics"
)

var (
	ErrLockNotAcquired = errors.New("lock not acquired")
	ErrLockNotOwned    = errors.New("lock not owned")
)

const (
	releaseScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	extendScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
)

// DistributedLock is a lock held in Redis
type DistributedLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// LockConfig controls how WithLock acquires its lock
type LockConfig struct {
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
}

// LockManager hands out distributed locks
type LockManager struct {
	client  *redis.Client
	cfg     LockConfig
	metrics *metrics.Metrics
}

func NewLockManager(client *redis.Client, cfg LockConfig, m *metrics.Metrics) *LockManager {
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	return &LockManager{client: client, cfg: cfg, metrics: m}
}

// AcquireLock takes the lock once with SET NX
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*DistributedLock, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	lockValue := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &DistributedLock{
		client: m.client,
		key:    lockKey,
		value:  lockValue,
		ttl:    ttl,
	}, nil
}

// AcquireLockWithRetry retries AcquireLock while the lock is held elsewhere
func (m *LockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*DistributedLock, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// WithLock runs fn while holding the lock on key. A lock that stays busy
// after all retries is reported as transaction.ErrConflict.
func (m *LockManager) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	started := time.Now()
	lock, err := m.AcquireLockWithRetry(ctx, key, m.cfg.TTL, m.cfg.Retries, m.cfg.RetryDelay)
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			m.metrics.ObserveLock("acquire", "busy", started)
			return fmt.Errorf("%w: %s is locked", transaction.ErrConflict, key)
		}
		m.metrics.ObserveLock("acquire", "error", started)
		return err
	}
	m.metrics.ObserveLock("acquire", "success", started)

	defer func() {
		// the lock expires on its own if release fails
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			logger.FromContext(ctx).Warn("failed to release lock",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}()
	return fn(ctx)
}

// Release deletes the lock if it is still ours
func (l *DistributedLock) Release(ctx context.Context) error {
	result, err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.value).Int()
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Extend pushes the expiry of a lock we still own
func (l *DistributedLock) Extend(ctx context.Context, ttl time.Duration) error {
	result, err := l.client.Eval(ctx, extendScript, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("extend lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	l.ttl = ttl
	return nil
}
