package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/studyrag/internal/adapter/utils"
	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/data/redisStore"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

const lockKeyPrefix = "partition-lock:"

// RedisPartitionLock serialises collection creation across processes with SET NX PX.
type RedisPartitionLock struct {
	store     *redisStore.Store
	ttl       time.Duration
	retryWait time.Duration
	logger    *logger_i.Logger
}

func GetRedisPartitionLock(ctx context.Context, settings config.Settings) *RedisPartitionLock {
	s := redisStore.GetRedisStore(ctx, settings, config.RedisLockStore)
	if s == nil {
		return nil
	}
	return NewRedisPartitionLock(s)
}

func NewRedisPartitionLock(store *redisStore.Store) *RedisPartitionLock {
	return &RedisPartitionLock{
		store:     store,
		ttl:       config.PartitionLockTTL,
		retryWait: config.PartitionLockRetryWait,
		logger:    logger_i.NewLogger("PartitionLock"),
	}
}

// Lock polls until the key is acquired or ctx is done. The lock expires after ttl
// so a crashed holder cannot block the partition forever.
func (l *RedisPartitionLock) Lock(ctx context.Context, key string) (func(), error) {
	log := l.logger.WithTrace(ctx).With("key", key)
	token := utils.GetNewUUID()
	redisKey := lockKeyPrefix + key

	for {
		ok, err := l.store.SetNX(ctx, redisKey, token, l.ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			log.Debug("lock acquired")
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryWait):
		}
	}

	return func() {
		// the caller's ctx may already be cancelled; release regardless
		released, err := l.store.DelIfEquals(context.WithoutCancel(ctx), redisKey, token)
		if err != nil {
			log.Error("could not release lock", "error", err)
			return
		}
		if !released {
			log.Warn("lock expired before release")
		}
	}, nil
}

// InMemoryPartitionLock is a keyed mutex for single-process deployments.
type InMemoryPartitionLock struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func InitInMemoryPartitionLock() *InMemoryPartitionLock {
	return &InMemoryPartitionLock{locks: make(map[string]chan struct{})}
}

func (l *InMemoryPartitionLock) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
