package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/studyrag/internal/data/redisStore"
	"github.com/akolanti/studyrag/internal/data/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

func lockers(t *testing.T) map[string]locker {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return map[string]locker{
		"redis":  store.NewRedisPartitionLock(redisStore.NewTestStore(client)),
		"memory": store.InitInMemoryPartitionLock(),
	}
}

func TestPartitionLock_MutualExclusion(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			var inside, maxInside int32
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					unlock, err := l.Lock(context.Background(), "bio-101_doc-1_content")
					if err != nil {
						t.Errorf("Lock failed: %v", err)
						return
					}
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					unlock()
				}()
			}
			wg.Wait()
			if maxInside != 1 {
				t.Errorf("expected one holder at a time, saw %d", maxInside)
			}
		})
	}
}

func TestPartitionLock_ContextCancelled(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlock, err := l.Lock(context.Background(), "held")
			if err != nil {
				t.Fatalf("Lock failed: %v", err)
			}
			defer unlock()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			if _, err := l.Lock(ctx, "held"); err == nil {
				t.Error("expected timeout while the key is held")
			}

			other, err := l.Lock(context.Background(), "other-key")
			if err != nil {
				t.Errorf("independent keys must not block: %v", err)
			} else {
				other()
			}
		})
	}
}

func TestRedisPartitionLock_ReleaseOnlyOwnToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := store.NewRedisPartitionLock(redisStore.NewTestStore(client))

	unlock, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	// simulate expiry and takeover by another holder
	mr.Set("partition-lock:k", "someone-else")
	unlock()

	if got, _ := mr.Get("partition-lock:k"); got != "someone-else" {
		t.Errorf("unlock removed another holder's lock, key now %q", got)
	}
}
