// README: Session stores: in-process (go-cache) and shared (Redis), both with an idle TTL.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"farebot/internal/modules/dialogue"
	"farebot/internal/types"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 24 * time.Hour

type Store interface {
	Get(ctx context.Context, id types.ID) (dialogue.Session, error)
	Create(ctx context.Context, s dialogue.Session) error
	// Update stores s if the stored Version still equals s.Version, and bumps the stored
	// Version. Otherwise it returns ErrConflict.
	Update(ctx context.Context, s dialogue.Session) error
	Remove(ctx context.Context, id types.ID) error
}

// MemoryStore keeps sessions in process. A ttl of 0 disables expiry.
// Every Update refreshes the expiry.
type MemoryStore struct {
	mu    sync.Mutex // guards the version check in Update
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &MemoryStore{cache: cache.New(ttl, ttl/2)}
}

func (m *MemoryStore) Get(_ context.Context, id types.ID) (dialogue.Session, error) {
	v, ok := m.cache.Get(string(id))
	if !ok {
		return dialogue.Session{}, ErrNotFound
	}
	return v.(dialogue.Session).Clone(), nil
}

func (m *MemoryStore) Create(_ context.Context, s dialogue.Session) error {
	if err := m.cache.Add(string(s.ID), s.Clone(), cache.DefaultExpiration); err != nil {
		return ErrExists
	}
	return nil
}

func (m *MemoryStore) Update(_ context.Context, s dialogue.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.cache.Get(string(s.ID))
	if !ok {
		return ErrNotFound
	}
	if v.(dialogue.Session).Version != s.Version {
		return ErrConflict
	}
	next := s.Clone()
	next.Version++
	if err := m.cache.Replace(string(s.ID), next, cache.DefaultExpiration); err != nil {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, id types.ID) error {
	m.cache.Delete(string(id))
	return nil
}

// Len reports the number of live sessions, including expired ones not yet swept.
func (m *MemoryStore) Len() int {
	return m.cache.ItemCount()
}

const sessionKeyPrefix = "farebot:session:"

// RedisStore keeps sessions as JSON so several API instances can share them.
// Concurrent turns from different instances are detected by Update and retried by Manager.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(redis *redis.Client, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{redis: redis, ttl: ttl}
}

func sessionKey(id types.ID) string {
	return sessionKeyPrefix + string(id)
}

func (r *RedisStore) Get(ctx context.Context, id types.ID) (dialogue.Session, error) {
	data, err := r.redis.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return dialogue.Session{}, ErrNotFound
	}
	if err != nil {
		return dialogue.Session{}, err
	}
	var s dialogue.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return dialogue.Session{}, err
	}
	return s, nil
}

func (r *RedisStore) Create(ctx context.Context, s dialogue.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ok, err := r.redis.SetNX(ctx, sessionKey(s.ID), b, r.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return nil
}

// Update runs the version check under WATCH so writers on other instances cannot interleave.
func (r *RedisStore) Update(ctx context.Context, s dialogue.Session) error {
	key := sessionKey(s.ID)
	next := s
	next.Version++
	b, err := json.Marshal(next)
	if err != nil {
		return err
	}

	err = r.redis.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var stored struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(data, &stored); err != nil {
			return err
		}
		if stored.Version != s.Version {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, r.ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (r *RedisStore) Remove(ctx context.Context, id types.ID) error {
	return r.redis.Del(ctx, sessionKey(id)).Err()
}
