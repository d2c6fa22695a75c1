package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Store maps opaque session tokens to user ids. It is the centralized
// session collaborator: resolving a token is an I/O read, and a token whose
// user has since been deleted still resolves here — the account lookup is
// the resolver's job, not the store's.
type Store interface {
	Create(ctx context.Context, userID uint) (string, error)
	Get(ctx context.Context, token string) (uint, bool, error)
	Destroy(ctx context.Context, token string) error
}

// RedisStore keeps session blobs in redis with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string {
	return fmt.Sprintf("kg:session:%s", token)
}

func (s *RedisStore) Create(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(token), strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (uint, bool, error) {
	val, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, false, err
	}
	// Sliding expiry: an active session stays alive.
	_ = s.rdb.Expire(ctx, sessionKey(token), s.ttl).Err()
	return uint(userID), true, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

// MemoryStore is the in-process implementation used by tests and local
// development without redis.
type MemoryStore struct {
	mu      sync.Mutex
	byToken map[string]uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byToken: make(map[string]uint)}
}

func (s *MemoryStore) Create(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = userID
	return token, nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.byToken[token]
	return userID, ok, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
	return nil
}
