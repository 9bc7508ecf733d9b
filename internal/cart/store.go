package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartSnapshotKey(sessionID string) string
}

// RedisStore keeps one JSON snapshot per session under a fixed key.
type RedisStore struct {
	store kvStore
	ttl   time.Duration
}

// NewRedisStore builds a snapshot store. Snapshots expire ttl after their last write.
func NewRedisStore(store kvStore, ttl time.Duration) *RedisStore {
	return &RedisStore{store: store, ttl: ttl}
}

// Load returns nil without error when the session has no snapshot.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	raw, err := s.store.Get(ctx, s.store.CartSnapshotKey(sessionID))
	if redis.IsNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSnapshot, err)
	}
	return &snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.store.Set(ctx, s.store.CartSnapshotKey(snap.SessionID), payload, s.ttl); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.store.Del(ctx, s.store.CartSnapshotKey(sessionID))
}
