package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/tvshop-backend/pkg/config"
	redisclient "github.com/angelmondragon/tvshop-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// ErrSessionRequired is returned when an operation is attempted without a session id.
var ErrSessionRequired = errors.New("session id is required")

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	CartSessionKey(sessionID string) string
}

// Store keeps one JSON document per session in Redis. Every save refreshes the TTL,
// so idle sessions expire on their own.
type Store struct {
	store kvStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewStore constructs a session document store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.CartConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newStore(client, client, cfg.SessionTTL)
}

func newStore(store kvStore, keyer sessionKeyer, ttl time.Duration) (*Store, error) {
	if store == nil || keyer == nil {
		return nil, fmt.Errorf("session store and keyer are required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{store: store, keyer: keyer, ttl: ttl}, nil
}

// Load decodes the session document into dest. It reports false when the
// session holds no document yet.
func (s *Store) Load(ctx context.Context, sessionID string, dest any) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, ErrSessionRequired
	}
	raw, err := s.store.Get(ctx, s.keyer.CartSessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("load session document: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode session document: %w", err)
	}
	return true, nil
}

// Save encodes value as the session document.
func (s *Store) Save(ctx context.Context, sessionID string, value any) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionRequired
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session document: %w", err)
	}
	if err := s.store.Set(ctx, s.keyer.CartSessionKey(sessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("save session document: %w", err)
	}
	return nil
}

// Delete drops the session document.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionRequired
	}
	return s.store.Del(ctx, s.keyer.CartSessionKey(sessionID))
}
