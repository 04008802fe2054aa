// Package prefs persists viewer preferences. Only the display language is
// stored; game state never leaves the process.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const languageKey = "chess3d:prefs:language"

// ErrNotSet is returned when no language has been saved yet.
var ErrNotSet = errors.New("preference not set")

type Store interface {
	Language(ctx context.Context) (string, error)
	SetLanguage(ctx context.Context, code string) error
}

type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

// DialRedis connects to REDIS_URL and verifies the connection.
func DialRedis(ctx context.Context, rawURL string) (*RedisStore, error) {
	opts, err := ParseRedisURL(rawURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *RedisStore) Language(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, languageKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotSet
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) SetLanguage(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("empty language code")
	}
	return s.rdb.Set(ctx, languageKey, code, 0).Err()
}

// ParseRedisURL accepts redis:// and rediss:// URLs with an optional /db path.
func ParseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %q", p)
		}
		db = n
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}

// MemoryStore keeps preferences for the life of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	lang string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Language(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lang == "" {
		return "", ErrNotSet
	}
	return m.lang, nil
}

func (m *MemoryStore) SetLanguage(_ context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("empty language code")
	}
	m.mu.Lock()
	m.lang = code
	m.mu.Unlock()
	return nil
}

// LanguageOr returns the stored language, or fallback when none is stored or
// the store fails.
func LanguageOr(ctx context.Context, s Store, fallback string) string {
	if s == nil {
		return fallback
	}
	v, err := s.Language(ctx)
	if err != nil || v == "" {
		return fallback
	}
	return v
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
