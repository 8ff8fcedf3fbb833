package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// TokenKey is the fixed key the session token is persisted under.
const TokenKey = "authToken"

// Store persists the session token so that it survives process restarts.
//
// It is a passive mirror of the Manager state, nothing else should write to it.
type Store interface {
	// Load returns the persisted token, or "" if there is none.
	Load(ctx context.Context) (string, error)
	// Save persists token, overwriting any previous value.
	Save(ctx context.Context, token string) error
	// Clear removes the persisted token. Clearing an absent token is not an error.
	Clear(ctx context.Context) error
}

// DefaultDir returns the directory where the FileStore keeps the token by default.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate user config dir: %w", err)
	}
	return filepath.Join(dir, "folio"), nil
}

// FileStore keeps the token in a private file named TokenKey in Dir.
type FileStore struct {
	Dir string
}

func (s FileStore) path() string { return filepath.Join(s.Dir, TokenKey) }

func (s FileStore) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cannot read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s FileStore) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("cannot create session dir %q: %w", s.Dir, err)
	}
	if err := os.WriteFile(s.path(), []byte(token), 0600); err != nil {
		return fmt.Errorf("cannot write session file: %w", err)
	}
	return nil
}

func (s FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot remove session file: %w", err)
	}
	return nil
}

// RedisStore keeps the token under a single key of a Redis server, so that
// several processes, possibly on different hosts, share the same session.
type RedisStore struct {
	Client redis.UniversalClient
	Key    string // defaults to TokenKey
}

func (s RedisStore) key() string {
	if s.Key == "" {
		return TokenKey
	}
	return s.Key
}

func (s RedisStore) Load(ctx context.Context) (string, error) {
	token, err := s.Client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cannot read session from redis: %w", err)
	}
	return token, nil
}

func (s RedisStore) Save(ctx context.Context, token string) error {
	if err := s.Client.Set(ctx, s.key(), token, 0).Err(); err != nil {
		return fmt.Errorf("cannot write session to redis: %w", err)
	}
	return nil
}

func (s RedisStore) Clear(ctx context.Context) error {
	if err := s.Client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("cannot remove session from redis: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in memory only: the session dies with the process.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
