package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/storage"
)

const opTimeout = 5 * time.Second

// Store is a storage.KV backed by a Redis server. Keys are namespaced with
// the application name.
type Store struct {
	url    string
	prefix string
	rdb    *goredis.Client
}

var _ storage.KV = (*Store)(nil)

func New(url string) *Store {
	return &Store{
		url:    url,
		prefix: constants.AppName + ":",
	}
}

// IsConnString reports whether config looks like a Redis URL
func IsConnString(config string) bool {
	return strings.HasPrefix(config, "redis://") || strings.HasPrefix(config, "rediss://")
}

// ValidateURL checks that url parses as a Redis connection URL
func ValidateURL(url string) error {
	if _, err := goredis.ParseURL(url); err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}
	return nil
}

func (s *Store) Open() error {
	if s.rdb != nil {
		return nil
	}

	opts, err := goredis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.rdb = rdb
	return nil
}

func (s *Store) Close() error {
	if s.rdb != nil {
		err := s.rdb.Close()
		s.rdb = nil
		return err
	}
	return nil
}

func (s *Store) Get(key string) (string, error) {
	if s.rdb == nil {
		return "", fmt.Errorf("storage not opened")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	value, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	if s.rdb == nil {
		return fmt.Errorf("storage not opened")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if s.rdb == nil {
		return fmt.Errorf("storage not opened")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Location returns the server address without credentials
func (s *Store) Location() string {
	opts, err := goredis.ParseURL(s.url)
	if err != nil {
		return "redis"
	}
	return "redis://" + opts.Addr
}
