package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/keyring"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/storage"
	"github.com/julianstephens/habitweek/internal/storage/postgres"
	"github.com/julianstephens/habitweek/internal/storage/redis"
	"github.com/julianstephens/habitweek/internal/storage/sqlite"
)

// Backend is the storage chosen for a run
type Backend struct {
	KV        storage.KV
	ConfigDir string
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// DefaultConfigDir is the directory logs and backups go to when the data
// lives in a remote backend.
func DefaultConfigDir() (string, error) {
	path, err := ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// SelectBackend maps a --config value to a storage backend:
// postgres:// and postgresql:// go to PostgreSQL, redis:// and rediss://
// to Redis, *.json paths to a JSON file and anything else to SQLite.
// When config is the default path, a connection string from the
// environment or keyring takes precedence.
func SelectBackend(config string, ephemeral bool) (*Backend, error) {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return nil, err
	}

	if ephemeral {
		return &Backend{KV: storage.NewMemoryKV(), ConfigDir: configDir}, nil
	}

	if config == "" || config == constants.DefaultConfigPath {
		connStr, src, err := keyring.ResolveConnectionString()
		switch {
		case err == nil:
			kv, err := remoteBackend(connStr)
			if err != nil {
				return nil, fmt.Errorf("connection string from %s: %w", src, err)
			}
			logger.Debug("Using remote backend", "source", src, "location", kv.Location())
			return &Backend{KV: kv, ConfigDir: configDir}, nil
		case errors.Is(err, keyring.ErrNotFound):
		default:
			logger.Debug("Keyring lookup skipped", "error", err)
		}
		config = constants.DefaultConfigPath
	}

	if postgres.IsConnString(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		return &Backend{KV: postgres.New(config), ConfigDir: configDir}, nil
	}
	if redis.IsConnString(config) {
		return &Backend{KV: redis.New(config), ConfigDir: configDir}, nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return &Backend{KV: storage.NewFileKV(path), ConfigDir: dir}, nil
	}
	return &Backend{KV: sqlite.NewStore(path), ConfigDir: dir}, nil
}

// remoteBackend accepts credentials embedded in the string, since it comes
// from the user's environment or the encrypted keyring rather than argv.
func remoteBackend(connStr string) (storage.KV, error) {
	switch {
	case postgres.IsConnString(connStr), strings.Contains(connStr, "host="):
		return postgres.New(connStr), nil
	case redis.IsConnString(connStr):
		return redis.New(connStr), nil
	default:
		return nil, errors.New("unsupported connection string; expected postgres:// or redis://")
	}
}
