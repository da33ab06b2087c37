package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/habitstore"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/storage"
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// ErrNothingToBackup is returned when no habit data is stored yet
var ErrNothingToBackup = errors.New("no habit data to back up")

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int
}

// Manager snapshots the persisted habit blob to files in a backup directory
type Manager struct {
	kv        storage.KV
	key       string
	backupDir string
	now       func() time.Time
}

// NewManager creates a backup manager keeping snapshots under
// <configDir>/backups
func NewManager(kv storage.KV, configDir string) *Manager {
	return &Manager{
		kv:        kv,
		key:       constants.StorageKey,
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes the current blob to a new snapshot file and prunes
// old snapshots beyond constants.MaxBackups.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation is set during restore so the pre-restore snapshot never
// prunes the file being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	raw, err := m.kv.Get(m.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNothingToBackup
		}
		return "", fmt.Errorf("failed to read habit data: %w", err)
	}

	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(backupPath, []byte(raw), 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Info("Created backup", "path", backupPath)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// nextBackupPath tries minute precision, then seconds, then a counter
func (m *Manager) nextBackupPath() (string, error) {
	now := m.now()
	candidate := m.pathFor(now.Format(minuteLayout), 0)
	if !exists(candidate) {
		return candidate, nil
	}

	stamp := now.Format(secondLayout)
	candidate = m.pathFor(stamp, 0)
	for counter := 1; exists(candidate); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		candidate = m.pathFor(stamp, counter)
	}
	return candidate, nil
}

func (m *Manager) pathFor(stamp string, counter int) string {
	name := constants.BackupFilePrefix + stamp
	if counter > 0 {
		name += "-" + strconv.Itoa(counter)
	}
	return filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListBackups returns all snapshots, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		timestamp, seq, ok := parseBackupName(name)
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: timestamp,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})

	return backups, nil
}

// parseBackupName reads YYYYMMDD-HHMM, YYYYMMDD-HHMMSS and an optional -N
// counter out of a backup filename.
func parseBackupName(name string) (time.Time, int, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	seq := 0
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return time.Time{}, 0, false
		}
		seq = n
		stamp = parts[0] + "-" + parts[1]
	}

	ts, err := time.Parse(minuteLayout, stamp)
	if err != nil {
		ts, err = time.Parse(secondLayout, stamp)
		if err != nil {
			return time.Time{}, 0, false
		}
	}
	return ts, seq, true
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the stored blob with the snapshot at backupPath.
// The current data, if any, is snapshotted first. The returned path is that
// pre-restore snapshot, or empty when there was nothing to save.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("backup file does not exist: %s", backupPath)
		}
		return "", fmt.Errorf("failed to read backup file: %w", err)
	}

	if err := verifyBackup(data); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	current, err := m.createBackup(true)
	if err != nil && !errors.Is(err, ErrNothingToBackup) {
		return "", fmt.Errorf("failed to back up current data before restore: %w", err)
	}

	if err := m.kv.Set(m.key, string(data)); err != nil {
		return "", fmt.Errorf("failed to restore habit data: %w", err)
	}
	logger.Info("Restored backup", "path", backupPath, "location", m.kv.Location())

	return current, nil
}

// verifyBackup checks the snapshot decodes as a habit collection
func verifyBackup(data []byte) error {
	_, err := habitstore.Decode(string(data))
	return err
}
