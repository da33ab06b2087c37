package backups

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitweek/internal/backup"
	"github.com/julianstephens/habitweek/internal/cli"
	"github.com/julianstephens/habitweek/internal/constants"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	backupPath, err := ctx.Backups().CreateBackup()
	if err != nil {
		if errors.Is(err, backup.ErrNothingToBackup) {
			ctx.Println("No habit data stored yet, nothing to back up.")
			return nil
		}
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		ctx.Printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()

	backupPath, err := resolveBackupPath(c.BackupFile, mgr.GetBackupDir())
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current habits with the backup.")
		ctx.Println("⚠️  IMPORTANT: Close any running habitweek TUI before restoring.")
		ctx.Println("A backup of your current habits will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)
		ctx.Printf("Continue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	current, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if current != "" {
		ctx.Printf("Created backup of current habits: %s\n", filepath.Base(current))
	}
	ctx.Println("✓ Habits restored successfully!")
	return nil
}

// resolveBackupPath accepts an absolute path, a path relative to the working
// directory or a bare filename inside the backup directory.
func resolveBackupPath(name, backupDir string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}

	if _, err := os.Stat(name); err == nil {
		absPath, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return absPath, nil
	}

	possiblePath := filepath.Join(backupDir, name)
	if _, err := os.Stat(possiblePath); err == nil {
		return possiblePath, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", backupDir)
}
