package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habitweek/internal/backup"
	"github.com/julianstephens/habitweek/internal/habitstore"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/storage"
	"github.com/julianstephens/habitweek/internal/utils"
)

type Context struct {
	KV        storage.KV
	Store     *habitstore.Store
	ConfigDir string
	Location  *time.Location

	// Clock and Out default to time.Now and os.Stdout
	Clock func() time.Time
	Out   io.Writer
}

// Now returns the current time in the configured location
func (c *Context) Now() time.Time {
	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return now
}

// Today returns local midnight of the current day
func (c *Context) Today() time.Time {
	return utils.Today(c.Now())
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// LoadHabits performs the store's initial load. A failing medium is
// reported; malformed data has already been discarded by the store.
func (c *Context) LoadHabits() error {
	if _, err := c.Store.Load(); err != nil {
		return err
	}
	return nil
}

// Backups returns a backup manager for the active backend
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.KV, c.ConfigDir)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	_, err := c.Backups().CreateBackup()
	if err != nil && !errors.Is(err, backup.ErrNothingToBackup) {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
