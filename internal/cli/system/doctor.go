package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitweek/internal/cli"
	"github.com/julianstephens/habitweek/internal/habitstore"
	"github.com/julianstephens/habitweek/internal/keyring"
	"github.com/julianstephens/habitweek/internal/migration"
	"github.com/julianstephens/habitweek/internal/storage"
)

// schemaBackend is implemented by the SQL-backed stores
type schemaBackend interface {
	MigrationRunner() (*migration.Runner, error)
}

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(ctx *cli.Context) error
	warnOnly bool
	needsKV  bool
	// gates marks the check whose failure skips the needsKV checks
	gates bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Storage reachable", run: checkStorageReachable, gates: true},
		{name: "Schema version", run: checkSchemaVersion, needsKV: true},
		{name: "Habit data", run: checkHabitData, needsKV: true},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "OS keyring", run: checkKeyring, warnOnly: true},
	}

	hasError := false
	reachable := true
	for _, c := range checks {
		if c.needsKV && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.gates {
				reachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if ctx.KV == nil {
		return fmt.Errorf("no storage configured")
	}
	if _, err := ctx.KV.Get(ctx.Store.Key()); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to read %s: %w", ctx.KV.Location(), err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sb, ok := ctx.KV.(schemaBackend)
	if !ok {
		// File, memory and Redis backends have no schema
		return nil
	}

	runner, err := sb.MigrationRunner()
	if err != nil {
		return err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkHabitData decodes the stored blob without going through the store,
// which would discard it on failure.
func checkHabitData(ctx *cli.Context) error {
	raw, err := ctx.KV.Get(ctx.Store.Key())
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	habits, err := habitstore.Decode(raw)
	if err != nil {
		return fmt.Errorf("stored habits are malformed and will be discarded on next load: %w", err)
	}
	ctx.Printf("   %d habit(s) stored\n", len(habits))
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitweek backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
