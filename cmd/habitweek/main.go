package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitweek/internal/cli"
	"github.com/julianstephens/habitweek/internal/cli/backups"
	"github.com/julianstephens/habitweek/internal/cli/habits"
	"github.com/julianstephens/habitweek/internal/cli/system"
	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/errors"
	"github.com/julianstephens/habitweek/internal/habitstore"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"Data file path or connection string (*.json file, SQLite path, postgres:// or redis:// URL). PostgreSQL credentials must NOT be embedded; use HABITWEEK_DB_CONNECTION, .pgpass, or the OS keyring instead." type:"string" default:"~/.config/habitweek/habitweek.db" env:"HABITWEEK_CONFIG"`
	Timezone  string `help:"IANA timezone used to decide what 'today' is." default:"Local" env:"HABITWEEK_TIMEZONE"`
	Debug     bool   `help:"Log debug output to stderr." env:"HABITWEEK_DEBUG"`
	Ephemeral bool   `help:"Keep habits in memory only; nothing is read or written."`

	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive week view." default:"1"`
	Add    habits.AddCmd    `cmd:"" help:"Add a new habit."`
	List   habits.ListCmd   `cmd:"" help:"List habits with this week's completions."`
	Toggle habits.ToggleCmd `cmd:"" help:"Mark or unmark a habit for a day."`
	Remove habits.RemoveCmd `cmd:"" help:"Remove a habit and its history."`
	Week   habits.WeekCmd   `cmd:"" help:"Show the days of a week window."`
	Init   system.InitCmd   `cmd:"" help:"Initialize storage, optionally copying habits from another backend."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage habit backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage remote backend credentials in the OS keyring."`
}

// noStorageCommands run without opening the backend
var noStorageCommands = []string{"week", "keyring"}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly habit tracker with streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		errors.Fatal(fmt.Errorf("invalid timezone %q: %w", CLI.Timezone, err))
	}

	backend, err := cli.SelectBackend(CLI.Config, CLI.Ephemeral)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: backend.ConfigDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting", "command", kctx.Command(), "location", backend.KV.Location(), "timezone", loc.String())

	if needsStorage(kctx.Command()) {
		if err := backend.KV.Open(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		KV:        backend.KV,
		Store:     habitstore.New(backend.KV),
		ConfigDir: backend.ConfigDir,
		Location:  loc,
	}

	err = kctx.Run(appCtx)
	if closeErr := backend.KV.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}

func needsStorage(command string) bool {
	for _, prefix := range noStorageCommands {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	return true
}
