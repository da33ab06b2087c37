package constants

const (
	AppName            = "habitweek"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitweek/habitweek.db"
	Version            = "v0.1.0"

	// StorageKey is the single key the habit collection is persisted under.
	// The suffix is the saved data version.
	StorageKey = "habit-tracker:v1"

	// DateFormat is the completion key format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Week label layouts
	DayLabelFormat      = "Monday, Jan 2"
	DayShortLabelFormat = "Mon 2"
	MonthShortFormat    = "Jan 2"
	MonthLongFormat     = "January 2"

	// DaysPerWeek is the length of a week window
	DaysPerWeek = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitweek-"
	BackupFileSuffix = ".json"

	// Environment variables
	EnvConfig       = "HABITWEEK_CONFIG"
	EnvTimezone     = "HABITWEEK_TIMEZONE"
	EnvDebug        = "HABITWEEK_DEBUG"
	EnvDBConnection = "HABITWEEK_DB_CONNECTION"
)

// SessionState represents the current state of the TUI application
type SessionState int

const (
	StateWeek SessionState = iota
	StateAddHabit
	StateConfirmDelete
)
