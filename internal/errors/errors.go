package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitweek/internal/keyring"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/storage/postgres"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a remediation line for well-known failures, or "" when there is none.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, postgres.ErrEmbeddedCredentials):
		return "Store the connection string with 'habitweek keyring set', export HABITWEEK_DB_CONNECTION, or use a .pgpass file."
	case stderrors.Is(err, postgres.ErrInvalidConnectionString):
		return "Expected postgres://user@host:5432/db or a key=value DSN."
	case stderrors.Is(err, keyring.ErrKeyringUnavailable):
		return "The OS keyring is not available; pass --config or set HABITWEEK_DB_CONNECTION instead."
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "       %s\n", hint)
		}
		os.Exit(1)
	}
}
