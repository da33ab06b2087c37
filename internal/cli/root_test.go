package cli

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/habitstore"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/storage"
)

func TestContextNowUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ctx := &Context{
		Location: loc,
		Clock:    func() time.Time { return time.Date(2024, 6, 10, 2, 0, 0, 0, time.UTC) },
	}

	if got := ctx.Now().Location(); got != loc {
		t.Errorf("Now() location = %v, want %v", got, loc)
	}
	// 02:00 UTC is still the 9th five hours west
	if got := ctx.Today(); got.Day() != 9 || got.Hour() != 0 {
		t.Errorf("Today() = %v, want local midnight of June 9", got)
	}
}

func TestContextPrintf(t *testing.T) {
	out := &bytes.Buffer{}
	ctx := &Context{Out: out}
	ctx.Printf("%s=%d\n", "a", 1)
	ctx.Println("done")
	if out.String() != "a=1\ndone\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestPerformAutomaticBackup(t *testing.T) {
	logger.SetOutput(io.Discard)
	kv := storage.NewMemoryKV()
	ctx := &Context{KV: kv, Store: habitstore.New(kv), ConfigDir: t.TempDir()}

	// Nothing stored yet: no backup, no panic
	ctx.PerformAutomaticBackup()
	backups, err := ctx.Backups().ListBackups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("ListBackups() = %d, %v; want none", len(backups), err)
	}

	_ = kv.Set(constants.StorageKey, "[]")
	ctx.PerformAutomaticBackup()
	backups, err = ctx.Backups().ListBackups()
	if err != nil || len(backups) != 1 {
		t.Errorf("ListBackups() = %d, %v; want 1", len(backups), err)
	}
}
