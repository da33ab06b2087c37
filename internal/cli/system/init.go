package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitweek/internal/cli"
	"github.com/julianstephens/habitweek/internal/habitstore"
	"github.com/julianstephens/habitweek/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Overwrite habits already stored in the destination."`
	Source string `help:"Path or connection string of a backend to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Initialized habitweek storage at: %s\n", ctx.KV.Location())
	if c.Source == "" {
		return nil
	}

	ctx.Printf("Copying habits from: %s\n", c.Source)
	count, err := c.copyFrom(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	ctx.Printf("Copied %d habit(s).\n", count)
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	src, err := cli.SelectBackend(c.Source, false)
	if err != nil {
		return 0, err
	}
	if src.KV.Location() == ctx.KV.Location() {
		return 0, fmt.Errorf("source and destination are the same: %s", src.KV.Location())
	}
	if err := src.KV.Open(); err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.KV.Close()

	key := ctx.Store.Key()
	raw, err := src.KV.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("source has no habit data")
		}
		return 0, fmt.Errorf("failed to read source: %w", err)
	}
	habits, err := habitstore.Decode(raw)
	if err != nil {
		return 0, fmt.Errorf("source data is malformed: %w", err)
	}

	if !c.Force {
		if _, err := ctx.KV.Get(key); err == nil {
			return 0, fmt.Errorf("destination already has habit data; use --force to overwrite")
		} else if !errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("failed to read destination: %w", err)
		}
	}

	if err := ctx.KV.Set(key, raw); err != nil {
		return 0, fmt.Errorf("failed to write destination: %w", err)
	}
	return len(habits), nil
}
