package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitweek/internal/cli"
	"github.com/julianstephens/habitweek/internal/models"
	"github.com/julianstephens/habitweek/internal/streak"
	"github.com/julianstephens/habitweek/internal/utils"
)

const maxNameLen = 20

type AddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadHabits(); err != nil {
		return err
	}

	habit, err := ctx.Store.Add(c.Name)
	if err != nil {
		return err
	}
	if habit == nil {
		ctx.Println("Habit name is blank, nothing added.")
		return nil
	}

	ctx.Printf("Added habit: %s\n", habit.Name)
	return nil
}

type ListCmd struct {
	Offset int `help:"Week offset from the current week (-1 is last week)." default:"0"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadHabits(); err != nil {
		return err
	}

	habits := ctx.Store.Habits()
	if len(habits) == 0 {
		ctx.Println("No habits found. Add one with 'habitweek add <name>'.")
		return nil
	}

	week := utils.BuildWeek(utils.ShiftWeek(ctx.Today(), c.Offset))
	ctx.Println(utils.FormatWeekLabel(week))
	ctx.Println()
	ctx.Printf("%s", renderGrid(habits, week, ctx.Now()))
	return nil
}

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadHabits(); err != nil {
		return err
	}

	habit, ok := ctx.Store.Resolve(c.Habit)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Habit)
	}

	day := c.Date
	if day == "" {
		day = utils.FormatDateKey(ctx.Today())
	} else if !utils.ValidDateKey(day) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}

	if err := ctx.Store.Toggle(habit.ID, day); err != nil {
		return err
	}

	updated, ok := ctx.Store.Get(habit.ID)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Habit)
	}
	if updated.Completions.Has(day) {
		ctx.Printf("Marked habit %q for %s\n", habit.Name, day)
	} else {
		ctx.Printf("Unmarked habit %q for %s\n", habit.Name, day)
	}
	ctx.Printf("Streak: %s\n", streak.ForHabit(updated, ctx.Now()))
	return nil
}

type RemoveCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadHabits(); err != nil {
		return err
	}

	habit, ok := ctx.Store.Resolve(c.Habit)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Habit)
	}

	if err := ctx.Store.Remove(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Removed habit: %s\n", habit.Name)
	return nil
}

type WeekCmd struct {
	Offset int    `help:"Week offset from the anchor week." default:"0"`
	Date   string `help:"Anchor date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	anchor := ctx.Today()
	if c.Date != "" {
		d, err := utils.ParseDateKey(c.Date, anchor.Location())
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
		}
		anchor = d
	}

	week := utils.BuildWeek(utils.ShiftWeek(anchor, c.Offset))
	ctx.Println(utils.FormatWeekLabel(week))
	for _, day := range week {
		marker := " "
		if utils.IsSameDay(day.Date, ctx.Today()) {
			marker = "*"
		}
		ctx.Printf("%s %s  %s\n", marker, day.Key(), day.Label)
	}
	return nil
}

// renderGrid draws one row per habit: name, a mark per day, streak and age
func renderGrid(habits []models.Habit, week []utils.WeekDay, now time.Time) string {
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", maxNameLen))
	for _, day := range week {
		fmt.Fprintf(&b, " %-6s", day.ShortLabel)
	}
	b.WriteString("  Streak    Age\n")

	b.WriteString(strings.Repeat("-", maxNameLen+len(week)*7+16))
	b.WriteString("\n")

	for _, h := range habits {
		b.WriteString(padName(h.Name))
		for _, day := range week {
			mark := "."
			if h.Completions.Has(day.Key()) {
				mark = "x"
			}
			fmt.Fprintf(&b, " %-6s", "  "+mark)
		}
		fmt.Fprintf(&b, "  %-8s  %s\n", streak.ForHabit(h, now), h.AgeLabel(now))
	}
	return b.String()
}

func padName(name string) string {
	runes := []rune(name)
	if len(runes) > maxNameLen {
		return string(runes[:maxNameLen-3]) + "..."
	}
	return name + strings.Repeat(" ", maxNameLen-len(runes))
}
