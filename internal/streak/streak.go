// Package streak counts consecutive completed days ending at today.
package streak

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitweek/internal/models"
	"github.com/julianstephens/habitweek/internal/utils"
)

// Compute returns the length of the run of completed days that ends today,
// or ends yesterday when today has not been completed yet. Any other missing
// day ends the run, including a completion dated after today.
func Compute(completions models.CompletionSet, today time.Time) int {
	if completions.Len() == 0 {
		return 0
	}

	cursor := utils.Today(today)
	streak := 0

	for _, key := range completions.Keys() {
		if key == utils.FormatDateKey(cursor) {
			streak++
			cursor = utils.AddDays(cursor, -1)
			continue
		}
		// Today not done yet: the run may start at yesterday instead.
		if streak == 0 && key == utils.FormatDateKey(utils.AddDays(cursor, -1)) {
			streak++
			cursor = utils.AddDays(cursor, -2)
			continue
		}
		break
	}

	return streak
}

// Format renders a streak length with its unit, e.g. "1 day" or "3 days".
func Format(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// ForHabit computes and formats the streak of h as of now.
func ForHabit(h models.Habit, now time.Time) string {
	return Format(Compute(h.Completions, now))
}
