package models

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitweek/internal/constants"
)

// CompletionSet holds the date keys (YYYY-MM-DD) on which a habit was done.
// A key's presence means completed; there is no "false" state.
type CompletionSet map[string]struct{}

// NewCompletionSet returns a set containing the given keys
func NewCompletionSet(keys ...string) CompletionSet {
	c := make(CompletionSet, len(keys))
	for _, k := range keys {
		c[k] = struct{}{}
	}
	return c
}

func (c CompletionSet) Has(key string) bool {
	_, ok := c[key]
	return ok
}

func (c *CompletionSet) Add(key string) {
	if *c == nil {
		*c = make(CompletionSet)
	}
	(*c)[key] = struct{}{}
}

func (c CompletionSet) Remove(key string) {
	delete(c, key)
}

// Toggle flips the presence of key and reports whether it is now present
func (c *CompletionSet) Toggle(key string) bool {
	if c.Has(key) {
		c.Remove(key)
		return false
	}
	c.Add(key)
	return true
}

func (c CompletionSet) Len() int {
	return len(c)
}

// Keys returns the date keys sorted newest first. Keys are zero-padded so
// lexicographic order is calendar order.
func (c CompletionSet) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

func (c CompletionSet) Clone() CompletionSet {
	out := make(CompletionSet, len(c))
	for k := range c {
		out[k] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same keys
func (c CompletionSet) Equal(other CompletionSet) bool {
	if len(c) != len(other) {
		return false
	}
	for k := range c {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the set in its persisted form: {"2024-06-10": true, ...}
func (c CompletionSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, len(c))
	for k := range c {
		m[k] = true
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads {"<dateKey>": bool}. False entries are dropped and a
// malformed date key is an error.
func (c *CompletionSet) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	set := make(CompletionSet, len(m))
	for k, done := range m {
		if _, err := time.Parse(constants.DateFormat, k); err != nil {
			return fmt.Errorf("invalid completion date key %q: %w", k, err)
		}
		if done {
			set[k] = struct{}{}
		}
	}
	*c = set
	return nil
}

// Habit represents a recurring practice to track
type Habit struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	CreatedAt   time.Time     `json:"createdAt"`
	Completions CompletionSet `json:"completions"`
}

func (h *Habit) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("habit id cannot be empty")
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	return nil
}

// Clone returns a copy that shares no state with h
func (h Habit) Clone() Habit {
	h.Completions = h.Completions.Clone()
	return h
}

// AgeLabel describes how long the habit has been tracked, counting the
// creation day as day 1.
func (h Habit) AgeLabel(now time.Time) string {
	days := int(math.Floor(now.Sub(h.CreatedAt).Hours()/24)) + 1
	if days <= 1 {
		return "Started today"
	}
	return fmt.Sprintf("Day %d", days)
}
