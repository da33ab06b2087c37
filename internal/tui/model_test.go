package tui

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/habitstore"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/storage"
	"github.com/julianstephens/habitweek/internal/tui/components/habits"
)

// Monday 2024-06-10
var testNow = time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)

func setupTestModel(t *testing.T, names ...string) (Model, *habitstore.Store) {
	t.Helper()
	logger.SetOutput(io.Discard)

	n := 0
	store := habitstore.New(storage.NewMemoryKV(),
		habitstore.WithClock(func() time.Time { return testNow }),
		habitstore.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	if _, err := store.Load(); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if _, err := store.Add(name); err != nil {
			t.Fatal(err)
		}
	}
	return NewModel(store, func() time.Time { return testNow }), store
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send runs msg through Update and feeds any resulting command's message
// back in, the way the bubbletea runtime would.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if follow := cmd(); follow != nil {
			switch follow.(type) {
			case habits.ToggleMsg, habits.AddHabitMsg, habits.DeleteHabitMsg:
				next, _ = m.Update(follow)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestWeekNavigation(t *testing.T) {
	m, _ := setupTestModel(t)

	tests := []struct {
		key       string
		wantStart string
	}{
		{"l", "2024-06-17"},
		{"l", "2024-06-24"},
		{"h", "2024-06-17"},
		{"t", "2024-06-10"},
		{"h", "2024-06-03"},
	}
	for _, tt := range tests {
		m = send(t, m, keyRunes(tt.key))
		if got := m.Week()[0].Key(); got != tt.wantStart {
			t.Errorf("after %q week starts %s, want %s", tt.key, got, tt.wantStart)
		}
	}
}

func TestToggleFromGrid(t *testing.T) {
	m, store := setupTestModel(t, "Read")

	m = send(t, m, keyRunes(" "))
	h, _ := store.Get("id-1")
	if !h.Completions.Has("2024-06-10") {
		t.Fatalf("space did not mark today, completions = %v", h.Completions.Keys())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, keyRunes(" "))
	h, _ = store.Get("id-1")
	if !h.Completions.Has("2024-06-11") {
		t.Errorf("toggle on the next column missed, completions = %v", h.Completions.Keys())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	_ = send(t, m, keyRunes(" "))
	h, _ = store.Get("id-1")
	if h.Completions.Has("2024-06-10") {
		t.Error("second toggle did not unmark today")
	}
}

func TestRefreshPicksUpNewDay(t *testing.T) {
	_, store := setupTestModel(t, "Read")
	if err := store.Toggle("id-1", "2024-06-10"); err != nil {
		t.Fatal(err)
	}

	now := testNow
	m := NewModel(store, func() time.Time { return now })

	// Past midnight twice; the visible week is unchanged.
	now = testNow.Add(48 * time.Hour)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, keyRunes(" "))

	h, _ := store.Get("id-1")
	if !h.Completions.Has("2024-06-11") {
		t.Fatalf("completions = %v, want 2024-06-11 marked", h.Completions.Keys())
	}
	if view := m.View(); !strings.Contains(view, "2 days") || !strings.Contains(view, "Day 3") {
		t.Errorf("grid still evaluated on the old day:\n%s", view)
	}
	if day, ok := m.grid.SelectedDay(); !ok || day.Key() != "2024-06-11" {
		t.Errorf("SelectedDay() after refresh = %v, want 2024-06-11", day.Key())
	}
}

func TestToggleInPreviousWeek(t *testing.T) {
	m, store := setupTestModel(t, "Read")

	m = send(t, m, keyRunes("h"))
	_ = send(t, m, keyRunes(" "))
	h, _ := store.Get("id-1")
	if !h.Completions.Has("2024-06-03") {
		t.Errorf("toggle in previous week = %v, want 2024-06-03", h.Completions.Keys())
	}
}

func TestAddHabitFlow(t *testing.T) {
	m, store := setupTestModel(t)

	m = send(t, m, keyRunes("a"))
	if m.state != constants.StateAddHabit || m.form == nil {
		t.Fatalf("state = %v, want add habit form", m.state)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.StateWeek {
		t.Errorf("esc left state %v, want week", m.state)
	}

	m.addHabit("  Meditate ")
	if got := store.Habits(); len(got) != 1 || got[0].Name != "Meditate" {
		t.Errorf("habits after add = %+v", got)
	}
	if hb, ok := m.grid.Selected(); !ok || hb.Name != "Meditate" {
		t.Error("grid not refreshed after add")
	}

	m.addHabit("   ")
	if n := len(store.Habits()); n != 1 {
		t.Errorf("blank add changed the collection, len = %d", n)
	}
}

func TestRemoveHabitFlow(t *testing.T) {
	m, store := setupTestModel(t, "Read", "Run")

	m = send(t, m, keyRunes("d"))
	if m.state != constants.StateConfirmDelete || m.habitToDeleteID != "id-2" {
		t.Fatalf("state = %v, pending = %q", m.state, m.habitToDeleteID)
	}
	if !strings.Contains(m.View(), `Remove habit "Run"`) {
		t.Errorf("confirm view missing habit name:\n%s", m.View())
	}

	m = send(t, m, keyRunes("n"))
	if m.state != constants.StateWeek || len(store.Habits()) != 2 {
		t.Fatal("cancel should keep the habit")
	}

	m = send(t, m, keyRunes("d"))
	m = send(t, m, keyRunes("y"))
	if m.state != constants.StateWeek {
		t.Errorf("state after confirm = %v", m.state)
	}
	got := store.Habits()
	if len(got) != 1 || got[0].ID != "id-1" {
		t.Errorf("habits after remove = %+v", got)
	}
}

func TestSaveErrorIsShown(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := habitstore.New(kv)
	_, _ = store.Load()
	_, _ = store.Add("Read")
	kv.SetErr = fmt.Errorf("disk full")

	m := NewModel(store, func() time.Time { return testNow })
	m = send(t, m, keyRunes(" "))
	if !strings.Contains(m.statusError, "disk full") {
		t.Errorf("statusError = %q, want save failure", m.statusError)
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Error("save failure not rendered")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupTestModel(t)

	next, cmd := m.Update(keyRunes("q"))
	if !next.(Model).quitting || cmd == nil {
		t.Error("q should quit")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(Model).quitting || cmd == nil {
		t.Error("ctrl+c should quit")
	}
}

func TestViewHeader(t *testing.T) {
	m, _ := setupTestModel(t, "Read")

	view := m.View()
	if !strings.Contains(view, "Jun 10 – June 16, 2024") {
		t.Errorf("week label missing:\n%s", view)
	}
	if strings.Contains(view, "back to this week") {
		t.Error("current week should not show the return hint")
	}

	m = send(t, m, keyRunes("l"))
	if !strings.Contains(m.View(), "back to this week") {
		t.Error("other weeks should show the return hint")
	}
}
