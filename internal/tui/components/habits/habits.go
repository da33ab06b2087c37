package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitweek/internal/models"
	"github.com/julianstephens/habitweek/internal/streak"
	"github.com/julianstephens/habitweek/internal/utils"
)

const nameWidth = 22

type AddHabitMsg struct{}

// ToggleMsg asks for the completion of Key to be flipped on habit ID
type ToggleMsg struct {
	ID  string
	Key string
}

type DeleteHabitMsg struct {
	ID string
}

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev habit"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next habit"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next day"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "toggle day"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
	}
}

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true)
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// Model is the habit × day grid for one week window
type Model struct {
	habits []models.Habit
	week   []utils.WeekDay
	now    time.Time
	keys   KeyMap
	row    int
	col    int
	width  int
	height int
}

func New(habits []models.Habit, week []utils.WeekDay, now time.Time, width, height int) Model {
	m := Model{
		keys:   DefaultKeyMap(),
		width:  width,
		height: height,
	}
	m.SetHabits(habits)
	m.SetWeek(week, now)
	return m
}

func (m Model) Keys() KeyMap {
	return m.keys
}

// SetHabits replaces the rows, keeping the cursor in range
func (m *Model) SetHabits(habits []models.Habit) {
	m.habits = habits
	if m.row >= len(habits) {
		m.row = len(habits) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// SetNow moves the evaluation day used for streaks, ages and the today
// highlight. The selected column is left alone.
func (m *Model) SetNow(now time.Time) {
	m.now = now
}

// SetWeek switches the visible window. The day column is kept, or moved to
// today when the new window contains it.
func (m *Model) SetWeek(week []utils.WeekDay, now time.Time) {
	m.week = week
	m.now = now
	if m.containsToday() {
		m.col = m.todayColumn()
	}
	if m.col >= len(week) {
		m.col = len(week) - 1
	}
	if m.col < 0 {
		m.col = 0
	}
}

func (m Model) containsToday() bool {
	for _, d := range m.week {
		if utils.IsSameDay(d.Date, m.now) {
			return true
		}
	}
	return false
}

func (m Model) todayColumn() int {
	for i, d := range m.week {
		if utils.IsSameDay(d.Date, m.now) {
			return i
		}
	}
	return 0
}

// Selected returns the habit under the cursor
func (m Model) Selected() (models.Habit, bool) {
	if len(m.habits) == 0 {
		return models.Habit{}, false
	}
	return m.habits[m.row], true
}

// SelectedDay returns the day column under the cursor
func (m Model) SelectedDay() (utils.WeekDay, bool) {
	if len(m.week) == 0 {
		return utils.WeekDay{}, false
	}
	return m.week[m.col], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.row < len(m.habits)-1 {
			m.row++
		}
	case key.Matches(keyMsg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(keyMsg, m.keys.Right):
		if m.col < len(m.week)-1 {
			m.col++
		}
	case key.Matches(keyMsg, m.keys.Add):
		return m, func() tea.Msg { return AddHabitMsg{} }
	case key.Matches(keyMsg, m.keys.Toggle):
		h, ok := m.Selected()
		day, dayOK := m.SelectedDay()
		if ok && dayOK {
			return m, func() tea.Msg { return ToggleMsg{ID: h.ID, Key: day.Key()} }
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if h, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteHabitMsg{ID: h.ID} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.habits) == 0 {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", nameWidth+2))
	for i, d := range m.week {
		label := fmt.Sprintf("%-7s", d.ShortLabel)
		switch {
		case i == m.col:
			label = selectedStyle.Render(label)
		case utils.IsSameDay(d.Date, m.now):
			label = todayStyle.Render(label)
		default:
			label = headerStyle.Render(label)
		}
		b.WriteString(label)
	}
	b.WriteString(headerStyle.Render(" Streak"))
	b.WriteString("\n")

	for r, h := range m.habits {
		pointer := "  "
		if r == m.row {
			pointer = selectedStyle.Render("> ")
		}
		b.WriteString(pointer)
		b.WriteString(fitName(h.Name))

		for c, d := range m.week {
			mark := markCell(h, d)
			switch {
			case r == m.row && c == m.col:
				mark = cursorStyle.Render(mark)
			case h.Completions.Has(d.Key()):
				mark = doneStyle.Render(mark)
			default:
				mark = pendingStyle.Render(mark)
			}
			b.WriteString(mark)
		}

		b.WriteString(" " + streak.ForHabit(h, m.now))
		b.WriteString("  " + metaStyle.Render(h.AgeLabel(m.now)))
		b.WriteString("\n")
	}
	return b.String()
}

func markCell(h models.Habit, d utils.WeekDay) string {
	if h.Completions.Has(d.Key()) {
		return "  ●    "
	}
	return "  ○    "
}

func fitName(name string) string {
	runes := []rune(name)
	if len(runes) > nameWidth {
		return string(runes[:nameWidth-1]) + "…"
	}
	return name + strings.Repeat(" ", nameWidth-len(runes))
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
