package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/habitstore"
	"github.com/julianstephens/habitweek/internal/tui/components/habits"
	"github.com/julianstephens/habitweek/internal/utils"
)

type HabitFormModel struct {
	Name string
}

type KeyMap struct {
	PrevWeek key.Binding
	NextWeek key.Binding
	ThisWeek key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevWeek: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "prev week"),
		),
		NextWeek: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "next week"),
		),
		ThisWeek: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this week"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type Model struct {
	store           *habitstore.Store
	now             func() time.Time
	state           constants.SessionState
	keys            KeyMap
	help            help.Model
	grid            habits.Model
	anchor          time.Time
	form            *huh.Form
	habitForm       *HabitFormModel
	habitToDeleteID string
	statusError     string
	quitting        bool
	width           int
	height          int
}

// NewModel builds the TUI over a store that has already been loaded. now
// supplies the current time in the user's timezone.
func NewModel(store *habitstore.Store, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	today := utils.Today(now())
	return Model{
		store:  store,
		now:    now,
		state:  constants.StateWeek,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		grid:   habits.New(store.Habits(), utils.BuildWeek(today), now(), 0, 0),
		anchor: today,
	}
}

func (m Model) ShortHelp() []key.Binding {
	gk := m.grid.Keys()
	return []key.Binding{gk.Toggle, gk.Add, gk.Delete, m.keys.PrevWeek, m.keys.NextWeek, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	gk := m.grid.Keys()
	navigation := []key.Binding{gk.Up, gk.Down, gk.Left, gk.Right}
	weeks := []key.Binding{m.keys.PrevWeek, m.keys.NextWeek, m.keys.ThisWeek}
	actions := []key.Binding{gk.Toggle, gk.Add, gk.Delete}
	global := []key.Binding{m.keys.Help, m.keys.Quit}
	return [][]key.Binding{navigation, weeks, actions, global}
}

func (m Model) Init() tea.Cmd {
	return m.grid.Init()
}

// Week returns the visible week window
func (m Model) Week() []utils.WeekDay {
	return utils.BuildWeek(m.anchor)
}

func (m *Model) setAnchor(anchor time.Time) {
	m.anchor = anchor
	m.grid.SetWeek(utils.BuildWeek(anchor), m.now())
}

func (m *Model) refresh() {
	m.grid.SetNow(m.now())
	m.grid.SetHabits(m.store.Habits())
}

func (m *Model) setError(err error) {
	if err != nil {
		m.statusError = err.Error()
	} else {
		m.statusError = ""
	}
}
