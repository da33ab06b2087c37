package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/logger"
	"github.com/julianstephens/habitweek/internal/tui/components/habits"
	"github.com/julianstephens/habitweek/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateAddHabit(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.grid.SetSize(msg.Width, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PrevWeek):
			m.setAnchor(utils.ShiftWeek(m.anchor, -1))
			return m, nil
		case key.Matches(msg, m.keys.NextWeek):
			m.setAnchor(utils.ShiftWeek(m.anchor, 1))
			return m, nil
		case key.Matches(msg, m.keys.ThisWeek):
			m.setAnchor(utils.Today(m.now()))
			return m, nil
		}

	case habits.ToggleMsg:
		err := m.store.Toggle(msg.ID, msg.Key)
		m.setError(err)
		m.refresh()
		return m, nil

	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		m.form = NewHabitForm(m.habitForm)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateWeek
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.addHabit(m.habitForm.Name)
		m.state = constants.StateWeek
	case huh.StateAborted:
		m.state = constants.StateWeek
	}
	return m, cmd
}

func (m *Model) addHabit(name string) {
	h, err := m.store.Add(name)
	m.setError(err)
	if h != nil {
		logger.Debug("Added habit", "id", h.ID, "name", h.Name)
	}
	m.refresh()
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		err := m.store.Remove(m.habitToDeleteID)
		m.setError(err)
		m.refresh()
		m.state = constants.StateWeek
		m.habitToDeleteID = ""
	case "n", "N", "esc", "q":
		m.state = constants.StateWeek
		m.habitToDeleteID = ""
	}
	return m, nil
}

// NewHabitForm creates the form for adding a habit
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
