package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitweek/internal/constants"
	"github.com/julianstephens/habitweek/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAddHabit:
		content = m.form.View()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = docStyle.Render(m.grid.View())
	}

	var status string
	if m.statusError != "" {
		status = warningStyle.Render("⚠ " + m.statusError)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	week := m.Week()
	title := titleStyle.Render(constants.AppName)
	label := weekLabelStyle.Render(utils.FormatWeekLabel(week))
	if !utils.IsSameDay(utils.StartOfWeek(m.now()), week[0].Date) {
		label += inactiveStyle.Render("  (t: back to this week)")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, label)
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, ok := m.store.Get(m.habitToDeleteID); ok {
		name = h.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Remove habit \""+name+"\" and its history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
