package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Width(8)
	focusedLabel  = labelStyle.Foreground(lipgloss.Color("212"))
	enabledStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	disabledStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("240"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tableBorder   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	return s
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Contact Manager"))
	b.WriteString("\n")

	labels := []string{"Name", "Phone", "Email"}
	for i, label := range labels {
		style := labelStyle
		if m.focus == i {
			style = focusedLabel
		}
		b.WriteString(style.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.buttonsView())
	b.WriteString("\n\n")
	b.WriteString(tableBorder.Render(m.table.View()))
	b.WriteString("\n")

	if m.status != "" {
		style := infoStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab focus • enter select • ctrl+a add • ctrl+u update • ctrl+d delete • esc clear • ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) buttonsView() string {
	a := m.Affordances()
	buttons := []struct {
		label   string
		enabled bool
	}{
		{"Add", a.Add},
		{"Update", a.Update},
		{"Delete", a.Delete},
		{"Clear", a.Clear},
	}

	rendered := make([]string, len(buttons))
	for i, btn := range buttons {
		if btn.enabled {
			rendered[i] = enabledStyle.Render(btn.label)
		} else {
			rendered[i] = disabledStyle.Render(btn.label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
