package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// toastLevel classifies the transient status line message.
type toastLevel int

const (
	toastNone toastLevel = iota
	toastLevelInfo
	toastLevelSuccess
	toastLevelError
)

type toast struct {
	level toastLevel
	text  string
}

func (m *Model) toastInfo(text string)    { m.toast = toast{level: toastLevelInfo, text: text} }
func (m *Model) toastSuccess(text string) { m.toast = toast{level: toastLevelSuccess, text: text} }
func (m *Model) toastError(text string)   { m.toast = toast{level: toastLevelError, text: text} }

func (m *Model) clearToast() { m.toast = toast{} }

// renderHeader shows the server and account identity plus connection
// state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	title := "preen · " + m.serverURL
	var right string
	switch {
	case m.session.IsOffline():
		right = styles.DangerText.Render("offline")
	case m.saving:
		right = m.spinner.View() + " saving"
	case m.deleting:
		right = m.spinner.View() + " deleting"
	case m.revoking:
		right = m.spinner.View() + " logging out sessions"
	}

	line := title
	if right != "" {
		gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
		if gap < 1 {
			gap = 1
		}
		line = title + strings.Repeat(" ", gap) + right
	}
	return styles.Header.Width(m.width).Render(line)
}

// renderFooter shows the toast when one is set, otherwise the short key
// hints, with a dirty marker on the right.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	var left string
	switch m.toast.level {
	case toastLevelInfo:
		left = styles.MutedText.Render(m.toast.text)
	case toastLevelSuccess:
		left = styles.SuccessText.Render(m.toast.text)
	case toastLevelError:
		left = styles.DangerText.Render(m.toast.text)
	default:
		hints := make([]string, 0, 3)
		for _, b := range m.keys.ShortHelp() {
			hints = append(hints, b.Help().Key+" "+b.Help().Desc)
		}
		left = styles.MutedText.Render(strings.Join(hints, " · "))
	}

	var right string
	if m.drafts.IsDirty() {
		right = styles.WarningText.Render("unsaved changes")
	}

	line := left
	if right != "" {
		gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if gap < 1 {
			gap = 1
		}
		line = left + strings.Repeat(" ", gap) + right
	}
	return styles.Footer.Width(m.width).Render(line)
}
