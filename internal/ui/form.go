package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/roostlabs/preen/internal/profile"
)

const labelWidth = 18

// statusTypes are the presence values the server accepts.
var statusTypes = []string{"online", "away", "busy", "offline"}

// rowKind distinguishes text rows from the status-type cycler.
type rowKind int

const (
	rowInput rowKind = iota
	rowCycler
)

// formRow describes one line of the settings form.
type formRow struct {
	kind      rowKind
	label     string
	field     profile.Field
	customKey string // set for custom field rows
	secret    bool
}

// buildRows lays out the form for the given draft. Custom fields are
// appended in sorted key order so the layout is stable.
func buildRows(draft profile.Draft) []formRow {
	rows := []formRow{
		{kind: rowInput, label: "Real name", field: profile.FieldRealname},
		{kind: rowInput, label: "Email", field: profile.FieldEmail},
		{kind: rowInput, label: "Username", field: profile.FieldUsername},
		{kind: rowInput, label: "New password", field: profile.FieldPassword, secret: true},
		{kind: rowInput, label: "Confirm password", field: profile.FieldPasswordConfirm, secret: true},
		{kind: rowInput, label: "URL", field: profile.FieldURL},
		{kind: rowInput, label: "Status message", field: profile.FieldStatusText},
		{kind: rowCycler, label: "Status", field: profile.FieldStatusType},
		{kind: rowInput, label: "Bio", field: profile.FieldBio},
	}

	keys := make([]string, 0, len(draft.CustomFields))
	for k := range draft.CustomFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, formRow{kind: rowInput, label: k, customKey: k})
	}
	return rows
}

// buildInputs creates one text input per row, seeded from the draft.
// Cycler rows get a placeholder input that is never focused or rendered.
func buildInputs(rows []formRow, draft profile.Draft) []textinput.Model {
	inputs := make([]textinput.Model, len(rows))
	for i, row := range rows {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		if row.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(rowValue(row, draft))
		inputs[i] = in
	}
	return inputs
}

func rowValue(row formRow, draft profile.Draft) string {
	if row.customKey != "" {
		return draft.CustomFields[row.customKey]
	}
	switch row.field {
	case profile.FieldRealname:
		return draft.Realname
	case profile.FieldEmail:
		return draft.Email
	case profile.FieldUsername:
		return draft.Username
	case profile.FieldPassword:
		return draft.Password
	case profile.FieldPasswordConfirm:
		return draft.PasswordConfirm
	case profile.FieldURL:
		return draft.URL
	case profile.FieldStatusText:
		return draft.StatusText
	case profile.FieldStatusType:
		return draft.StatusType
	case profile.FieldBio:
		return draft.Bio
	}
	return ""
}

// rowLocked reports whether the administrator policy forbids editing the
// row. Ungated rows (URL, bio, status type, custom fields) are never
// locked.
func (m Model) rowLocked(row formRow) bool {
	if row.customKey != "" {
		return false
	}
	switch row.field {
	case profile.FieldRealname:
		return !m.policy.CanChangeRealname
	case profile.FieldEmail:
		return !m.policy.CanChangeEmail
	case profile.FieldUsername:
		return !m.policy.CanChangeUsername
	case profile.FieldPassword, profile.FieldPasswordConfirm:
		return !m.policy.CanChangePassword
	case profile.FieldStatusText:
		return !m.policy.CanChangeStatusMessage
	}
	return false
}

// moveFocus advances the focus by delta, skipping locked rows.
func (m *Model) moveFocus(delta int) {
	if len(m.rows) == 0 {
		return
	}
	next := m.focus
	for range m.rows {
		next = (next + delta + len(m.rows)) % len(m.rows)
		if !m.rowLocked(m.rows[next]) {
			break
		}
	}
	m.setFocus(next)
}

func (m *Model) setFocus(idx int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = idx
	if m.rows[idx].kind == rowInput {
		m.inputs[idx].Focus()
	}
}

// handleFormKey routes a key press to the form: navigation, the status
// cycler, or the focused text input.
func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	row := m.rows[m.focus]

	if row.kind == rowCycler {
		switch msg.String() {
		case "left":
			m.cycleStatusType(-1)
			return m, nil
		case "right", " ", "enter":
			m.cycleStatusType(1)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncRow(m.focus)
	return m, cmd
}

// syncRow writes the focused input's value back into the draft store.
func (m *Model) syncRow(idx int) {
	row := m.rows[idx]
	value := m.inputs[idx].Value()
	if row.customKey != "" {
		m.drafts.SetCustomField(row.customKey, value)
		return
	}
	m.drafts.Set(row.field, value)
}

func (m *Model) cycleStatusType(delta int) {
	current := m.drafts.Get().StatusType
	idx := 0
	for i, s := range statusTypes {
		if s == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(statusTypes)) % len(statusTypes)
	m.drafts.Set(profile.FieldStatusType, statusTypes[idx])
}

// resetForm rebuilds rows and inputs from the current draft. Used after
// reload and successful save.
func (m *Model) resetForm() {
	draft := m.drafts.Get()
	m.rows = buildRows(draft)
	m.inputs = buildInputs(m.rows, draft)
	if m.focus >= len(m.rows) {
		m.focus = 0
	}
	m.setFocus(m.focus)
}

// renderForm renders all form rows plus the avatar line.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	draft := m.drafts.Get()

	var b strings.Builder
	customStarted := false
	for i, row := range m.rows {
		if row.customKey != "" && !customStarted {
			b.WriteString("\n")
			b.WriteString(styles.AccentText.Render("Custom fields"))
			b.WriteString("\n")
			customStarted = true
		}

		cursor := "  "
		if i == m.focus {
			cursor = styles.AccentText.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(styles.Label.Render(row.label))

		switch {
		case m.rowLocked(row):
			b.WriteString(styles.Locked.Render(lockedValue(row, draft) + "  (locked by administrator)"))
		case row.kind == rowCycler:
			value := draft.StatusType
			if value == "" {
				value = statusTypes[0]
			}
			if i == m.focus {
				b.WriteString(styles.Text.Render(fmt.Sprintf("‹ %s ›", value)))
			} else {
				b.WriteString(styles.Text.Render(value))
			}
		default:
			b.WriteString(m.inputs[i].View())
		}

		if warn := m.rowWarning(row, draft); warn != "" {
			b.WriteString("  ")
			b.WriteString(styles.WarningText.Render(warn))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(styles.Label.Render("Avatar"))
	b.WriteString(m.renderAvatarLine(draft, styles))
	b.WriteString("\n")

	return b.String()
}

func lockedValue(row formRow, draft profile.Draft) string {
	if row.secret {
		return ""
	}
	return rowValue(row, draft)
}

// rowWarning returns an inline validation hint. Warnings never block
// typing; the server has the final word.
func (m Model) rowWarning(row formRow, draft profile.Draft) string {
	switch row.field {
	case profile.FieldUsername:
		if row.customKey == "" && draft.Username != "" && !m.policy.ValidUsername(draft.Username) {
			return "does not match the allowed pattern"
		}
	case profile.FieldPasswordConfirm:
		if draft.PasswordConfirm != draft.Password {
			return "passwords do not match"
		}
	case profile.FieldRealname:
		if row.customKey == "" && m.policy.RequireName && strings.TrimSpace(draft.Realname) == "" {
			return "a name is required"
		}
	}
	return ""
}

func (m Model) renderAvatarLine(draft profile.Draft, styles Styles) string {
	if !m.policy.CanChangeAvatar {
		return styles.Locked.Render("(locked by administrator)")
	}
	if draft.Avatar != "" {
		return styles.SuccessText.Render("new image staged, saved with next save")
	}
	return styles.MutedText.Render("press ctrl+a to stage a new image")
}
