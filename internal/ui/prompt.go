package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/roostlabs/preen/internal/roost"
)

// promptKind tags the shared modal slot. Exactly one prompt may be
// visible; exclusivity is enforced structurally by this single value.
type promptKind int

const (
	promptNone promptKind = iota
	promptCredential
	promptOwnerConflict
)

// promptPurpose says what a confirmed credential prompt is for, so the
// update loop routes the captured value with a switch instead of a
// stored closure.
type promptPurpose int

const (
	purposeReauth promptPurpose = iota
	purposeDeleteCredential
	purposeAvatarPath
)

// promptState is the shared modal slot.
type promptState struct {
	kind     promptKind
	purpose  promptPurpose
	title    string
	body     string
	secret   bool
	input    textinput.Model
	conflict roost.OwnerConflict
}

// openCredentialPrompt shows a single-line prompt. It reports false,
// without altering the visible prompt, when another prompt is active:
// requests are rejected rather than queued, and the caller surfaces the
// rejection.
func (m *Model) openCredentialPrompt(purpose promptPurpose, title, body string, secret bool) bool {
	if m.prompt.kind != promptNone {
		return false
	}
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 256
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	in.Focus()
	m.prompt = promptState{
		kind:    promptCredential,
		purpose: purpose,
		title:   title,
		body:    body,
		secret:  secret,
		input:   in,
	}
	return true
}

// openOwnerConflictPrompt shows the continue/cancel prompt for a
// last-owner deletion conflict. Same rejection rule as credential
// prompts.
func (m *Model) openOwnerConflictPrompt(conflict roost.OwnerConflict) bool {
	if m.prompt.kind != promptNone {
		return false
	}
	m.prompt = promptState{
		kind:     promptOwnerConflict,
		conflict: conflict,
	}
	return true
}

// closePrompt dismisses the modal unconditionally. Every prompt outcome,
// confirm or cancel, goes through here so no dangling modal state can
// survive.
func (m *Model) closePrompt() {
	m.prompt = promptState{}
}

// promptActive reports whether the modal slot is occupied.
func (m Model) promptActive() bool {
	return m.prompt.kind != promptNone
}

// renderPrompt renders the active modal centered over the view.
func (m Model) renderPrompt() string {
	styles := m.theme.Styles()

	var b strings.Builder
	switch m.prompt.kind {
	case promptCredential:
		b.WriteString(styles.Text.Bold(true).Render(m.prompt.title))
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render(m.prompt.body))
		b.WriteString("\n\n")
		b.WriteString(m.prompt.input.View())
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("enter confirm · esc cancel"))

	case promptOwnerConflict:
		b.WriteString(styles.DangerText.Render("You are the last owner"))
		b.WriteString("\n\n")
		b.WriteString(styles.Text.Render(conflictSummary(m.prompt.conflict)))
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("enter continue anyway · esc cancel"))
	}

	modal := styles.Modal.Width(52).Render(b.String())
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

func conflictSummary(c roost.OwnerConflict) string {
	switch {
	case c.ShouldChangeOwner && c.ShouldBeRemoved:
		return "Deleting your account will reassign some resources to another member and remove the rest."
	case c.ShouldChangeOwner:
		return "Deleting your account will reassign resources you solely own to another member."
	case c.ShouldBeRemoved:
		return "Deleting your account will remove resources you solely own."
	}
	return "Deleting your account affects resources you solely own."
}
