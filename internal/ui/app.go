package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roostlabs/preen/internal/prefs"
	"github.com/roostlabs/preen/internal/profile"
	"github.com/roostlabs/preen/internal/roost"
	"github.com/roostlabs/preen/internal/state"
)

// Options configure the account editor UI.
type Options struct {
	Context   context.Context
	Client    roost.Service
	Store     *state.Store
	ServerURL string
	ThemeName string
	PrefsPath string
}

// sessionTickInterval is how often the UI picks up the poller's latest
// snapshot. Settings changes apply on the next tick; the draft is never
// touched by it.
const sessionTickInterval = 2 * time.Second

type sessionTickMsg time.Time

// Model is the root Bubble Tea model for the account editor.
type Model struct {
	ctx       context.Context
	client    roost.Service
	store     *state.Store
	serverURL string
	prefsPath string

	keys    keyMap
	theme   Theme
	spinner spinner.Model

	width  int
	height int
	ready  bool

	// Latest poller snapshot; settings feed the policy, the profile in
	// here is display-only once editing has begun.
	session state.Snapshot

	drafts           *profile.Store
	hasLocalPassword bool
	policy           profile.Policy
	policyErr        error

	rows   []formRow
	inputs []textinput.Model
	focus  int

	prompt   promptState
	deletion profile.Flow

	saving   bool
	deleting bool
	revoking bool

	toast    toast
	showHelp bool
	deleted  bool
}

// New builds the root model from an initial snapshot. The store must
// already hold a profile and settings; app.Run guarantees that.
func New(opts Options) (Model, error) {
	snap := opts.Store.Snapshot()
	if !snap.HasProfile || !snap.HasSettings {
		return Model{}, fmt.Errorf("no account snapshot available")
	}

	m := Model{
		ctx:       opts.Context,
		client:    opts.Client,
		store:     opts.Store,
		serverURL: opts.ServerURL,
		prefsPath: opts.PrefsPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		session:   snap,
		drafts:    profile.NewStore(profile.FromProfile(snap.Profile)),
	}
	m.hasLocalPassword = snap.Profile.HasLocalPassword
	m.applySettings(snap.Settings)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))

	m.resetForm()
	return m, nil
}

// applySettings rederives the editability policy from a fresh settings
// bag. A broken username expression keeps the previous pattern and
// surfaces the error in the footer.
func (m *Model) applySettings(s roost.Settings) {
	policy, err := profile.DerivePolicy(s)
	if err != nil {
		m.policyErr = err
		return
	}
	m.policy = policy
	m.policyErr = nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, sessionTick())
}

func sessionTick() tea.Cmd {
	return tea.Tick(sessionTickInterval, func(t time.Time) tea.Msg {
		return sessionTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionTickMsg:
		m.session = m.store.Snapshot()
		if m.session.HasSettings {
			m.applySettings(m.session.Settings)
		}
		if m.session.HasProfile {
			m.hasLocalPassword = m.session.Profile.HasLocalPassword
		}
		if m.policyErr != nil {
			m.toastError(m.policyErr.Error())
		}
		return m, sessionTick()

	case saveFinishedMsg:
		m.handleSaveFinished(msg)
		return m, nil

	case deleteFinishedMsg:
		return m, m.handleDeleteFinished(msg)

	case revokeFinishedMsg:
		m.handleRevokeFinished(msg)
		return m, nil

	case avatarReadMsg:
		m.handleAvatarRead(msg)
		return m, nil

	case reloadMsg:
		m.handleReload(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes a key press by precedence: quit chord, help overlay,
// active prompt, global action chords, then the form.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	m.clearToast()

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.promptActive() {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m, m.startSave()
	case key.Matches(msg, m.keys.Reload):
		m.toastInfo("reloading…")
		return m, m.startReload()
	case key.Matches(msg, m.keys.Avatar):
		return m, m.startAvatarPicker()
	case key.Matches(msg, m.keys.RevokeOther):
		return m, m.startRevoke()
	case key.Matches(msg, m.keys.Delete):
		return m, m.startDelete()
	case key.Matches(msg, m.keys.Escape):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextField):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.moveFocus(-1)
		return m, nil
	}

	return m.handleFormKey(msg)
}

// handlePromptKey drives the active modal. Escape cancels, enter
// confirms; every branch closes the prompt exactly once.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.prompt.kind {
	case promptCredential:
		switch {
		case key.Matches(msg, m.keys.Escape):
			purpose := m.prompt.purpose
			m.closePrompt()
			if purpose == purposeDeleteCredential {
				m.deletion.Cancel()
			}
			return m, nil
		case key.Matches(msg, m.keys.Confirm):
			value := m.prompt.input.Value()
			purpose := m.prompt.purpose
			m.closePrompt()
			switch purpose {
			case purposeReauth:
				return m, m.performSave(value)
			case purposeDeleteCredential:
				return m, m.confirmDeleteCredential(value)
			case purposeAvatarPath:
				return m, m.confirmAvatarPath(value)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt.input, cmd = m.prompt.input.Update(msg)
		return m, cmd

	case promptOwnerConflict:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.closePrompt()
			m.deletion.Cancel()
			return m, nil
		case key.Matches(msg, m.keys.Confirm):
			m.closePrompt()
			return m, m.confirmForcedDelete()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	if m.deleted {
		return "Your account has been deleted. Goodbye.\n"
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.promptActive() {
		return m.renderPrompt()
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	body := m.renderForm()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	lines := strings.Split(body, "\n")
	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}

	return header + "\n" + strings.Join(lines, "\n") + "\n" + footer
}

// Run starts the account editor and blocks until it exits.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
