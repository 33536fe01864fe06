package ui

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roostlabs/preen/internal/profile"
	"github.com/roostlabs/preen/internal/roost"
)

// Remote operation results.

type saveFinishedMsg struct {
	avatarUploaded bool
	fresh          *roost.Profile // may be nil when the post-save refetch failed
	err            error
}

type deleteFinishedMsg struct {
	err error
}

type revokeFinishedMsg struct {
	err error
}

type avatarReadMsg struct {
	dataURI string
	err     error
}

type reloadMsg struct {
	profile  *roost.Profile
	settings *roost.Settings
	err      error
}

// startSave begins the save orchestration: plan, optionally prompt for
// re-authentication, then run the remote calls. A cancelled prompt
// leaves the draft, snapshot, and dirty flag untouched.
func (m *Model) startSave() tea.Cmd {
	if m.saving {
		m.toastInfo("save already in progress")
		return nil
	}
	if !m.drafts.IsDirty() {
		m.toastInfo("nothing to save")
		return nil
	}

	draft := m.drafts.Get()
	if draft.Password != draft.PasswordConfirm {
		m.toastError("passwords do not match")
		return nil
	}

	plan := profile.PlanSave(draft, m.drafts.Snapshot(), m.hasLocalPassword)
	if plan.NeedsReauth {
		if !m.openCredentialPrompt(purposeReauth, "Confirm your password",
			"Changing your email or password requires your current password.", true) {
			m.toastError("another prompt is already open")
		}
		return nil
	}
	return m.performSave("")
}

// performSave builds the payload (hashing the captured credential, if
// any) and launches the remote sequence.
func (m *Model) performSave(credential string) tea.Cmd {
	draft := m.drafts.Get()
	snapshot := m.drafts.Snapshot()
	payload := profile.BuildPayload(draft, snapshot, m.policy, credential)
	plan := profile.PlanSave(draft, snapshot, m.hasLocalPassword)

	m.saving = true
	return saveCmd(m.ctx, m.client, payload, plan.AvatarPending, draft.Avatar)
}

// saveCmd runs the remote save sequence: avatar upload first when one is
// pending (its failure aborts the profile save), then the profile save,
// then a refetch to reseed the snapshot. The sequence runs to
// completion; there is no cancellation.
func saveCmd(ctx context.Context, client roost.Service, payload profile.Payload, avatarPending bool, avatar string) tea.Cmd {
	return func() tea.Msg {
		var msg saveFinishedMsg
		if avatarPending {
			if err := client.UploadAvatar(ctx, avatar); err != nil {
				msg.err = fmt.Errorf("upload avatar: %w", err)
				return msg
			}
			msg.avatarUploaded = true
		}
		if err := client.SaveProfile(ctx, payload.Data, payload.CustomFields); err != nil {
			msg.err = err
			return msg
		}
		// Refetch so the new snapshot reflects server-side normalization.
		fresh, err := client.FetchProfile(ctx)
		if err == nil {
			msg.fresh = fresh
		}
		return msg
	}
}

// handleSaveFinished routes the save result. On success the draft store
// is reset to a fresh snapshot; on failure local state is untouched so
// the user can retry.
func (m *Model) handleSaveFinished(msg saveFinishedMsg) {
	m.saving = false

	if msg.avatarUploaded {
		// The upload landed even if the save after it failed; drop the
		// pending marker so a retry does not upload twice.
		m.drafts.Set(profile.FieldAvatar, "")
	}

	if msg.err != nil {
		m.toastError(msg.err.Error())
		return
	}

	if msg.fresh != nil {
		m.drafts.Reset(profile.FromProfile(*msg.fresh))
		m.hasLocalPassword = msg.fresh.HasLocalPassword
	} else {
		// Save succeeded but the refetch did not; seed the snapshot from
		// the draft with volatile fields cleared.
		seed := m.drafts.Get()
		seed.Password = ""
		seed.PasswordConfirm = ""
		seed.Avatar = ""
		m.drafts.Reset(seed)
	}
	m.resetForm()
	m.toastSuccess("profile saved")
}

// startDelete begins the account deletion flow.
func (m *Model) startDelete() tea.Cmd {
	if m.deleting {
		m.toastInfo("deletion already in progress")
		return nil
	}
	if !m.policy.CanDeleteOwnAccount {
		m.toastError("account deletion is disabled by the administrator")
		return nil
	}

	kind, err := m.deletion.Begin(m.hasLocalPassword)
	if err != nil {
		m.toastError(err.Error())
		return nil
	}

	var opened bool
	switch kind {
	case profile.CredentialPassword:
		opened = m.openCredentialPrompt(purposeDeleteCredential, "Delete your account",
			"This cannot be undone. Enter your password to continue.", true)
	case profile.CredentialUsername:
		opened = m.openCredentialPrompt(purposeDeleteCredential, "Delete your account",
			"This cannot be undone. Type your username to continue.", false)
	}
	if !opened {
		m.deletion.Cancel()
		m.toastError("another prompt is already open")
	}
	return nil
}

// confirmDeleteCredential hashes and submits the captured credential.
func (m *Model) confirmDeleteCredential(credential string) tea.Cmd {
	hashed, err := m.deletion.Submit(credential)
	if err != nil {
		m.toastError(err.Error())
		return nil
	}
	m.deleting = true
	return deleteCmd(m.ctx, m.client, hashed, false)
}

// confirmForcedDelete retries the deletion with the retained credential
// hash and the force flag. The user is never re-prompted.
func (m *Model) confirmForcedDelete() tea.Cmd {
	hashed, err := m.deletion.ConfirmForce()
	if err != nil {
		m.toastError(err.Error())
		return nil
	}
	m.deleting = true
	return deleteCmd(m.ctx, m.client, hashed, true)
}

func deleteCmd(ctx context.Context, client roost.Service, hashed string, force bool) tea.Cmd {
	return func() tea.Msg {
		return deleteFinishedMsg{err: client.DeleteOwnAccount(ctx, hashed, force)}
	}
}

// handleDeleteFinished routes the deletion result through the state
// machine: done quits, an owner conflict asks for explicit confirmation,
// anything else reports and resets.
func (m *Model) handleDeleteFinished(msg deleteFinishedMsg) tea.Cmd {
	m.deleting = false

	switch m.deletion.Resolve(msg.err) {
	case profile.OutcomeDone:
		m.deleted = true
		return tea.Quit
	case profile.OutcomeOwnerConflict:
		if !m.openOwnerConflictPrompt(m.deletion.Conflict()) {
			// Should not happen: the credential prompt closed before the
			// call went out. Treat it as a cancel rather than lose the
			// conflict silently.
			m.deletion.Cancel()
			m.toastError("deletion needs confirmation but another prompt is open")
		}
	case profile.OutcomeFailed:
		if msg.err != nil {
			m.toastError(msg.err.Error())
		}
		m.deletion.Reset()
	}
	return nil
}

// startRevoke logs out all other sessions, guarded against double
// submission.
func (m *Model) startRevoke() tea.Cmd {
	if m.revoking {
		m.toastInfo("already logging out other sessions")
		return nil
	}
	m.revoking = true
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		return revokeFinishedMsg{err: client.RevokeOtherSessions(ctx)}
	}
}

func (m *Model) handleRevokeFinished(msg revokeFinishedMsg) {
	m.revoking = false
	if msg.err != nil {
		m.toastError(msg.err.Error())
		return
	}
	m.toastSuccess("other sessions logged out")
}

// startAvatarPicker prompts for a local image path.
func (m *Model) startAvatarPicker() tea.Cmd {
	if !m.policy.CanChangeAvatar {
		m.toastError("avatar changes are disabled by the administrator")
		return nil
	}
	if !m.openCredentialPrompt(purposeAvatarPath, "Change avatar",
		"Path to an image file.", false) {
		m.toastError("another prompt is already open")
	}
	return nil
}

// confirmAvatarPath loads the image off the update loop.
func (m *Model) confirmAvatarPath(path string) tea.Cmd {
	return func() tea.Msg {
		dataURI, err := encodeAvatarFile(path)
		return avatarReadMsg{dataURI: dataURI, err: err}
	}
}

func (m *Model) handleAvatarRead(msg avatarReadMsg) {
	if msg.err != nil {
		m.toastError(msg.err.Error())
		return
	}
	m.drafts.Set(profile.FieldAvatar, msg.dataURI)
	m.toastSuccess("avatar staged, will upload on save")
}

// encodeAvatarFile reads an image file into a data URI.
func encodeAvatarFile(path string) (string, error) {
	raw, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (detected %s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// startReload refetches profile and settings, discarding local edits.
func (m *Model) startReload() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		fresh, err := client.FetchProfile(ctx)
		if err != nil {
			return reloadMsg{err: err}
		}
		settings, err := client.FetchSettings(ctx)
		if err != nil {
			return reloadMsg{err: err}
		}
		return reloadMsg{profile: fresh, settings: settings}
	}
}

func (m *Model) handleReload(msg reloadMsg) {
	if msg.err != nil {
		m.toastError(msg.err.Error())
		return
	}
	m.drafts.Reset(profile.FromProfile(*msg.profile))
	m.hasLocalPassword = msg.profile.HasLocalPassword
	m.applySettings(*msg.settings)
	m.resetForm()
	m.toastInfo("reloaded from server")
}
