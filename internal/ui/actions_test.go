package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roostlabs/preen/internal/profile"
	"github.com/roostlabs/preen/internal/roost"
	"github.com/roostlabs/preen/internal/state"
)

// recordingService captures every remote call so tests can assert on the
// exact payloads the orchestration sends.
type recordingService struct {
	profile  roost.Profile
	settings roost.Settings

	saveData    []map[string]any
	saveCustom  []map[string]string
	saveErr     error
	uploads     []string
	uploadErr   error
	deleteCalls []deleteCall
	deleteErrs  []error // popped per call; nil entry means success
	revokeCalls int
	revokeErr   error
}

type deleteCall struct {
	hashed string
	force  bool
}

func (r *recordingService) FetchProfile(ctx context.Context) (*roost.Profile, error) {
	p := r.profile
	return &p, nil
}

func (r *recordingService) FetchSettings(ctx context.Context) (*roost.Settings, error) {
	s := r.settings
	return &s, nil
}

func (r *recordingService) SaveProfile(ctx context.Context, data map[string]any, customFields map[string]string) error {
	r.saveData = append(r.saveData, data)
	r.saveCustom = append(r.saveCustom, customFields)
	return r.saveErr
}

func (r *recordingService) UploadAvatar(ctx context.Context, dataURI string) error {
	if r.uploadErr != nil {
		return r.uploadErr
	}
	r.uploads = append(r.uploads, dataURI)
	return nil
}

func (r *recordingService) DeleteOwnAccount(ctx context.Context, hashedCredential string, force bool) error {
	r.deleteCalls = append(r.deleteCalls, deleteCall{hashed: hashedCredential, force: force})
	if len(r.deleteErrs) == 0 {
		return nil
	}
	err := r.deleteErrs[0]
	r.deleteErrs = r.deleteErrs[1:]
	return err
}

func (r *recordingService) RevokeOtherSessions(ctx context.Context) error {
	r.revokeCalls++
	return r.revokeErr
}

func allowAllSettings() roost.Settings {
	return roost.Settings{
		AllowRealnameChange:      true,
		AllowEmailChange:         true,
		AllowPasswordChange:      true,
		AllowUsernameChange:      true,
		AllowAvatarChange:        true,
		AllowStatusMessageChange: true,
		AllowDeleteOwnAccount:    true,
	}
}

func newTestModel(t *testing.T, svc *recordingService) Model {
	t.Helper()

	store := &state.Store{}
	store.Update(&svc.profile, &svc.settings, nil)

	m, err := New(Options{
		Context:   context.Background(),
		Client:    svc,
		Store:     store,
		ServerURL: "https://roost.example",
		ThemeName: "Dracula",
		PrefsPath: t.TempDir() + "/prefs.toml",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	m.width = 80
	m.height = 24
	m.ready = true
	return m
}

// run executes a command synchronously and returns its message.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command, got nil")
	}
	return cmd()
}

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyEsc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }

func TestSaveEmailChangePromptsForPassword(t *testing.T) {
	svc := &recordingService{
		profile:  roost.Profile{Email: "ada@example.com", HasLocalPassword: true},
		settings: allowAllSettings(),
	}
	m := newTestModel(t, svc)

	m.drafts.Set(profile.FieldEmail, "ada@new.example")
	if cmd := m.startSave(); cmd != nil {
		t.Fatalf("startSave returned a command, want prompt first")
	}

	if m.prompt.kind != promptCredential || m.prompt.purpose != purposeReauth {
		t.Fatalf("prompt = (%v, %v), want credential/reauth", m.prompt.kind, m.prompt.purpose)
	}
	if !m.prompt.secret {
		t.Fatalf("reauth prompt is not masked")
	}
	if len(svc.saveData) != 0 {
		t.Fatalf("save went out before confirmation: %v", svc.saveData)
	}
}

func TestSaveReauthCancelLeavesDraftUntouched(t *testing.T) {
	svc := &recordingService{
		profile:  roost.Profile{Email: "ada@example.com", HasLocalPassword: true},
		settings: allowAllSettings(),
	}
	m := newTestModel(t, svc)

	m.drafts.Set(profile.FieldEmail, "ada@new.example")
	m.startSave()

	next, _ := m.handlePromptKey(keyEsc())
	m = next.(Model)

	if m.promptActive() {
		t.Fatalf("prompt still open after cancel")
	}
	if len(svc.saveData) != 0 {
		t.Fatalf("cancel still issued a save: %v", svc.saveData)
	}
	if got := m.drafts.Get().Email; got != "ada@new.example" {
		t.Fatalf("draft email = %q, want pending edit preserved", got)
	}
	if !m.drafts.IsDirty() {
		t.Fatalf("dirty flag lost on cancel")
	}
}

func TestSaveReauthConfirmSendsHashedCredential(t *testing.T) {
	svc := &recordingService{
		profile:  roost.Profile{Email: "ada@example.com", HasLocalPassword: true},
		settings: allowAllSettings(),
	}
	m := newTestModel(t, svc)

	m.drafts.Set(profile.FieldEmail, "ada@new.example")
	m.startSave()

	m.prompt.input.SetValue("secret1")
	next, cmd := m.handlePromptKey(keyEnter())
	m = next.(Model)

	msg := run(t, cmd)
	saved, ok := msg.(saveFinishedMsg)
	if !ok {
		t.Fatalf("message = %T, want saveFinishedMsg", msg)
	}
	m.handleSaveFinished(saved)

	if len(svc.saveData) != 1 {
		t.Fatalf("save calls = %d, want 1", len(svc.saveData))
	}
	data := svc.saveData[0]
	if data["email"] != "ada@new.example" {
		t.Fatalf("payload email = %v", data["email"])
	}
	if data["typedPassword"] != profile.HashCredential("secret1") {
		t.Fatalf("payload typedPassword = %v, want sha-256 of the typed value", data["typedPassword"])
	}
	if _, present := data["newPassword"]; present {
		t.Fatalf("blank new password included in payload")
	}
	if m.drafts.IsDirty() {
		t.Fatalf("draft still dirty after successful save")
	}
}

func TestSaveUnchangedEmailExcludedFromPayload(t *testing.T) {
	svc := &recordingService{
		profile:  roost.Profile{Realname: "Ada", Email: "ada@example.com"},
		settings: allowAllSettings(),
	}
	m := newTestModel(t, svc)

	m.drafts.Set(profile.FieldRealname, "Ada L.")
	msg := run(t, m.startSave())
	m.handleSaveFinished(msg.(saveFinishedMsg))

	if len(svc.saveData) != 1 {
		t.Fatalf("save calls = %d, want 1", len(svc.saveData))
	}
	if _, present := svc.saveData[0]["email"]; present {
		t.Fatalf("unchanged email included in payload")
	}
	if svc.saveData[0]["realName"] != "Ada L." {
		t.Fatalf("realName = %v", svc.saveData[0]["realName"])
	}
}

func TestSavePasswordMismatchBlocksSubmit(t *testing.T) {
	svc := &recordingService{
		profile:  roost.Profile{HasLocalPassword: true},
		settings: allowAllSettings(),
	}
	m := newTestModel(t, svc)

	m.drafts.Set(profile.FieldPassword, "one")
	m.drafts.Set(profile.FieldPasswordConfirm, "two")

	if cmd := m.startSave(); cmd != nil {
		t.Fatalf("mismatched passwords still produced a save command")
	}
	if m.promptActive() {
		t.Fatalf("mismatched passwords opened a prompt")
	}
	if m.toast.level != toastLevelError {
		t.Fatalf("toast level = %v, want error", m.toast.level)
	}
}

func TestAvatarUploadFailureAbortsSave(t *testing.T) {
	svc := &recordingService{
		profile:   roost.Profile{Realname: "Ada"},
		settings:  allowAllSettings(),
		uploadErr: errors.New("image too large"),
	}
	m := newTestModel(t, svc)

	m.drafts.Set(profile.FieldAvatar, "data:image/png;base64,aGk=")
	msg := run(t, m.startSave())
	m.handleSaveFinished(msg.(saveFinishedMsg))

	if len(svc.saveData) != 0 {
		t.Fatalf("profile save went out despite failed avatar upload")
	}
	if m.toast.level != toastLevelError {
		t.Fatalf("toast level = %v, want error", m.toast.level)
	}
	if got := m.drafts.Get().Avatar; got == "" {
		t.Fatalf("staged avatar discarded on failed upload, want kept for retry")
	}
}

func TestAvatarUploadedBeforeSave(t *testing.T) {
	svc := &recordingService{
		profile:  roost.Profile{Realname: "Ada"},
		settings: allowAllSettings(),
	}
	m := newTestModel(t, svc)

	m.drafts.Set(profile.FieldAvatar, "data:image/png;base64,aGk=")
	msg := run(t, m.startSave())
	m.handleSaveFinished(msg.(saveFinishedMsg))

	if len(svc.uploads) != 1 || svc.uploads[0] != "data:image/png;base64,aGk=" {
		t.Fatalf("uploads = %v", svc.uploads)
	}
	if len(svc.saveData) != 1 {
		t.Fatalf("save calls = %d, want 1", len(svc.saveData))
	}
	if got := m.drafts.Get().Avatar; got != "" {
		t.Fatalf("avatar marker = %q, want cleared after upload", got)
	}
}

func TestDeleteOwnerConflictForceRetryReusesHash(t *testing.T) {
	conflictErr := &roost.APIError{
		StatusCode: 409,
		Code:       roost.CodeOwnerConflict,
		Message:    "you are the last owner",
		Conflict:   &roost.OwnerConflict{ShouldChangeOwner: true},
	}
	svc := &recordingService{
		profile:    roost.Profile{Username: "ada", HasLocalPassword: true},
		settings:   allowAllSettings(),
		deleteErrs: []error{conflictErr, nil},
	}
	m := newTestModel(t, svc)

	m.startDelete()
	if m.prompt.kind != promptCredential || !m.prompt.secret {
		t.Fatalf("delete prompt = (%v, secret=%v), want masked credential", m.prompt.kind, m.prompt.secret)
	}

	m.prompt.input.SetValue("hunter2")
	next, cmd := m.handlePromptKey(keyEnter())
	m = next.(Model)

	msg := run(t, cmd)
	if quit := m.handleDeleteFinished(msg.(deleteFinishedMsg)); quit != nil {
		t.Fatalf("conflict produced a quit command")
	}
	if m.prompt.kind != promptOwnerConflict {
		t.Fatalf("prompt = %v, want owner conflict confirmation", m.prompt.kind)
	}

	// Continue anyway: no second credential prompt, same hash, force set.
	next, cmd = m.handlePromptKey(keyEnter())
	m = next.(Model)
	msg = run(t, cmd)
	quit := m.handleDeleteFinished(msg.(deleteFinishedMsg))

	if len(svc.deleteCalls) != 2 {
		t.Fatalf("delete calls = %d, want 2", len(svc.deleteCalls))
	}
	want := profile.HashCredential("hunter2")
	if svc.deleteCalls[0].hashed != want || svc.deleteCalls[1].hashed != want {
		t.Fatalf("hashes differ across retry: %v", svc.deleteCalls)
	}
	if svc.deleteCalls[0].force || !svc.deleteCalls[1].force {
		t.Fatalf("force flags = (%v, %v), want (false, true)", svc.deleteCalls[0].force, svc.deleteCalls[1].force)
	}
	if !m.deleted || quit == nil {
		t.Fatalf("completed deletion did not shut the app down")
	}
}

func TestDeleteWithoutLocalPasswordPromptsUsernameInClear(t *testing.T) {
	svc := &recordingService{
		profile:  roost.Profile{Username: "ada", HasLocalPassword: false},
		settings: allowAllSettings(),
	}
	m := newTestModel(t, svc)

	m.startDelete()
	if m.prompt.kind != promptCredential {
		t.Fatalf("prompt kind = %v, want credential", m.prompt.kind)
	}
	if m.prompt.secret {
		t.Fatalf("username confirmation is masked, want clear text")
	}
}

func TestDeleteDisabledByPolicy(t *testing.T) {
	settings := allowAllSettings()
	settings.AllowDeleteOwnAccount = false
	svc := &recordingService{
		profile:  roost.Profile{Username: "ada", HasLocalPassword: true},
		settings: settings,
	}
	m := newTestModel(t, svc)

	if cmd := m.startDelete(); cmd != nil {
		t.Fatalf("disabled deletion produced a command")
	}
	if m.promptActive() {
		t.Fatalf("disabled deletion opened a prompt")
	}
}

func TestDeleteGenericFailureResetsFlow(t *testing.T) {
	svc := &recordingService{
		profile:    roost.Profile{Username: "ada", HasLocalPassword: true},
		settings:   allowAllSettings(),
		deleteErrs: []error{errors.New("server unavailable")},
	}
	m := newTestModel(t, svc)

	m.startDelete()
	m.prompt.input.SetValue("hunter2")
	next, cmd := m.handlePromptKey(keyEnter())
	m = next.(Model)

	msg := run(t, cmd)
	m.handleDeleteFinished(msg.(deleteFinishedMsg))

	if m.deletion.State() != profile.StateIdle {
		t.Fatalf("deletion state = %v, want idle after failure", m.deletion.State())
	}
	if m.toast.level != toastLevelError {
		t.Fatalf("toast level = %v, want error", m.toast.level)
	}

	// The flow must be reusable after the report.
	if _, err := m.deletion.Begin(true); err != nil {
		t.Fatalf("Begin after failure: %v", err)
	}
}

func TestRevokeGuardsAgainstDoubleSubmit(t *testing.T) {
	svc := &recordingService{
		profile:  roost.Profile{Username: "ada"},
		settings: allowAllSettings(),
	}
	m := newTestModel(t, svc)

	cmd := m.startRevoke()
	if cmd == nil {
		t.Fatalf("startRevoke returned nil")
	}
	if second := m.startRevoke(); second != nil {
		t.Fatalf("second revoke produced a command while one is in flight")
	}

	msg := run(t, cmd)
	m.handleRevokeFinished(msg.(revokeFinishedMsg))
	if svc.revokeCalls != 1 {
		t.Fatalf("revoke calls = %d, want 1", svc.revokeCalls)
	}
	if m.revoking {
		t.Fatalf("revoking flag stuck after completion")
	}
}
