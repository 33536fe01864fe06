package profile

import (
	"errors"
	"testing"

	"github.com/roostlabs/preen/internal/roost"
)

func ownerConflictErr(changeOwner, beRemoved bool) error {
	return &roost.APIError{
		StatusCode: 409,
		Code:       roost.CodeOwnerConflict,
		Message:    "last owner",
		Conflict:   &roost.OwnerConflict{ShouldChangeOwner: changeOwner, ShouldBeRemoved: beRemoved},
	}
}

func TestFlow_PromptKindFollowsAuthMode(t *testing.T) {
	var withPassword Flow
	kind, err := withPassword.Begin(true)
	if err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if kind != CredentialPassword {
		t.Fatalf("Begin(local password) kind = %v, want CredentialPassword", kind)
	}

	var withoutPassword Flow
	kind, err = withoutPassword.Begin(false)
	if err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if kind != CredentialUsername {
		t.Fatalf("Begin(no local password) kind = %v, want CredentialUsername", kind)
	}
}

func TestFlow_HappyPath(t *testing.T) {
	var f Flow

	if _, err := f.Begin(true); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if f.State() != StateAwaitCredential {
		t.Fatalf("state = %v, want %v", f.State(), StateAwaitCredential)
	}

	hashed, err := f.Submit("hunter2")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if hashed != HashCredential("hunter2") {
		t.Fatalf("Submit hash = %q, want hash of hunter2", hashed)
	}
	if f.State() != StateInFlight {
		t.Fatalf("state = %v, want %v", f.State(), StateInFlight)
	}

	if got := f.Resolve(nil); got != OutcomeDone {
		t.Fatalf("Resolve(nil) = %v, want OutcomeDone", got)
	}
	if f.State() != StateDone {
		t.Fatalf("state = %v, want %v", f.State(), StateDone)
	}
	if f.hashed != "" {
		t.Fatalf("credential hash retained after done")
	}
}

func TestFlow_OwnerConflictForceRetryReusesHash(t *testing.T) {
	var f Flow

	if _, err := f.Begin(true); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	first, err := f.Submit("hunter2")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if got := f.Resolve(ownerConflictErr(true, false)); got != OutcomeOwnerConflict {
		t.Fatalf("Resolve(conflict) = %v, want OutcomeOwnerConflict", got)
	}
	if f.State() != StateAwaitOwnerResolution {
		t.Fatalf("state = %v, want %v", f.State(), StateAwaitOwnerResolution)
	}
	conflict := f.Conflict()
	if !conflict.ShouldChangeOwner || conflict.ShouldBeRemoved {
		t.Fatalf("conflict = %#v, want shouldChangeOwner only", conflict)
	}

	// "Continue anyway" reuses the captured hash with no second prompt.
	retry, err := f.ConfirmForce()
	if err != nil {
		t.Fatalf("ConfirmForce returned error: %v", err)
	}
	if retry != first {
		t.Fatalf("ConfirmForce hash = %q, want the original %q", retry, first)
	}
	if f.State() != StateInFlight {
		t.Fatalf("state = %v, want %v", f.State(), StateInFlight)
	}

	if got := f.Resolve(nil); got != OutcomeDone {
		t.Fatalf("Resolve after force = %v, want OutcomeDone", got)
	}
}

func TestFlow_OwnerConflictCancelReturnsToIdle(t *testing.T) {
	var f Flow
	_, _ = f.Begin(true)
	_, _ = f.Submit("hunter2")
	f.Resolve(ownerConflictErr(true, true))

	f.Cancel()
	if f.State() != StateIdle {
		t.Fatalf("state after cancel = %v, want %v", f.State(), StateIdle)
	}
	if f.hashed != "" {
		t.Fatalf("credential hash retained after cancel")
	}

	// The flow is reusable from scratch.
	if _, err := f.Begin(false); err != nil {
		t.Fatalf("Begin after cancel returned error: %v", err)
	}
}

func TestFlow_GenericFailureDiscardsCredential(t *testing.T) {
	var f Flow
	_, _ = f.Begin(true)
	_, _ = f.Submit("hunter2")

	if got := f.Resolve(errors.New("boom")); got != OutcomeFailed {
		t.Fatalf("Resolve(generic) = %v, want OutcomeFailed", got)
	}
	if f.State() != StateFailed {
		t.Fatalf("state = %v, want %v", f.State(), StateFailed)
	}
	if f.hashed != "" {
		t.Fatalf("credential hash retained after failure")
	}

	f.Reset()
	if f.State() != StateIdle {
		t.Fatalf("state after reset = %v, want %v", f.State(), StateIdle)
	}
}

func TestFlow_InvalidTransitionsError(t *testing.T) {
	var f Flow

	if _, err := f.Submit("x"); err == nil {
		t.Fatalf("Submit from idle returned nil error, want error")
	}
	if _, err := f.ConfirmForce(); err == nil {
		t.Fatalf("ConfirmForce from idle returned nil error, want error")
	}

	_, _ = f.Begin(true)
	if _, err := f.Begin(true); err == nil {
		t.Fatalf("Begin from await-credential returned nil error, want error")
	}
}

func TestFlow_StrayResultAfterCancelIgnored(t *testing.T) {
	var f Flow
	_, _ = f.Begin(true)
	_, _ = f.Submit("hunter2")
	f.Cancel()

	f.Resolve(nil)
	if f.State() != StateIdle {
		t.Fatalf("state after stray resolve = %v, want %v", f.State(), StateIdle)
	}
}
