package profile

import (
	"fmt"

	"github.com/roostlabs/preen/internal/roost"
)

// DeletionState enumerates the account deletion state machine.
type DeletionState int

const (
	StateIdle DeletionState = iota
	StateAwaitCredential
	StateAwaitOwnerResolution
	StateInFlight
	StateDone
	StateFailed
)

// String returns the state name for logs and test failures.
func (s DeletionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitCredential:
		return "await-credential"
	case StateAwaitOwnerResolution:
		return "await-owner-resolution"
	case StateInFlight:
		return "in-flight"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("deletion-state(%d)", int(s))
}

// CredentialKind says what the deletion prompt must capture.
type CredentialKind int

const (
	// CredentialPassword asks for the account password, masked.
	CredentialPassword CredentialKind = iota
	// CredentialUsername asks the user to type their username in the
	// clear, for accounts without local password auth.
	CredentialUsername
)

// Outcome classifies the result of a deletion attempt.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeOwnerConflict
	OutcomeFailed
)

// Flow is the account deletion state machine. All of its state is
// explicit fields, not closures: which credential kind was requested,
// the hashed credential retained for a forced retry, and the owner
// conflict payload while one is pending. The hash lives only in this
// value and is discarded on done, failure, or cancel.
type Flow struct {
	state    DeletionState
	kind     CredentialKind
	hashed   string
	conflict roost.OwnerConflict
}

// State returns the current state.
func (f *Flow) State() DeletionState { return f.state }

// Kind returns the credential kind chosen at Begin.
func (f *Flow) Kind() CredentialKind { return f.kind }

// Conflict returns the owner conflict payload; meaningful only in
// StateAwaitOwnerResolution.
func (f *Flow) Conflict() roost.OwnerConflict { return f.conflict }

// Begin starts a deletion attempt and chooses the prompt type: a masked
// password prompt when local password auth exists, otherwise a plain
// type-your-username confirmation.
func (f *Flow) Begin(hasLocalPassword bool) (CredentialKind, error) {
	if f.state != StateIdle {
		return 0, fmt.Errorf("begin deletion: state is %s, want %s", f.state, StateIdle)
	}
	if hasLocalPassword {
		f.kind = CredentialPassword
	} else {
		f.kind = CredentialUsername
	}
	f.state = StateAwaitCredential
	return f.kind, nil
}

// Submit accepts the captured credential, hashes it, retains the hash
// for a possible forced retry, and moves to in-flight. It returns the
// hash for the remote call.
func (f *Flow) Submit(credential string) (string, error) {
	if f.state != StateAwaitCredential {
		return "", fmt.Errorf("submit deletion credential: state is %s, want %s", f.state, StateAwaitCredential)
	}
	f.hashed = HashCredential(credential)
	f.state = StateInFlight
	return f.hashed, nil
}

// Resolve routes the result of the remote deletion call. A nil error is
// terminal success; an owner-conflict error parks the flow awaiting the
// user's explicit decision; anything else is a failure that discards the
// credential so a retry starts from scratch.
func (f *Flow) Resolve(err error) Outcome {
	if f.state != StateInFlight {
		// A stray result after cancel must not resurrect the flow.
		return OutcomeFailed
	}
	if err == nil {
		f.state = StateDone
		f.hashed = ""
		return OutcomeDone
	}
	if conflict, ok := roost.AsOwnerConflict(err); ok {
		f.conflict = conflict
		f.state = StateAwaitOwnerResolution
		return OutcomeOwnerConflict
	}
	f.state = StateFailed
	f.hashed = ""
	return OutcomeFailed
}

// ConfirmForce is the user's "continue anyway" after an owner conflict.
// It returns the hash captured at Submit; the user is never re-prompted.
func (f *Flow) ConfirmForce() (string, error) {
	if f.state != StateAwaitOwnerResolution {
		return "", fmt.Errorf("confirm forced deletion: state is %s, want %s", f.state, StateAwaitOwnerResolution)
	}
	f.state = StateInFlight
	f.conflict = roost.OwnerConflict{}
	return f.hashed, nil
}

// Cancel aborts the flow from any state and discards the credential.
func (f *Flow) Cancel() {
	f.state = StateIdle
	f.hashed = ""
	f.conflict = roost.OwnerConflict{}
}

// Reset returns a failed or completed flow to idle. Equivalent to Cancel
// but named for the post-report transition.
func (f *Flow) Reset() {
	f.Cancel()
}
