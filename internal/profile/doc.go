// Package profile contains the account-editing core: the draft buffer
// and its snapshot, the administrator-derived editability policy, the
// diff rule table that builds the minimal save payload, save planning
// (re-authentication gating), credential hashing, and the account
// deletion state machine.
//
// Everything in this package is pure state and functions. No I/O
// happens here; the UI layer drives these values and performs the
// remote calls.
//
// # Save Planning
//
// A save begins with PlanSave, which decides whether re-authentication
// is required (local password auth configured and the email changed or a
// new password was typed) and whether an avatar upload must precede the
// profile save. BuildPayload then consults the policy-driven rule table
// to produce the diff: policy-gated fields are sent whenever their flag
// allows them, the email is additionally value-gated, and ungated fields
// (statusType, bio, url) are always included.
//
// # Deletion
//
// Flow models the two-step deletion protocol. The credential captured at
// the prompt is hashed immediately and retained only inside the Flow
// value for the lifetime of the attempt; a forced retry after an owner
// conflict reuses the retained hash without re-prompting, and the hash
// is discarded on completion, failure, or cancel.
package profile
