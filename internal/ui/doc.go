// Package ui provides the Bubble Tea terminal interface for preen.
//
// # Architecture Overview
//
// The UI is a single account-settings form over the profile draft held
// in internal/profile, plus a shared modal slot for confirmations. The
// Model owns all mutable UI state; every remote operation runs as a
// tea.Cmd and reports back through a typed message, so the update loop
// is the only writer.
//
// # Package Structure
//
// The package is organized into focused modules:
//
//   - app.go: Root model, message routing, and the main Run function
//   - form.go: Form rows, focus movement, and field rendering
//   - prompt.go: The shared confirmation modal (credential and owner-conflict variants)
//   - actions.go: Save, delete, revoke and avatar commands plus their result handlers
//   - status.go: Toast line and footer rendering
//   - keys.go: Key bindings
//   - theme.go: Color palettes and Lipgloss styles
//   - help.go: Help overlay
//
// # The Modal Slot
//
// Exactly one prompt may be visible at a time. The active prompt is a
// tagged value (none, credential, owner conflict) rather than a stack
// or queue; a request to open a prompt while one is showing is rejected
// and surfaced on the status line. Each credential prompt carries a
// purpose tag so its confirmation is routed by a switch in the update
// loop, never by a stored closure.
//
// # In-Flight Guards
//
// Save, account deletion, and session revocation each carry their own
// boolean guard. A guard suppresses re-triggering its own action while
// the remote call is in flight; the three operations are otherwise
// independent. In-flight remote calls are never cancelled.
package ui
