// Package state holds the shared session snapshot: the last profile and
// administrator settings fetched from the server.
//
// The background poller writes into the Store; the UI reads snapshots
// from it. Both sides only ever see copies, so neither can mutate the
// other's view. The administrator settings are treated as an
// externally-updated value bag: the UI re-derives its editability
// policy from each snapshot and never writes settings back.
//
// On fetch failure the previous data is kept and the error recorded;
// two consecutive failures mark the session offline.
package state
