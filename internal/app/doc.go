// Package app provides the orchestration layer for the preen application.
//
// # Overview
//
// This package wires together configuration, polling, state management,
// and the UI to create the complete preen experience. It serves as the
// composition root where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load preen configuration (file, environment, flags)
//  2. Initialize the HTTP client for the Roost account API
//  3. Create the shared state.Store for UI and poller coordination
//  4. Perform the initial profile + settings fetch (fatal on failure)
//  5. Start the background settings poller
//  6. Hand control to the Bubble Tea UI
//
// The poller keeps the administrator settings bag fresh so editability
// changes made by an administrator show up without restarting the
// client. It backs off exponentially while the server is unreachable.
package app
