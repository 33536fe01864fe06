// Package roost provides an HTTP client for the Roost account API.
//
// # Overview
//
// This package defines the API client preen uses to talk to a Roost
// workspace server on behalf of the authenticated user. It handles HTTP
// communication, JSON serialization, and type-safe representation of the
// profile, the administrator settings bag, and structured API errors.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the Roost API schema
//   - errors.go: Structured API errors, including the owner-conflict shape
//
// # Client Usage
//
// Create a client using the server URL and bearer token from configuration:
//
//	client, err := roost.NewClient("https://roost.example.com", token)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	profile, err := client.FetchProfile(ctx)
//	if err != nil {
//		log.Printf("profile fetch failed: %v", err)
//	}
//
// # Error Semantics
//
// Any response with a status code of 400 or above is converted into an
// *APIError. When the server reports that the user is the last owner of
// one or more resources, the error carries Code "owner-conflict" and a
// populated Conflict payload; AsOwnerConflict extracts it. All other
// failures are generic and carry the server's message verbatim.
package roost
