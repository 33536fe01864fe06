package roost

import (
	"errors"
	"fmt"
)

// CodeOwnerConflict identifies the structured deletion conflict the server
// reports when the user is the sole owner of one or more resources.
const CodeOwnerConflict = "owner-conflict"

// OwnerConflict carries the server's last-owner details.
type OwnerConflict struct {
	ShouldChangeOwner bool `json:"shouldChangeOwner"`
	ShouldBeRemoved   bool `json:"shouldBeRemoved"`
}

// APIError is a structured error returned by the Roost API.
type APIError struct {
	StatusCode int            `json:"-"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Conflict   *OwnerConflict `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %s (status %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d", e.StatusCode)
}

// AsOwnerConflict reports whether err is an owner-conflict API error and
// returns the conflict payload when it is.
func AsOwnerConflict(err error) (OwnerConflict, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return OwnerConflict{}, false
	}
	if apiErr.Code != CodeOwnerConflict || apiErr.Conflict == nil {
		return OwnerConflict{}, false
	}
	return *apiErr.Conflict, true
}
