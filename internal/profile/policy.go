package profile

import (
	"fmt"
	"regexp"

	"github.com/roostlabs/preen/internal/roost"
)

// Policy captures which fields the administrator allows the user to
// change. It is derived from the settings bag per snapshot and carries
// no hidden state.
type Policy struct {
	CanChangeRealname      bool
	CanChangeEmail         bool
	CanChangePassword      bool
	CanChangeUsername      bool
	CanChangeAvatar        bool
	CanChangeStatusMessage bool
	CanDeleteOwnAccount    bool
	RequireName            bool
	UsernamePattern        *regexp.Regexp
}

// DerivePolicy computes the editability policy from administrator
// settings. Directory-managed deployments never permit local username
// edits regardless of the global setting. An invalid username validation
// expression is a configuration error and is returned, not swallowed.
func DerivePolicy(s roost.Settings) (Policy, error) {
	p := Policy{
		CanChangeRealname:      s.AllowRealnameChange,
		CanChangeEmail:         s.AllowEmailChange,
		CanChangePassword:      s.AllowPasswordChange,
		CanChangeUsername:      s.AllowUsernameChange && !s.DirectoryEnabled,
		CanChangeAvatar:        s.AllowAvatarChange,
		CanChangeStatusMessage: s.AllowStatusMessageChange,
		CanDeleteOwnAccount:    s.AllowDeleteOwnAccount,
		RequireName:            s.RequireName,
	}
	if s.UsernameValidation != "" {
		pattern, err := regexp.Compile("^(" + s.UsernameValidation + ")$")
		if err != nil {
			return Policy{}, fmt.Errorf("compile username validation %q: %w", s.UsernameValidation, err)
		}
		p.UsernamePattern = pattern
	}
	return p, nil
}

// ValidUsername reports whether the candidate matches the administrator
// supplied pattern. A policy without a pattern accepts everything.
func (p Policy) ValidUsername(candidate string) bool {
	if p.UsernamePattern == nil {
		return true
	}
	return p.UsernamePattern.MatchString(candidate)
}

// ReauthRequired reports whether the pending change needs password
// confirmation before it may be saved: only accounts with local password
// auth are gated, and only when the email differs from the snapshot or a
// new password was typed. Changing the username alone never triggers it.
func ReauthRequired(draft, snapshot Draft, hasLocalPassword bool) bool {
	if !hasLocalPassword {
		return false
	}
	return draft.Email != snapshot.Email || draft.Password != ""
}
