package profile

import "maps"

// inclusionMode decides when a field enters the diff payload.
type inclusionMode int

const (
	// alwaysIfAllowed resubmits the field whenever the policy permits
	// changing it, even when the value is unchanged, so administrators
	// can always force-resubmit editable fields.
	alwaysIfAllowed inclusionMode = iota
	// onlyIfChanged additionally requires the value to differ from the
	// snapshot. Identity-changing fields use this so an unchanged value
	// never looks like a change request.
	onlyIfChanged
	// whenSet includes the field only when the draft holds a non-empty
	// value. Used for the new password, where blank means "keep".
	whenSet
	// always includes the field unconditionally; these carry no gating
	// policy flag.
	always
)

// fieldRule maps one wire field to its inclusion decision.
type fieldRule struct {
	name    string
	mode    inclusionMode
	allowed func(Policy) bool
	value   func(Draft) string
	was     func(Draft) string
}

// diffRules is the complete inclusion table for the profile save payload.
// The avatar is absent on purpose: avatar changes go through a separate
// upload call before the save.
var diffRules = []fieldRule{
	{
		name:    "realName",
		mode:    alwaysIfAllowed,
		allowed: func(p Policy) bool { return p.CanChangeRealname },
		value:   func(d Draft) string { return d.Realname },
	},
	{
		name:    "email",
		mode:    onlyIfChanged,
		allowed: func(p Policy) bool { return p.CanChangeEmail },
		value:   func(d Draft) string { return d.Email },
		was:     func(d Draft) string { return d.Email },
	},
	{
		name:    "username",
		mode:    alwaysIfAllowed,
		allowed: func(p Policy) bool { return p.CanChangeUsername },
		value:   func(d Draft) string { return d.Username },
	},
	{
		name:    "newPassword",
		mode:    whenSet,
		allowed: func(p Policy) bool { return p.CanChangePassword },
		value:   func(d Draft) string { return d.Password },
	},
	{
		name:    "statusText",
		mode:    alwaysIfAllowed,
		allowed: func(p Policy) bool { return p.CanChangeStatusMessage },
		value:   func(d Draft) string { return d.StatusText },
	},
	{
		name:  "statusType",
		mode:  always,
		value: func(d Draft) string { return d.StatusType },
	},
	{
		name:  "bio",
		mode:  always,
		value: func(d Draft) string { return d.Bio },
	},
	{
		name:  "url",
		mode:  always,
		value: func(d Draft) string { return d.URL },
	},
}

// BuildDiff walks the rule table and returns the save payload fields.
// Fields governed by a policy flag are dropped when the flag is off;
// the email is additionally dropped when its value is unchanged.
func BuildDiff(draft, snapshot Draft, policy Policy) map[string]any {
	data := make(map[string]any, len(diffRules))
	for _, rule := range diffRules {
		if rule.allowed != nil && !rule.allowed(policy) {
			continue
		}
		value := rule.value(draft)
		switch rule.mode {
		case onlyIfChanged:
			if value == rule.was(snapshot) {
				continue
			}
		case whenSet:
			if value == "" {
				continue
			}
		}
		data[rule.name] = value
	}
	return data
}

// Payload is the complete save request: the diff fields plus the custom
// field values, which are always sent verbatim.
type Payload struct {
	Data         map[string]any
	CustomFields map[string]string
}

// BuildPayload assembles the save request. When a credential was
// captured during re-authentication it is hashed and included as
// typedPassword; it is never transmitted in clear text.
func BuildPayload(draft, snapshot Draft, policy Policy, credential string) Payload {
	data := BuildDiff(draft, snapshot, policy)
	if credential != "" {
		data["typedPassword"] = HashCredential(credential)
	}
	return Payload{
		Data:         data,
		CustomFields: maps.Clone(draft.CustomFields),
	}
}
