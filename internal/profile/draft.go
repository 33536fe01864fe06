package profile

import (
	"maps"

	"github.com/roostlabs/preen/internal/roost"
)

// Field names a single editable field of the draft.
type Field int

const (
	FieldRealname Field = iota
	FieldEmail
	FieldUsername
	FieldPassword
	FieldPasswordConfirm
	FieldAvatar
	FieldURL
	FieldStatusText
	FieldStatusType
	FieldBio
)

// Draft is the in-progress, user-editable copy of the profile fields.
// Avatar holds a pending image data URI, or empty when no change is
// staged; it never holds the server-side avatar URL.
type Draft struct {
	Realname        string
	Email           string
	Username        string
	Password        string
	PasswordConfirm string
	Avatar          string
	URL             string
	StatusText      string
	StatusType      string
	Bio             string
	CustomFields    map[string]string
}

// FromProfile seeds a draft from the server profile. Password fields and
// the pending avatar start empty.
func FromProfile(p roost.Profile) Draft {
	return Draft{
		Realname:     p.Realname,
		Email:        p.Email,
		Username:     p.Username,
		URL:          p.URL,
		StatusText:   p.StatusText,
		StatusType:   p.StatusType,
		Bio:          p.Bio,
		CustomFields: maps.Clone(p.CustomFields),
	}
}

// clone returns a copy of the draft with an independent custom field map.
func (d Draft) clone() Draft {
	dup := d
	dup.CustomFields = maps.Clone(d.CustomFields)
	return dup
}

// equal reports value equality, deep for custom fields.
func (d Draft) equal(other Draft) bool {
	if d.Realname != other.Realname ||
		d.Email != other.Email ||
		d.Username != other.Username ||
		d.Password != other.Password ||
		d.PasswordConfirm != other.PasswordConfirm ||
		d.Avatar != other.Avatar ||
		d.URL != other.URL ||
		d.StatusText != other.StatusText ||
		d.StatusType != other.StatusType ||
		d.Bio != other.Bio {
		return false
	}
	return maps.Equal(d.CustomFields, other.CustomFields)
}

// Store holds the edit buffer and the immutable snapshot it diffs
// against. The zero value is usable but empty; NewStore seeds both sides
// from the same snapshot.
type Store struct {
	draft    Draft
	snapshot Draft
}

// NewStore creates a store whose draft and snapshot both hold the given
// profile state.
func NewStore(snapshot Draft) *Store {
	return &Store{draft: snapshot.clone(), snapshot: snapshot.clone()}
}

// Get returns a copy of the current draft.
func (s *Store) Get() Draft {
	return s.draft.clone()
}

// Snapshot returns a copy of the diff baseline.
func (s *Store) Snapshot() Draft {
	return s.snapshot.clone()
}

// Set updates one field of the draft.
func (s *Store) Set(field Field, value string) {
	switch field {
	case FieldRealname:
		s.draft.Realname = value
	case FieldEmail:
		s.draft.Email = value
	case FieldUsername:
		s.draft.Username = value
	case FieldPassword:
		s.draft.Password = value
	case FieldPasswordConfirm:
		s.draft.PasswordConfirm = value
	case FieldAvatar:
		s.draft.Avatar = value
	case FieldURL:
		s.draft.URL = value
	case FieldStatusText:
		s.draft.StatusText = value
	case FieldStatusType:
		s.draft.StatusType = value
	case FieldBio:
		s.draft.Bio = value
	}
}

// SetCustomField updates one custom field value.
func (s *Store) SetCustomField(key, value string) {
	if s.draft.CustomFields == nil {
		s.draft.CustomFields = make(map[string]string)
	}
	s.draft.CustomFields[key] = value
}

// IsDirty reports whether any field differs from the snapshot.
func (s *Store) IsDirty() bool {
	return !s.draft.equal(s.snapshot)
}

// Reset replaces both draft and snapshot atomically. Used after a
// successful save with the freshly fetched profile.
func (s *Store) Reset(snapshot Draft) {
	s.draft = snapshot.clone()
	s.snapshot = snapshot.clone()
}
