package state

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/roostlabs/preen/internal/roost"
)

// Snapshot represents the latest server data available to the UI: the
// user's profile and the administrator settings bag.
type Snapshot struct {
	Profile             roost.Profile
	HasProfile          bool
	Settings            roost.Settings
	HasSettings         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(profile *roost.Profile, settings *roost.Settings, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if profile != nil {
		s.snapshot.Profile = cloneProfile(*profile)
		s.snapshot.HasProfile = true
	} else {
		s.snapshot.HasProfile = false
	}
	if settings != nil {
		s.snapshot.Settings = *settings
		s.snapshot.HasSettings = true
	} else {
		s.snapshot.HasSettings = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Profile = cloneProfile(s.snapshot.Profile)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneProfile(p roost.Profile) roost.Profile {
	dup := p
	dup.CustomFields = maps.Clone(p.CustomFields)
	return dup
}
