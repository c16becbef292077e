package directory

import (
	"context"
	"errors"
	"sync"
)

// ErrNoProfile is returned when the directory has no entry for the id.
var ErrNoProfile = errors.New("directory: no profile")

// MemoryDirectory is an in-memory Directory for local development and tests.
type MemoryDirectory struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemory creates an empty in-memory directory.
func NewMemory() *MemoryDirectory {
	return &MemoryDirectory{profiles: make(map[string]Profile)}
}

// Set registers a profile.
func (d *MemoryDirectory) Set(personID string, p Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[personID] = p
}

// Lookup returns the registered profile or ErrNoProfile.
func (d *MemoryDirectory) Lookup(_ context.Context, personID string) (Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.profiles[personID]
	if !ok {
		return Profile{}, ErrNoProfile
	}
	return p, nil
}
