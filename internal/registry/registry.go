// internal/registry/registry.go

// Package registry holds the authoritative in-memory catalog of activities
// and their rosters. Every read-modify-write runs under one mutex, so the
// membership and capacity checks and the mutation they guard are a single
// atomic step even when the HTTP layer dispatches concurrently.
package registry

import (
	"sort"
	"sync"

	apperrors "activities-service/internal/common/errors"
	"activities-service/internal/common/metrics"
	"activities-service/pkg/catalog"
)

// Registry stores activities keyed by name.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*Activity
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		activities: make(map[string]*Activity),
	}
}

// NewFromCatalog creates a registry seeded from a validated catalog.
func NewFromCatalog(cat *catalog.Catalog) (*Registry, error) {
	r := New()
	for _, entry := range cat.Activities {
		if _, exists := r.activities[entry.Name]; exists {
			return nil, apperrors.NewCatalogValidationFailedError(
				"duplicate activity name: " + entry.Name)
		}
		participants := make([]string, len(entry.Participants))
		copy(participants, entry.Participants)
		r.activities[entry.Name] = &Activity{
			Name:            entry.Name,
			Description:     entry.Description,
			Schedule:        entry.Schedule,
			MaxParticipants: entry.MaxParticipants,
			Participants:    participants,
		}
		metrics.RosterSize.WithLabelValues(entry.Name).Set(float64(len(participants)))
	}
	return r, nil
}

// List returns a snapshot of every activity keyed by name. The snapshot is
// deep-copied; callers can serialize it without holding the lock.
func (r *Registry) List() map[string]Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Activity, len(r.activities))
	for name, act := range r.activities {
		out[name] = act.clone()
	}
	return out
}

// Get returns a snapshot of one activity.
func (r *Registry) Get(name string) (Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	act, ok := r.activities[name]
	if !ok {
		return Activity{}, apperrors.NewActivityNotFoundError(name)
	}
	return act.clone(), nil
}

// Names returns the activity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.activities))
	for name := range r.activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Signup enrolls a participant in the named activity. Validation order:
// existence, duplicate membership, capacity. A rejected signup leaves the
// roster untouched.
func (r *Registry) Signup(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	act, ok := r.activities[name]
	if !ok {
		return apperrors.NewActivityNotFoundError(name)
	}
	if act.enrolled(email) {
		return apperrors.NewAlreadySignedUpError(email, name)
	}
	if len(act.Participants) >= act.MaxParticipants {
		return apperrors.NewActivityFullError(name, act.MaxParticipants)
	}

	act.Participants = append(act.Participants, email)
	metrics.RosterSize.WithLabelValues(name).Set(float64(len(act.Participants)))
	return nil
}

// Unregister removes a participant from the named activity. Validation
// order: existence, membership. A rejected unregister leaves the roster
// untouched.
func (r *Registry) Unregister(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	act, ok := r.activities[name]
	if !ok {
		return apperrors.NewActivityNotFoundError(name)
	}

	for i, p := range act.Participants {
		if p == email {
			act.Participants = append(act.Participants[:i], act.Participants[i+1:]...)
			metrics.RosterSize.WithLabelValues(name).Set(float64(len(act.Participants)))
			return nil
		}
	}

	return apperrors.NewNotRegisteredError(email, name)
}
