package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/vibeworks/forge/internal/errors"
)

// Registry tracks every project for the lifetime of the process. Status
// reads return deep snapshots; mutation goes through Update so the owning
// pipeline goroutine is the single writer for a project's fields.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	project *Project
	cancel  context.CancelFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Put registers a new project with the cancel func of its pipeline context.
func (r *Registry) Put(p *Project, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[p.ID] = &entry{project: p, cancel: cancel}
}

// Snapshot returns a deep copy of the project, or ErrNotFound.
func (r *Registry) Snapshot(id string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return e.project.Clone(), nil
}

// Update applies fn to the project under the registry lock. It is a no-op
// for an id that has been deleted, so a pipeline racing a delete cannot
// resurrect the entry.
func (r *Registry) Update(id string, fn func(*Project)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	fn(e.project)
	e.project.UpdatedAt = time.Now()
}

// Delete removes the project and cancels its pipeline if still running.
// Returns ErrNotFound for an unknown id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if e.cancel != nil {
		e.cancel()
	}
	delete(r.entries, id)
	return nil
}

// List returns snapshots of all projects, newest first.
func (r *Registry) List() []*Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Project, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.project.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of tracked projects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
