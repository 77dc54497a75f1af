package hsmsnap

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live machine instances under opaque handles so a host
// can enumerate and snapshot every machine it runs, typically when
// assembling a log line or an assertion report. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

type registryEntry struct {
	machine   *Machine
	projector *Projector
}

var (
	// ErrNotFound is returned for a handle that names no registered
	// machine.
	ErrNotFound = errors.New("machine not found")

	// ErrNoProjector is returned by Snapshot for a machine registered
	// without a projector.
	ErrNoProjector = errors.New("machine registered without a projector")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]registryEntry{}}
}

// Add registers m and returns its handle. Handles are time-ordered UUIDs,
// so List returns machines in registration order. p may be nil for
// machines that are enumerated but never snapshot.
func (r *Registry) Add(m *Machine, p *Projector) string {
	id := uuid.Must(uuid.NewV7()).String()
	r.mu.Lock()
	r.entries[id] = registryEntry{machine: m, projector: p}
	r.mu.Unlock()
	return id
}

// Get returns the machine registered under id.
func (r *Registry) Get(id string) (*Machine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.machine, nil
}

// Remove drops the machine registered under id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

// List returns all handles, sorted. Time-ordered handles sort into
// registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered machines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot projects the machine registered under id into its snapshot
// word.
func (r *Registry) Snapshot(id string) (uint64, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return 0, ErrNotFound
	}
	if e.projector == nil {
		return 0, ErrNoProjector
	}
	return e.projector.Project(e.machine)
}

// Each calls fn for every registered machine in handle order. fn observes
// the membership as of the call; machines added or removed while Each runs
// may or may not be seen.
func (r *Registry) Each(fn func(id string, m *Machine)) {
	r.mu.RLock()
	snapshot := make(map[string]*Machine, len(r.entries))
	for id, e := range r.entries {
		snapshot[id] = e.machine
	}
	r.mu.RUnlock()

	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fn(id, snapshot[id])
	}
}
