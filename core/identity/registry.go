package identity

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrRetired is returned when the surviving id of an alias has itself been
	// retired, which is what a reverse merge looks like.
	ErrRetired = errors.New("surviving id is retired")
	// ErrConflict is returned when a retired id is re-pointed to a different
	// survivor.
	ErrConflict = errors.New("id is already aliased to another survivor")
	// ErrSelfAlias is returned when an id is aliased to itself.
	ErrSelfAlias = errors.New("cannot alias an id to itself")
)

// Registry maps retired ids to their survivors. Ids are comparable keys of
// one resource kind.
type Registry[K comparable] struct {
	mu      sync.RWMutex
	aliases map[K]K
}

// NewRegistry creates an empty registry.
func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{aliases: make(map[K]K)}
}

// Alias records that oldID now refers to newID. Repeating an existing alias
// is a no-op.
func (r *Registry[K]) Alias(oldID, newID K) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.check(oldID, newID)
	if err != nil || exists {
		return err
	}
	r.aliases[oldID] = newID
	return nil
}

// Check reports the error Alias would return, without recording anything.
func (r *Registry[K]) Check(oldID, newID K) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, err := r.check(oldID, newID)
	return err
}

func (r *Registry[K]) check(oldID, newID K) (bool, error) {
	if oldID == newID {
		return false, ErrSelfAlias
	}
	if current, ok := r.aliases[oldID]; ok {
		if current == newID {
			return true, nil
		}
		return false, fmt.Errorf("%w: %v -> %v", ErrConflict, oldID, current)
	}
	if _, ok := r.aliases[newID]; ok {
		return false, fmt.Errorf("%w: %v", ErrRetired, newID)
	}
	return false, nil
}

// Resolve follows the alias chain from id and returns the surviving id. An id
// that was never aliased resolves to itself.
func (r *Registry[K]) Resolve(id K) K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for {
		next, ok := r.aliases[id]
		if !ok {
			return id
		}
		id = next
	}
}

// Retired reports whether id has been aliased to another id.
func (r *Registry[K]) Retired(id K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.aliases[id]
	return ok
}

// Len returns the number of aliases.
func (r *Registry[K]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.aliases)
}
