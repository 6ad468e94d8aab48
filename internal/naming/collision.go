package naming

import (
	"fmt"
	"sync"
)

// CollisionResolver tracks output stems claimed by sources and resolves
// duplicates by appending " - dupN" suffixes. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // stem → source that owns it
	counters map[string]int    // requested stem → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final stem for source. If requested is unclaimed (or
// already owned by source) it is returned as-is; otherwise a " - dupN"
// variant is generated. Two clips named intro.mp4 and intro.mov therefore
// map to "intro" and "intro - dup1".
func (cr *CollisionResolver) Resolve(source, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requested]
	if !exists || owner == source {
		cr.owners[requested] = source
		return requested
	}

	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := fmt.Sprintf("%s - dup%d", requested, counter)
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == source {
			cr.counters[requested] = counter + 1
			cr.owners[candidate] = source
			return candidate
		}
		counter++
	}
}
