package singleton

import (
	"fmt"
	"sync"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
)

// Arena holds the live trackers, one per launcher id. It serializes
// mutation so concurrent observers of the same ledger feed cannot
// interleave advances on one tracker.
type Arena struct {
	mu       sync.Mutex
	trackers map[puzzle.Hash]*Tracker
}

func NewArena() *Arena {
	return &Arena{trackers: make(map[puzzle.Hash]*Tracker)}
}

func (a *Arena) Add(t *Tracker) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.trackers[t.launcherID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTracker, t.launcherID)
	}
	a.trackers[t.launcherID] = t
	return nil
}

func (a *Arena) Get(launcherID puzzle.Hash) *Tracker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.trackers[launcherID]
}

func (a *Arena) Remove(launcherID puzzle.Hash) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.trackers, launcherID)
}

// AdvanceAll feeds the spend batch to every tracker and returns the
// total number of state changes. The first failure aborts the sweep.
func (a *Arena) AdvanceAll(spends []*indexer.Spend) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	changes := 0
	for id, t := range a.trackers {
		n, err := t.Advance(spends)
		if err != nil {
			return changes, fmt.Errorf("advancing %s: %w", id, err)
		}
		changes += n
	}
	return changes, nil
}
