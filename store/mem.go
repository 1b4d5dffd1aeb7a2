package store

import (
	"fmt"
	"sort"
	"sync"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
)

// MemStore is the in-memory Log, used for tests and for callers that
// rebuild state from the chain on every start.
type MemStore struct {
	mu    sync.RWMutex
	rows  map[int32][]memRow
	peaks map[int32]uint32
}

type memRow struct {
	coinID puzzle.Hash
	height uint32
	spend  *indexer.Spend
}

func NewMemStore() *MemStore {
	return &MemStore{
		rows:  make(map[int32][]memRow),
		peaks: make(map[int32]uint32),
	}
}

func (s *MemStore) AddSpend(ownerID int32, spend *indexer.Spend, height uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coinID := spend.Coin.ID()
	for _, row := range s.rows[ownerID] {
		if row.coinID == coinID {
			if row.height == height {
				return nil
			}
			return fmt.Errorf("%w: coin %s at %d, append at %d", ErrHeightConflict, coinID, row.height, height)
		}
	}
	if peak, ok := s.peaks[ownerID]; ok && height < peak {
		return fmt.Errorf("%w: peak %d, append at %d", ErrNonMonotonicHeight, peak, height)
	}
	s.rows[ownerID] = append(s.rows[ownerID], memRow{coinID: coinID, height: height, spend: spend})
	if peak, ok := s.peaks[ownerID]; !ok || height > peak {
		s.peaks[ownerID] = height
	}
	return nil
}

func (s *MemStore) SpendsForOwner(ownerID int32) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.rows[ownerID]
	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{Height: row.height, Spend: row.spend}
	}
	// stable: insertion order is the tiebreak within a height
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Height < entries[j].Height
	})
	return entries, nil
}

func (s *MemStore) Exists(ownerID int32, coinID puzzle.Hash) (uint32, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.rows[ownerID] {
		if row.coinID == coinID {
			return row.height, true, nil
		}
	}
	return 0, false, nil
}

func (s *MemStore) Rollback(target uint32, ownerID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[ownerID][:0]
	for _, row := range s.rows[ownerID] {
		if row.height <= target {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		delete(s.rows, ownerID)
		delete(s.peaks, ownerID)
		return nil
	}
	s.rows[ownerID] = kept
	peak := kept[0].height
	for _, row := range kept[1:] {
		if row.height > peak {
			peak = row.height
		}
	}
	s.peaks[ownerID] = peak
	return nil
}

func (s *MemStore) DeleteOwner(ownerID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, ownerID)
	delete(s.peaks, ownerID)
	return nil
}
