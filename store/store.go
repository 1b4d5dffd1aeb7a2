// Package store persists the height-indexed spend log per logical
// owner, with idempotent appends, strict height monotonicity and
// reorg-driven rollback.
package store

import (
	"errors"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
)

var (
	// ErrHeightConflict: the coin is already recorded for this owner at
	// a different height. Recoverable via Rollback before re-append.
	ErrHeightConflict = errors.New("spend already recorded at a different height")
	// ErrNonMonotonicHeight: the append is below the owner's peak and
	// does not match an existing record.
	ErrNonMonotonicHeight = errors.New("height below owner's peak")
)

// Entry is one logged spend and the height it confirmed at.
type Entry struct {
	Height uint32
	Spend  *indexer.Spend
}

// Log is the ledger log store. All mutations for one owner are atomic
// with respect to readers.
type Log interface {
	// AddSpend is idempotent for an identical (owner, coin, height)
	// triple, ErrHeightConflict when the coin exists at another height,
	// and ErrNonMonotonicHeight when height is below the owner's peak.
	AddSpend(ownerID int32, spend *indexer.Spend, height uint32) error
	// SpendsForOwner returns entries ordered by height, then insertion.
	SpendsForOwner(ownerID int32) ([]Entry, error)
	// Exists reports the recorded height for (owner, coin), if any.
	Exists(ownerID int32, coinID puzzle.Hash) (uint32, bool, error)
	// Rollback removes entries above target and recomputes the peak.
	Rollback(target uint32, ownerID int32) error
	// DeleteOwner removes the owner's whole log; idempotent.
	DeleteOwner(ownerID int32) error
}
