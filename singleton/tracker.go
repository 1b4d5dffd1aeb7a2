package singleton

import (
	"fmt"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
	"github.com/shruggr/singleton-indexer/solver"
)

// Tracker follows one singleton. It is advanced by exactly one caller
// at a time; the Arena provides that serialization when trackers are
// shared.
type Tracker struct {
	template *Template
	ev       puzzle.Evaluator
	db       *puzzle.DB

	launcherID puzzle.Hash
	metadata   *puzzle.Program
	current    indexer.Coin
	proof      LineageProof
	melted     bool
}

// Create classifies a launch spend and returns an active tracker. The
// spent coin must sit at the launcher puzzle hash; its solution names
// the destination commitment, the amount and the launch metadata, and
// the resulting child must be odd-valued.
func Create(ev puzzle.Evaluator, db *puzzle.DB, template *Template, launch *indexer.Spend) (*Tracker, error) {
	if launch.Coin.PuzzleHash != template.LauncherHash {
		return nil, fmt.Errorf("%w: coin is not at the launcher puzzle hash", ErrMalformedLaunch)
	}
	fields, ok := launch.Solution.AsList()
	if !ok || len(fields) < 3 {
		return nil, fmt.Errorf("%w: launcher solution is not (destination amount metadata)", ErrMalformedLaunch)
	}
	destBytes, ok := fields[0].AtomBytes()
	if !ok {
		return nil, fmt.Errorf("%w: destination is not an atom", ErrMalformedLaunch)
	}
	dest, ok := puzzle.HashFromSlice(destBytes)
	if !ok {
		return nil, fmt.Errorf("%w: destination is %d bytes", ErrMalformedLaunch, len(destBytes))
	}
	amount, ok := fields[1].AsInt()
	if !ok || amount < 0 {
		return nil, fmt.Errorf("%w: bad launch amount", ErrMalformedLaunch)
	}
	if amount&1 == 0 {
		return nil, fmt.Errorf("%w: no odd-amount child", ErrMalformedLaunch)
	}
	launcherID := launch.Coin.ID()
	return &Tracker{
		template:   template,
		ev:         ev,
		db:         db,
		launcherID: launcherID,
		metadata:   fields[2],
		current: indexer.Coin{
			ParentID:   launcherID,
			PuzzleHash: dest,
			Amount:     uint64(amount),
		},
		proof: LineageProof{
			ParentID: launch.Coin.ParentID,
			Amount:   launch.Coin.Amount,
		},
	}, nil
}

// Advance scans spends for one consuming the current coin and folds it
// into the tracker. It returns the number of state changes applied: 1
// when the lineage moved to an odd child, 0 when no relevant spend was
// seen or the singleton melted. A relevant spend whose reveal is not a
// curry of the singleton mod is ErrBrokenLineage.
func (t *Tracker) Advance(spends []*indexer.Spend) (int, error) {
	if t.melted {
		return 0, nil
	}
	currentID := t.current.ID()
	for _, s := range spends {
		if s.Coin.ID() != currentID {
			continue
		}
		inner, ok := t.template.InnerPuzzle(s.PuzzleReveal)
		if !ok {
			return 0, fmt.Errorf("%w: reveal for %s is not a singleton puzzle", ErrBrokenLineage, currentID)
		}
		children, err := indexer.Additions(t.ev, s)
		if err != nil {
			return 0, err
		}
		innerHash := inner.TreeHash()
		for _, child := range children {
			if child.Amount&1 == 0 {
				continue
			}
			t.proof = LineageProof{
				ParentID:        t.current.ParentID,
				InnerPuzzleHash: &innerHash,
				Amount:          child.Amount,
			}
			t.current = child
			return 1, nil
		}
		t.melted = true
		return 0, nil
	}
	return 0, nil
}

// BuildSpend solves the current coin's reveal through the registry,
// injecting the lineage proof and amount every singleton layer needs.
func (t *Tracker) BuildSpend(reg *solver.Registry, params solver.Params) (*indexer.Spend, error) {
	if t.melted {
		return nil, ErrMelted
	}
	reveal := t.db.Get(t.current.PuzzleHash)
	if reveal == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPuzzle, t.current.PuzzleHash)
	}
	solution, err := reg.Solve(t.db, reveal, params.With(solver.Params{
		"lineage_proof": t.proof.ToProgram(),
		"coin_amount":   t.current.Amount,
	}))
	if err != nil {
		return nil, err
	}
	return &indexer.Spend{Coin: t.current, PuzzleReveal: reveal, Solution: solution}, nil
}

func (t *Tracker) LauncherID() puzzle.Hash { return t.launcherID }

func (t *Tracker) LauncherPuzzleHash() puzzle.Hash { return t.template.LauncherHash }

func (t *Tracker) Coin() indexer.Coin { return t.current }

func (t *Tracker) LineageProof() LineageProof { return t.proof }

func (t *Tracker) Metadata() *puzzle.Program { return t.metadata }

func (t *Tracker) Melted() bool { return t.melted }
