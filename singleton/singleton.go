// Package singleton tracks the identity of one logical object across
// the coins that successively embody it. Each spend destroys the
// current coin; the unique odd-amount child continues the lineage.
package singleton

import (
	"errors"

	"github.com/shruggr/singleton-indexer/puzzle"
)

var (
	ErrMalformedLaunch  = errors.New("malformed launch spend")
	ErrBrokenLineage    = errors.New("broken singleton lineage")
	ErrMelted           = errors.New("singleton is melted")
	ErrUnknownPuzzle    = errors.New("no puzzle reveal for current coin")
	ErrDuplicateTracker = errors.New("tracker already exists for launcher")
)

// Template is the singleton top layer plus its launcher. The full
// puzzle for a coin is the mod curried with the singleton struct
// (mod_hash . (launcher_id . launcher_puzzle_hash)) and an inner
// puzzle.
type Template struct {
	Mod          *puzzle.Program
	ModHash      puzzle.Hash
	Launcher     *puzzle.Program
	LauncherHash puzzle.Hash
}

func NewTemplate(mod, launcher *puzzle.Program) *Template {
	return &Template{
		Mod:          mod,
		ModHash:      mod.TreeHash(),
		Launcher:     launcher,
		LauncherHash: launcher.TreeHash(),
	}
}

func (t *Template) Struct(launcherID puzzle.Hash) *puzzle.Program {
	return puzzle.Pair(
		puzzle.HashAtom(t.ModHash),
		puzzle.Pair(puzzle.HashAtom(launcherID), puzzle.HashAtom(t.LauncherHash)),
	)
}

func (t *Template) Puzzle(launcherID puzzle.Hash, inner *puzzle.Program) *puzzle.Program {
	return puzzle.Curry(t.Mod, t.Struct(launcherID), inner)
}

// InnerPuzzle recovers the inner layer from a full singleton puzzle;
// ok is false when the program is not a curry of this template's mod.
func (t *Template) InnerPuzzle(full *puzzle.Program) (*puzzle.Program, bool) {
	mod, args, ok := puzzle.Uncurry(full)
	if !ok || len(args) != 2 || mod.TreeHash() != t.ModHash {
		return nil, false
	}
	return args[1], true
}

// LineageProof ties a coin to the parent structure its puzzle committed
// to. The launcher form omits InnerPuzzleHash; the continuing form
// carries the parent's inner puzzle hash recovered by uncurry.
type LineageProof struct {
	ParentID        puzzle.Hash
	InnerPuzzleHash *puzzle.Hash
	Amount          uint64
}

func (lp LineageProof) ToProgram() *puzzle.Program {
	if lp.InnerPuzzleHash == nil {
		return puzzle.List(puzzle.HashAtom(lp.ParentID), puzzle.Uint(lp.Amount))
	}
	return puzzle.List(
		puzzle.HashAtom(lp.ParentID),
		puzzle.HashAtom(*lp.InnerPuzzleHash),
		puzzle.Uint(lp.Amount),
	)
}
