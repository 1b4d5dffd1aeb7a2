package singleton

import (
	"crypto/sha256"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
	"github.com/shruggr/singleton-indexer/solver"
)

// Launch builds the spend of a fresh launcher coin whose child is the
// singleton's eve coin. It returns the launch spend and the conditions
// the funding parent must emit: creating the launcher coin, and
// asserting the launcher's announcement of its destination so the
// launch cannot be redirected.
func Launch(
	reg *solver.Registry,
	db *puzzle.DB,
	template *Template,
	parentID puzzle.Hash,
	amount uint64,
	innerPuzzle *puzzle.Program,
	metadata *puzzle.Program,
) (*indexer.Spend, []*puzzle.Program, error) {
	launcherCoin := indexer.Coin{
		ParentID:   parentID,
		PuzzleHash: template.LauncherHash,
		Amount:     amount,
	}
	launcherID := launcherCoin.ID()
	fullPuzzle := template.Puzzle(launcherID, innerPuzzle)
	db.Add(fullPuzzle)
	db.Add(template.Launcher)
	fullHash := fullPuzzle.TreeHash()

	solution, err := reg.Solve(db, template.Launcher, solver.Params{
		"destination_puzzle_hash": fullHash,
		"launcher_amount":         amount,
		"metadata":                metadata,
	})
	if err != nil {
		return nil, nil, err
	}

	message := puzzle.List(puzzle.HashAtom(fullHash), puzzle.Uint(amount), metadata).TreeHash()
	announcement := sha256.Sum256(append(launcherID[:], message[:]...))
	conditions := []*puzzle.Program{
		puzzle.List(
			puzzle.Int(puzzle.CreateCoin),
			puzzle.HashAtom(template.LauncherHash),
			puzzle.Uint(amount),
		),
		puzzle.List(
			puzzle.Int(puzzle.AssertCoinAnnouncement),
			puzzle.Atom(announcement[:]),
		),
	}
	spend := &indexer.Spend{
		Coin:         launcherCoin,
		PuzzleReveal: template.Launcher,
		Solution:     solution,
	}
	return spend, conditions, nil
}
