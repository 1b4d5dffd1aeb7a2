// Package ring builds value-preserving group spends: every member's
// delta is proven against the group by cyclic prev/next linkage, so the
// deltas must sum to exactly zero.
package ring

import (
	"errors"
	"fmt"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
)

var ErrUnbalancedRing = errors.New("ring input and output amounts don't match")

// Member is one coin of the group and everything needed to spend it.
type Member struct {
	Coin                indexer.Coin
	LimitationsHash     puzzle.Hash
	InnerPuzzle         *puzzle.Program
	InnerSolution       *puzzle.Program
	LineageProof        *puzzle.Program
	ExtraDelta          int64
	LimitationsSolution *puzzle.Program
	LimitationsReveal   *puzzle.Program
}

// Puzzle wraps a member's inner puzzle in the ring mod.
func Puzzle(mod *puzzle.Program, limitationsHash puzzle.Hash, inner *puzzle.Program) *puzzle.Program {
	return puzzle.Curry(
		mod,
		puzzle.HashAtom(mod.TreeHash()),
		puzzle.HashAtom(limitationsHash),
		inner,
	)
}

// BuildSpends emits one spend per member, order-preserving. Deltas come
// from evaluating each inner puzzle: melt-marked outputs are excluded
// and extra_delta is charged against the member. The deltas must sum to
// zero; subtotals are normalized so their minimum is exactly 0.
func BuildSpends(ev puzzle.Evaluator, mod *puzzle.Program, members []Member) ([]*indexer.Spend, error) {
	n := len(members)
	if n == 0 {
		return nil, fmt.Errorf("ring has no members")
	}

	deltas := make([]int64, n)
	for i, m := range members {
		_, result, err := ev.Evaluate(m.InnerPuzzle, m.InnerSolution, 0)
		if err != nil {
			return nil, err
		}
		conds, err := puzzle.Conditions(result)
		if err != nil {
			return nil, fmt.Errorf("ring member %d: %w", i, err)
		}
		total := -m.ExtraDelta
		for _, cond := range conds {
			if cond.Opcode != puzzle.CreateCoin || cond.IsMelt() {
				continue
			}
			if len(cond.Args) < 2 {
				return nil, fmt.Errorf("ring member %d: malformed CREATE_COIN", i)
			}
			amount, ok := cond.Args[1].AsInt()
			if !ok {
				return nil, fmt.Errorf("ring member %d: bad CREATE_COIN amount", i)
			}
			total += amount
		}
		deltas[i] = int64(m.Coin.Amount) - total
	}

	var sum int64
	for _, d := range deltas {
		sum += d
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: deltas sum to %d", ErrUnbalancedRing, sum)
	}
	subtotals := subtotalsForDeltas(deltas)

	ids := make([]puzzle.Hash, n)
	myInfos := make([]*puzzle.Program, n)
	nextInfos := make([]*puzzle.Program, n)
	for i, m := range members {
		ids[i] = m.Coin.ID()
		myInfos[i] = m.Coin.ToProgram()
		nextInfos[i] = puzzle.List(
			puzzle.HashAtom(m.Coin.ParentID),
			puzzle.HashAtom(m.InnerPuzzle.TreeHash()),
			puzzle.Uint(m.Coin.Amount),
		)
	}

	spends := make([]*indexer.Spend, n)
	for i, m := range members {
		prev := ids[(i-1+n)%n]
		next := nextInfos[(i+1)%n]
		lineage := m.LineageProof
		if lineage == nil {
			lineage = puzzle.Nil()
		}
		solution := puzzle.List(
			m.InnerSolution,
			lineage,
			puzzle.HashAtom(prev),
			myInfos[i],
			next,
			puzzle.Int(subtotals[i]),
			puzzle.Int(m.ExtraDelta),
		)
		spends[i] = &indexer.Spend{
			Coin:         m.Coin,
			PuzzleReveal: Puzzle(mod, m.LimitationsHash, m.InnerPuzzle),
			Solution:     solution,
		}
	}
	return spends, nil
}

// subtotalsForDeltas computes running subtotals shifted so the smallest
// is 0; only relative values matter to the committed program.
func subtotalsForDeltas(deltas []int64) []int64 {
	subtotals := make([]int64, len(deltas))
	var running int64
	for i, d := range deltas {
		subtotals[i] = running
		running += d
	}
	min := subtotals[0]
	for _, s := range subtotals[1:] {
		if s < min {
			min = s
		}
	}
	for i := range subtotals {
		subtotals[i] -= min
	}
	return subtotals
}
