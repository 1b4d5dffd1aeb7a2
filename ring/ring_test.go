package ring

import (
	"testing"

	"github.com/stretchr/testify/require"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
)

var (
	ringMod = puzzle.Atom([]byte("cat_v2"))
	limHash = puzzle.Atom([]byte("no limitations")).TreeHash()
)

func quote(p *puzzle.Program) *puzzle.Program {
	return puzzle.Pair(puzzle.Int(1), p)
}

func payments(amounts ...int64) *puzzle.Program {
	conds := make([]*puzzle.Program, len(amounts))
	for i, a := range amounts {
		conds[i] = puzzle.List(puzzle.Int(puzzle.CreateCoin), puzzle.HashAtom(puzzle.Int(a).TreeHash()), puzzle.Int(a))
	}
	return puzzle.List(conds...)
}

func member(seed byte, amount uint64, conds *puzzle.Program) Member {
	var parent puzzle.Hash
	for i := range parent {
		parent[i] = seed
	}
	inner := quote(conds)
	return Member{
		Coin: indexer.Coin{
			ParentID:   parent,
			PuzzleHash: Puzzle(ringMod, limHash, inner).TreeHash(),
			Amount:     amount,
		},
		LimitationsHash: limHash,
		InnerPuzzle:     inner,
		InnerSolution:   puzzle.Nil(),
	}
}

func TestBuildSpendsBalanced(t *testing.T) {
	members := []Member{
		member(0x01, 100, payments(150)), // delta -50
		member(0x02, 200, payments(170)), // delta  30
		member(0x03, 300, payments(280)), // delta  20
	}
	spends, err := BuildSpends(puzzle.QuoteEvaluator{}, ringMod, members)
	require.NoError(t, err)
	require.Len(t, spends, 3)

	ids := make([]puzzle.Hash, len(members))
	for i, m := range members {
		ids[i] = m.Coin.ID()
	}

	wantSubtotals := []int64{50, 0, 30}
	for i, spend := range spends {
		require.Equal(t, members[i].Coin, spend.Coin, "order preserved")
		require.True(t, Puzzle(ringMod, limHash, members[i].InnerPuzzle).Equal(spend.PuzzleReveal))

		fields, ok := spend.Solution.AsList()
		require.True(t, ok)
		require.Len(t, fields, 7)

		require.True(t, members[i].InnerSolution.Equal(fields[0]))
		require.True(t, puzzle.Nil().Equal(fields[1]), "no lineage proof provided")

		prev := ids[(i+len(members)-1)%len(members)]
		require.True(t, puzzle.HashAtom(prev).Equal(fields[2]))

		require.True(t, members[i].Coin.ToProgram().Equal(fields[3]))

		next := members[(i+1)%len(members)]
		require.True(t, puzzle.List(
			puzzle.HashAtom(next.Coin.ParentID),
			puzzle.HashAtom(next.InnerPuzzle.TreeHash()),
			puzzle.Uint(next.Coin.Amount),
		).Equal(fields[4]))

		subtotal, ok := fields[5].AsInt()
		require.True(t, ok)
		require.Equal(t, wantSubtotals[i], subtotal)

		extra, ok := fields[6].AsInt()
		require.True(t, ok)
		require.Zero(t, extra)
	}
}

func TestBuildSpendsUnbalanced(t *testing.T) {
	members := []Member{
		member(0x01, 100, payments(100)),
		member(0x02, 200, payments(150)), // 50 vanishes
	}
	_, err := BuildSpends(puzzle.QuoteEvaluator{}, ringMod, members)
	require.ErrorIs(t, err, ErrUnbalancedRing)
}

func TestBuildSpendsMeltExcluded(t *testing.T) {
	conds := puzzle.List(
		puzzle.List(puzzle.Int(puzzle.CreateCoin), puzzle.HashAtom(puzzle.Int(1).TreeHash()), puzzle.Int(100)),
		puzzle.List(puzzle.Int(puzzle.CreateCoin), puzzle.Nil(), puzzle.Int(-113)),
	)
	members := []Member{member(0x01, 100, conds)}
	spends, err := BuildSpends(puzzle.QuoteEvaluator{}, ringMod, members)
	require.NoError(t, err)
	require.Len(t, spends, 1)
}

func TestBuildSpendsExtraDelta(t *testing.T) {
	// member mints 10 beyond its input; extra_delta absorbs the difference
	m := member(0x01, 100, payments(110))
	m.ExtraDelta = 10
	spends, err := BuildSpends(puzzle.QuoteEvaluator{}, ringMod, []Member{m})
	require.NoError(t, err)

	fields, ok := spends[0].Solution.AsList()
	require.True(t, ok)
	extra, ok := fields[6].AsInt()
	require.True(t, ok)
	require.Equal(t, int64(10), extra)

	m.ExtraDelta = 0
	_, err = BuildSpends(puzzle.QuoteEvaluator{}, ringMod, []Member{m})
	require.ErrorIs(t, err, ErrUnbalancedRing)
}

func TestSingleMemberRing(t *testing.T) {
	members := []Member{member(0x09, 100, payments(100))}
	spends, err := BuildSpends(puzzle.QuoteEvaluator{}, ringMod, members)
	require.NoError(t, err)
	require.Len(t, spends, 1)

	fields, ok := spends[0].Solution.AsList()
	require.True(t, ok)
	// a ring of one links to itself
	require.True(t, puzzle.HashAtom(members[0].Coin.ID()).Equal(fields[2]))
	require.True(t, puzzle.List(
		puzzle.HashAtom(members[0].Coin.ParentID),
		puzzle.HashAtom(members[0].InnerPuzzle.TreeHash()),
		puzzle.Uint(members[0].Coin.Amount),
	).Equal(fields[4]))
}

func TestBuildSpendsNoMembers(t *testing.T) {
	_, err := BuildSpends(puzzle.QuoteEvaluator{}, ringMod, nil)
	require.Error(t, err)
}

func TestLineageProofCarried(t *testing.T) {
	m := member(0x01, 100, payments(100))
	proof := puzzle.List(puzzle.HashAtom(m.Coin.ParentID), puzzle.HashAtom(m.InnerPuzzle.TreeHash()), puzzle.Uint(100))
	m.LineageProof = proof
	spends, err := BuildSpends(puzzle.QuoteEvaluator{}, ringMod, []Member{m})
	require.NoError(t, err)

	fields, ok := spends[0].Solution.AsList()
	require.True(t, ok)
	require.True(t, proof.Equal(fields[1]))
}

func TestPuzzleCommitsToAllLayers(t *testing.T) {
	inner := quote(payments(1))
	a := Puzzle(ringMod, limHash, inner)
	b := Puzzle(ringMod, puzzle.Int(9).TreeHash(), inner)
	c := Puzzle(ringMod, limHash, quote(payments(2)))
	require.NotEqual(t, a.TreeHash(), b.TreeHash())
	require.NotEqual(t, a.TreeHash(), c.TreeHash())
}

func TestSubtotalsNormalized(t *testing.T) {
	cases := []struct {
		deltas []int64
		want   []int64
	}{
		{[]int64{0}, []int64{0}},
		{[]int64{-50, 30, 20}, []int64{50, 0, 30}},
		{[]int64{10, -10}, []int64{0, 10}},
		{[]int64{5, -3, -2}, []int64{0, 5, 2}},
	}
	for _, c := range cases {
		got := subtotalsForDeltas(c.deltas)
		require.Equal(t, c.want, got, "deltas %v", c.deltas)

		min := got[0]
		for _, s := range got[1:] {
			if s < min {
				min = s
			}
		}
		require.Zero(t, min)
	}
}
