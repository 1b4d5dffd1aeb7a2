package puzzle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurryUncurryInverse(t *testing.T) {
	mods := []*Program{
		Int(1),
		Atom([]byte("singleton mod")),
		List(Int(2), Int(5), Int(11)),
	}
	argLists := [][]*Program{
		nil,
		{Int(7)},
		{Atom([]byte("a")), Atom([]byte("b")), Atom([]byte("c"))},
		{Pair(Int(1), Int(2)), Nil()},
	}
	for _, mod := range mods {
		for _, args := range argLists {
			curried := Curry(mod, args...)
			back, backArgs, ok := Uncurry(curried)
			require.True(t, ok)
			require.True(t, mod.Equal(back))
			require.Len(t, backArgs, len(args))
			for i := range args {
				require.True(t, args[i].Equal(backArgs[i]))
			}
		}
	}
}

func TestUncurryRejectsNonCurry(t *testing.T) {
	for _, p := range []*Program{
		Nil(),
		Int(1),
		List(Int(51), Int(200)),
		Pair(Int(2), Int(3)),
		// right operator, wrong tail
		List(Atom(opApply), Pair(Atom(opQuote), Int(1)), Int(3)),
	} {
		_, _, ok := Uncurry(p)
		require.False(t, ok, "%s should not uncurry", p.Hex())
	}
}

func TestCurriedProgramsCommitDistinctly(t *testing.T) {
	mod := Atom([]byte("mod"))
	a := Curry(mod, Int(1))
	b := Curry(mod, Int(2))
	require.NotEqual(t, a.TreeHash(), b.TreeHash())
	require.NotEqual(t, a.TreeHash(), mod.TreeHash())
}

func TestQuoteEvaluator(t *testing.T) {
	conditions := List(List(Int(CreateCoin), Atom([]byte("ph")), Int(1)))
	quoted := Pair(Atom(opQuote), conditions)

	_, result, err := QuoteEvaluator{}.Evaluate(quoted, Nil(), 0)
	require.NoError(t, err)
	require.True(t, conditions.Equal(result))

	_, _, err = QuoteEvaluator{}.Evaluate(Int(1), Nil(), 0)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
}

func TestConditions(t *testing.T) {
	result := List(
		List(Int(CreateCoin), Atom([]byte("ph1")), Int(200)),
		List(Int(CreateCoin), Nil(), Int(-113)),
		List(Int(CreateCoinAnnouncement), Atom([]byte("msg"))),
	)
	conds, err := Conditions(result)
	require.NoError(t, err)
	require.Len(t, conds, 3)
	require.Equal(t, int64(CreateCoin), conds[0].Opcode)
	require.Len(t, conds[0].Args, 2)
	require.False(t, conds[0].IsMelt())
	require.True(t, conds[1].IsMelt())
	require.Equal(t, int64(CreateCoinAnnouncement), conds[2].Opcode)

	_, err = Conditions(Pair(Int(1), Int(2)))
	require.Error(t, err)

	_, err = Conditions(List(Nil()))
	require.Error(t, err, "condition must be a non-empty list")
}

func TestMeltMarker(t *testing.T) {
	melt := Condition{Opcode: CreateCoin, Args: []*Program{Atom([]byte("ph")), Int(-113)}}
	require.True(t, melt.IsMelt())

	pay := Condition{Opcode: CreateCoin, Args: []*Program{Atom([]byte("ph")), Int(113)}}
	require.False(t, pay.IsMelt())
}
