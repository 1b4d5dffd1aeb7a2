package singletonindexer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shruggr/singleton-indexer/puzzle"
)

func fixedHash(b byte) (h puzzle.Hash) {
	for i := range h {
		h[i] = b
	}
	return h
}

func TestCoinID(t *testing.T) {
	parent := fixedHash(0xaa)
	ph := fixedHash(0xbb)
	cases := []struct {
		amount uint64
		id     string
	}{
		{1, "79140d96859072ea797f1702c6db1559bfa7be1b7451b4395e535db53141fc2b"},
		{200, "0a96aedd0e6ab0bc8d7d78244442db735435a502252683ed9160433e1dcc1b6f"},
		{0, "e2d80f78d79027556d6619a1400605abbdca6bb6eb24e0831e33ecd5466fa5f6"},
	}
	for _, c := range cases {
		coin := Coin{ParentID: parent, PuzzleHash: ph, Amount: c.amount}
		require.Equal(t, c.id, coin.ID().String())
	}
}

func quote(p *puzzle.Program) *puzzle.Program {
	return puzzle.Pair(puzzle.Int(1), p)
}

func TestAdditions(t *testing.T) {
	coin := Coin{ParentID: fixedHash(0x01), PuzzleHash: fixedHash(0x02), Amount: 300}
	dest := fixedHash(0x03)
	change := fixedHash(0x04)
	reveal := quote(puzzle.List(
		puzzle.List(puzzle.Int(puzzle.CreateCoin), puzzle.HashAtom(dest), puzzle.Uint(1)),
		puzzle.List(puzzle.Int(puzzle.CreateCoin), puzzle.HashAtom(change), puzzle.Uint(200)),
		puzzle.List(puzzle.Int(puzzle.CreateCoin), puzzle.Nil(), puzzle.Int(-113)),
	))
	spend := &Spend{Coin: coin, PuzzleReveal: reveal, Solution: puzzle.Nil()}

	children, err := Additions(puzzle.QuoteEvaluator{}, spend)
	require.NoError(t, err)
	require.Len(t, children, 2, "melt output creates no coin")
	require.Equal(t, Coin{ParentID: coin.ID(), PuzzleHash: dest, Amount: 1}, children[0])
	require.Equal(t, Coin{ParentID: coin.ID(), PuzzleHash: change, Amount: 200}, children[1])
}

func TestAdditionsRejectsBadCreateCoin(t *testing.T) {
	coin := Coin{ParentID: fixedHash(0x01), PuzzleHash: fixedHash(0x02), Amount: 1}
	reveal := quote(puzzle.List(
		puzzle.List(puzzle.Int(puzzle.CreateCoin), puzzle.Atom([]byte("short")), puzzle.Uint(1)),
	))
	_, err := Additions(puzzle.QuoteEvaluator{}, &Spend{Coin: coin, PuzzleReveal: reveal, Solution: puzzle.Nil()})
	require.Error(t, err)
}

func TestByteStringJSON(t *testing.T) {
	b, err := json.Marshal(ByteString{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)
	require.Equal(t, `"deadbeef"`, string(b))

	var back ByteString
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, ByteString{0xde, 0xad, 0xbe, 0xef}, back)
}

type countingView struct {
	spends map[puzzle.Hash]*Spend
	calls  int
	height uint32
}

func (v *countingView) SpendsFor(coinIDs []puzzle.Hash) ([]*Spend, error) {
	v.calls++
	var out []*Spend
	for _, id := range coinIDs {
		if s, ok := v.spends[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (v *countingView) CurrentHeight() (uint32, error) {
	return v.height, nil
}

func TestCachedView(t *testing.T) {
	coin := Coin{ParentID: fixedHash(0x07), PuzzleHash: fixedHash(0x08), Amount: 1}
	spend := &Spend{Coin: coin, PuzzleReveal: quote(puzzle.Nil()), Solution: puzzle.Nil()}
	inner := &countingView{
		spends: map[puzzle.Hash]*Spend{coin.ID(): spend},
		height: 42,
	}
	view, err := NewCachedView(inner, 16)
	require.NoError(t, err)

	got, err := view.SpendsFor([]puzzle.Hash{coin.ID()})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1, inner.calls)

	got, err = view.SpendsFor([]puzzle.Hash{coin.ID()})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1, inner.calls, "second lookup served from cache")

	height, err := view.CurrentHeight()
	require.NoError(t, err)
	require.Equal(t, uint32(42), height)
}
